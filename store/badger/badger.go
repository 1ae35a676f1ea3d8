// Package badger provides the durable implementation of agent.Store (spec
// §4.8), backed by BadgerDB. Every execution is stored as a single JSON
// record keyed by its ID; actions are appended by re-marshaling the whole
// execution inside one transaction, since BadgerDB has no native
// append-to-value primitive.
//
// Key format: "execution:{execution_id}"
package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/singh24honey/qa-automation-framework-sub005/agent"
)

// Store implements agent.Store against an on-disk BadgerDB instance.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a BadgerDB instance rooted at path and
// returns a Store backed by it. Callers must call Close when done.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying BadgerDB handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func executionKey(id string) []byte {
	return []byte("execution:" + id)
}

const executionKeyPrefix = "execution:"

// PersistExecution implements agent.Store.
func (s *Store) PersistExecution(ctx context.Context, exec *agent.Execution) error {
	if exec == nil {
		return fmt.Errorf("badger: cannot persist nil execution")
	}
	data, err := json.Marshal(exec)
	if err != nil {
		return fmt.Errorf("badger: marshal execution %q: %w", exec.ID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(executionKey(exec.ID), data)
	})
}

// LoadExecution implements agent.Store.
func (s *Store) LoadExecution(ctx context.Context, id string) (*agent.Execution, error) {
	var exec agent.Execution
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(executionKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return fmt.Errorf("badger: execution %q not found", id)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &exec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &exec, nil
}

// AppendAction implements agent.Store. It reads, appends, and rewrites the
// execution record inside a single transaction, rejecting a non-monotonic
// iteration on (execution id, iteration) per spec.
func (s *Store) AppendAction(ctx context.Context, executionID string, action agent.Action) error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(executionKey(executionID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return fmt.Errorf("badger: execution %q not found", executionID)
			}
			return err
		}
		var exec agent.Execution
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &exec)
		}); err != nil {
			return err
		}
		for _, a := range exec.Actions {
			if a.Iteration == action.Iteration {
				return fmt.Errorf("badger: duplicate iteration %d for execution %q", action.Iteration, executionID)
			}
		}
		exec.Actions = append(exec.Actions, action)
		data, err := json.Marshal(&exec)
		if err != nil {
			return err
		}
		return txn.Set(executionKey(executionID), data)
	})
}

// ListRunning implements agent.Store by scanning every execution record for
// a non-terminal status.
func (s *Store) ListRunning(ctx context.Context) ([]*agent.Execution, error) {
	var out []*agent.Execution
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(executionKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(opts.Prefix); it.Next() {
			var exec agent.Execution
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &exec)
			}); err != nil {
				return err
			}
			if !exec.Status.Terminal() {
				cp := exec
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

// ListStuck implements agent.Store, returning non-terminal executions whose
// StartedAt predates olderThan. BadgerDB records no separate last-write
// timestamp per key, so staleness is approximated from the execution's own
// StartedAt field.
func (s *Store) ListStuck(ctx context.Context, olderThan time.Duration) ([]*agent.Execution, error) {
	cutoff := time.Now().Add(-olderThan)
	running, err := s.ListRunning(ctx)
	if err != nil {
		return nil, err
	}
	var out []*agent.Execution
	for _, exec := range running {
		if exec.StartedAt.Before(cutoff) {
			out = append(out, exec)
		}
	}
	return out, nil
}
