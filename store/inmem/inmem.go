// Package inmem provides an in-memory implementation of agent.Store for
// tests and local development. Data is stored in process memory and is lost
// when the process exits; production deployments should use store/badger.
package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/singh24honey/qa-automation-framework-sub005/agent"
)

// Store implements agent.Store using an in-process map keyed by execution
// ID. It is thread-safe and defensively copies every execution it returns so
// callers cannot mutate internal state through the returned pointer.
type Store struct {
	mu          sync.RWMutex
	executions  map[string]*agent.Execution
	lastUpdated map[string]time.Time
}

// New returns a ready-to-use in-memory Store with no executions.
func New() *Store {
	return &Store{
		executions:  make(map[string]*agent.Execution),
		lastUpdated: make(map[string]time.Time),
	}
}

// PersistExecution implements agent.Store.
func (s *Store) PersistExecution(_ context.Context, exec *agent.Execution) error {
	if exec == nil {
		return fmt.Errorf("inmem: cannot persist nil execution")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := clone(exec)
	s.executions[exec.ID] = cp
	s.lastUpdated[exec.ID] = time.Now()
	return nil
}

// LoadExecution implements agent.Store.
func (s *Store) LoadExecution(_ context.Context, id string) (*agent.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exec, ok := s.executions[id]
	if !ok {
		return nil, fmt.Errorf("inmem: execution %q not found", id)
	}
	return clone(exec), nil
}

// AppendAction implements agent.Store, rejecting a non-monotonic iteration
// on (execution id, iteration) per spec.
func (s *Store) AppendAction(_ context.Context, executionID string, action agent.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exec, ok := s.executions[executionID]
	if !ok {
		return fmt.Errorf("inmem: execution %q not found", executionID)
	}
	for _, a := range exec.Actions {
		if a.Iteration == action.Iteration {
			return fmt.Errorf("inmem: duplicate iteration %d for execution %q", action.Iteration, executionID)
		}
	}
	exec.Actions = append(exec.Actions, action)
	s.lastUpdated[executionID] = time.Now()
	return nil
}

// ListRunning implements agent.Store.
func (s *Store) ListRunning(_ context.Context) ([]*agent.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*agent.Execution
	for _, exec := range s.executions {
		if !exec.Status.Terminal() {
			out = append(out, clone(exec))
		}
	}
	return out, nil
}

// ListStuck implements agent.Store, returning non-terminal executions whose
// last write is older than olderThan.
func (s *Store) ListStuck(_ context.Context, olderThan time.Duration) ([]*agent.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := time.Now().Add(-olderThan)
	var out []*agent.Execution
	for id, exec := range s.executions {
		if exec.Status.Terminal() {
			continue
		}
		if s.lastUpdated[id].Before(cutoff) {
			out = append(out, clone(exec))
		}
	}
	return out, nil
}

func clone(exec *agent.Execution) *agent.Execution {
	cp := *exec
	cp.Actions = make([]agent.Action, len(exec.Actions))
	copy(cp.Actions, exec.Actions)
	if exec.Parameters != nil {
		cp.Parameters = make(map[string]any, len(exec.Parameters))
		for k, v := range exec.Parameters {
			cp.Parameters[k] = v
		}
	}
	return &cp
}
