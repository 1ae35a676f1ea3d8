package agent

import (
	"context"
	"time"
)

// Store is the consumer-defined persistence contract the executor depends
// on (spec §4.8). It is declared here, in the package that uses it, so
// concrete implementations (store/inmem, store/badger) depend on agent
// rather than the reverse.
type Store interface {
	// PersistExecution writes the full state of exec, creating it if it does
	// not already exist (spec §4.8: "full state round-trip; must preserve
	// status, counters, and pending-approval linkage").
	PersistExecution(ctx context.Context, exec *Execution) error
	// LoadExecution returns the execution identified by id.
	LoadExecution(ctx context.Context, id string) (*Execution, error)
	// AppendAction appends action to the execution identified by
	// executionID. Implementations must reject a non-monotonic iteration
	// (spec §4.8: "violating uniqueness on (execution id, iteration) is an
	// error").
	AppendAction(ctx context.Context, executionID string, action Action) error
	// ListRunning returns every execution currently in a non-terminal
	// status, for recovery on restart.
	ListRunning(ctx context.Context) ([]*Execution, error)
	// ListStuck returns running executions whose last recorded activity is
	// older than olderThan, for recovery scans.
	ListStuck(ctx context.Context, olderThan time.Duration) ([]*Execution, error)
}
