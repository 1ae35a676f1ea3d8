package agent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool bounds the number of Agent Executions running concurrently (spec
// §5: "The process hosts a bounded worker pool for executions"). Each
// execution is one logical task; work inside it is strictly serial.
type Pool struct {
	executor *Executor
	group    *errgroup.Group
	ctx      context.Context
}

// NewPool constructs a Pool bound to ctx, admitting at most maxConcurrent
// executions at a time.
func NewPool(ctx context.Context, executor *Executor, maxConcurrent int) *Pool {
	g, gctx := errgroup.WithContext(ctx)
	if maxConcurrent > 0 {
		g.SetLimit(maxConcurrent)
	}
	return &Pool{executor: executor, group: g, ctx: gctx}
}

// Submit schedules exec to run under planner and cfg. Submit does not block
// once the pool has capacity; it blocks only while every slot is occupied
// (errgroup.Group.Go's documented behavior after SetLimit).
func (p *Pool) Submit(exec *Execution, planner Planner, cfg Config, catalog string) {
	p.group.Go(func() error {
		return p.executor.Run(p.ctx, exec, planner, cfg, catalog)
	})
}

// Wait blocks until every submitted execution has returned, and returns the
// first non-nil error encountered, if any.
func (p *Pool) Wait() error {
	return p.group.Wait()
}
