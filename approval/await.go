package approval

import (
	"context"
	"fmt"
)

// Await blocks until id's request reaches a terminal decision, the context
// is cancelled, or deadline passes — whichever comes first. It is the
// suspension point spec §5 names explicitly ("the approval wait ... may
// suspend").
func (e *Engine) Await(ctx context.Context, id string) (Decision, error) {
	e.mu.Lock()
	req, ok := e.requests[id]
	if !ok {
		e.mu.Unlock()
		return Decision{}, ErrNotFound
	}
	if req.Status != Pending {
		status := req.Status
		reviewer := req.ReviewerID
		note := req.DecisionNote
		reviewedAt := req.ReviewedAt
		e.mu.Unlock()
		return Decision{Status: status, ReviewerID: reviewer, ReasonOrNote: note, DecidedAt: reviewedAt}, nil
	}
	waiter, ok := e.waiters[id]
	e.mu.Unlock()
	if !ok {
		return Decision{}, fmt.Errorf("approval: no waiter registered for %s", id)
	}

	select {
	case d := <-waiter.ch:
		return d, nil
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	}
}
