// Package notify provides an in-memory collab.Notification recorder for
// tests and local development. No pack dependency maps onto a specific
// notification channel SDK, so a real deployment swaps this for one behind
// the same interface.
package notify

import (
	"context"
	"sync"

	"github.com/singh24honey/qa-automation-framework-sub005/collab"
)

// Sent is one recorded notification.
type Sent struct {
	Channel string
	Payload map[string]any
}

// Recorder implements collab.Notification by appending every call to an
// in-memory log instead of delivering anywhere, so tests can assert on
// what would have been sent.
type Recorder struct {
	mu  sync.Mutex
	log []Sent
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

var _ collab.Notification = (*Recorder)(nil)

// Notify implements collab.Notification. It never fails; per spec §4.9
// this collaborator is best-effort and fire-and-forget.
func (r *Recorder) Notify(ctx context.Context, channel string, payload map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, Sent{Channel: channel, Payload: payload})
	return nil
}

// Sent returns a copy of everything recorded so far.
func (r *Recorder) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sent, len(r.log))
	copy(out, r.log)
	return out
}
