package provider

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a deterministic test/demo provider. It returns a queued response
// for each call (round-robin, repeating the last entry once exhausted) so
// tests can script multi-turn planner conversations without a network call.
type Mock struct {
	mu        sync.Mutex
	responses []Response
	calls     []Request
	next      int
	err       error
}

// NewMock constructs a Mock that returns responses in order.
func NewMock(responses ...Response) *Mock {
	return &Mock{responses: responses}
}

// FailNext configures the mock to return err on the next call instead of a
// queued response.
func (m *Mock) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Complete implements Provider.
func (m *Mock) Complete(_ context.Context, req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		err := m.err
		m.err = nil
		return Response{}, err
	}
	if len(m.responses) == 0 {
		return Response{}, fmt.Errorf("mock provider: no responses queued")
	}
	idx := m.next
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	} else {
		m.next++
	}
	return m.responses[idx], nil
}

// Calls returns a copy of the requests observed so far, for test assertions.
func (m *Mock) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}
