// Package secrets provides an in-memory collab.Secrets for tests and
// local development. No pack dependency maps onto a specific secrets
// manager SDK, so a real deployment swaps this for one behind the same
// interface.
package secrets

import (
	"context"
	"fmt"
	"sync"

	"github.com/singh24honey/qa-automation-framework-sub005/collab"
)

// Mock implements collab.Secrets from a fixed in-memory map.
type Mock struct {
	mu     sync.RWMutex
	values map[string]string
}

// New returns a Mock pre-loaded with the given key/value pairs.
func New(values map[string]string) *Mock {
	m := &Mock{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

var _ collab.Secrets = (*Mock)(nil)

// Get implements collab.Secrets.
func (m *Mock) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("secrets: key %q not set", key)
	}
	return v, nil
}
