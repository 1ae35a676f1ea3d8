// Package issuetracker provides an in-memory collab.IssueTracker. No pack
// dependency maps onto a specific issue-tracker SDK (Jira, Linear, etc.),
// so this stands in as the seam a real client would plug into.
package issuetracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/singh24honey/qa-automation-framework-sub005/collab"
	"github.com/singh24honey/qa-automation-framework-sub005/llmgateway"
)

// Mock implements collab.IssueTracker from a fixed, in-memory set of
// stories keyed by their key.
type Mock struct {
	mu      sync.RWMutex
	stories map[string]llmgateway.Story
}

// New returns a Mock pre-loaded with the given stories, keyed by Story.Key.
func New(stories ...llmgateway.Story) *Mock {
	m := &Mock{stories: make(map[string]llmgateway.Story, len(stories))}
	for _, s := range stories {
		m.stories[s.Key] = s
	}
	return m
}

var _ collab.IssueTracker = (*Mock)(nil)

// Put registers or replaces a story.
func (m *Mock) Put(story llmgateway.Story) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stories[story.Key] = story
}

// FetchStory implements collab.IssueTracker.
func (m *Mock) FetchStory(ctx context.Context, key string) (llmgateway.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	story, ok := m.stories[key]
	if !ok {
		return llmgateway.Story{}, fmt.Errorf("issuetracker: story %q not found", key)
	}
	return story, nil
}
