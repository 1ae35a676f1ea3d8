package issuetracker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singh24honey/qa-automation-framework-sub005/collab/issuetracker"
	"github.com/singh24honey/qa-automation-framework-sub005/llmgateway"
)

func TestMockFetchStory(t *testing.T) {
	tracker := issuetracker.New(llmgateway.Story{Key: "SCRUM-7", Summary: "Login with email and password"})

	story, err := tracker.FetchStory(context.Background(), "SCRUM-7")
	require.NoError(t, err)
	assert.Equal(t, "Login with email and password", story.Summary)
}

func TestMockFetchStoryMissing(t *testing.T) {
	tracker := issuetracker.New()
	_, err := tracker.FetchStory(context.Background(), "SCRUM-404")
	assert.Error(t, err)
}

func TestMockPutReplacesStory(t *testing.T) {
	tracker := issuetracker.New(llmgateway.Story{Key: "SCRUM-7", Summary: "old"})
	tracker.Put(llmgateway.Story{Key: "SCRUM-7", Summary: "new"})

	story, err := tracker.FetchStory(context.Background(), "SCRUM-7")
	require.NoError(t, err)
	assert.Equal(t, "new", story.Summary)
}
