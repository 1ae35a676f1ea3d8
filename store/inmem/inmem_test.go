package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singh24honey/qa-automation-framework-sub005/agent"
)

func TestStorePersistAndLoad(t *testing.T) {
	store := New()
	ctx := context.Background()
	exec := agent.NewExecution(agent.KindTestGenerator, "goal", map[string]any{"story_key": "SCRUM-7"}, "user-1")

	require.NoError(t, store.PersistExecution(ctx, exec))
	loaded, err := store.LoadExecution(ctx, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, exec.ID, loaded.ID)
	assert.Equal(t, agent.StatusRunning, loaded.Status)
}

func TestStoreLoadIsolatedFromCaller(t *testing.T) {
	store := New()
	ctx := context.Background()
	exec := agent.NewExecution(agent.KindTestGenerator, "goal", nil, "user-1")
	require.NoError(t, store.PersistExecution(ctx, exec))

	loaded, err := store.LoadExecution(ctx, exec.ID)
	require.NoError(t, err)
	loaded.Status = agent.StatusFailed

	reloaded, err := store.LoadExecution(ctx, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.StatusRunning, reloaded.Status, "store mutated by caller")
}

func TestStoreAppendActionRejectsDuplicateIteration(t *testing.T) {
	store := New()
	ctx := context.Background()
	exec := agent.NewExecution(agent.KindTestGenerator, "goal", nil, "user-1")
	require.NoError(t, store.PersistExecution(ctx, exec))

	require.NoError(t, store.AppendAction(ctx, exec.ID, agent.Action{Iteration: 1, ActionType: "fetch_story"}))
	err := store.AppendAction(ctx, exec.ID, agent.Action{Iteration: 1, ActionType: "fetch_story"})
	assert.Error(t, err)
}

func TestStoreListRunningExcludesTerminal(t *testing.T) {
	store := New()
	ctx := context.Background()

	running := agent.NewExecution(agent.KindTestGenerator, "goal", nil, "user-1")
	require.NoError(t, store.PersistExecution(ctx, running))

	done := agent.NewExecution(agent.KindFlakyFixer, "goal", nil, "user-1")
	done.Status = agent.StatusSucceeded
	require.NoError(t, store.PersistExecution(ctx, done))

	list, err := store.ListRunning(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, running.ID, list[0].ID)
}

func TestStoreListStuckByAge(t *testing.T) {
	store := New()
	ctx := context.Background()
	exec := agent.NewExecution(agent.KindTestGenerator, "goal", nil, "user-1")
	require.NoError(t, store.PersistExecution(ctx, exec))

	fresh, err := store.ListStuck(ctx, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, fresh)

	stuck, err := store.ListStuck(ctx, -time.Second)
	require.NoError(t, err)
	require.Len(t, stuck, 1)
	assert.Equal(t, exec.ID, stuck[0].ID)
}
