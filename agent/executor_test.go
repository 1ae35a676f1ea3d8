package agent_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singh24honey/qa-automation-framework-sub005/agent"
	"github.com/singh24honey/qa-automation-framework-sub005/approval"
	"github.com/singh24honey/qa-automation-framework-sub005/breaker"
	"github.com/singh24honey/qa-automation-framework-sub005/dispatch"
	"github.com/singh24honey/qa-automation-framework-sub005/tools"
)

// memStore is a minimal agent.Store used only to exercise the executor's
// persistence calls; it is not the durable implementation.
type memStore struct {
	mu   sync.Mutex
	byID map[string]*agent.Execution
}

func newMemStore() *memStore { return &memStore{byID: make(map[string]*agent.Execution)} }

func (s *memStore) PersistExecution(ctx context.Context, exec *agent.Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *exec
	s.byID[exec.ID] = &cp
	return nil
}

func (s *memStore) LoadExecution(ctx context.Context, id string) (*agent.Execution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id], nil
}

func (s *memStore) AppendAction(ctx context.Context, executionID string, action agent.Action) error {
	return nil
}

func (s *memStore) ListRunning(ctx context.Context) ([]*agent.Execution, error) { return nil, nil }

func (s *memStore) ListStuck(ctx context.Context, olderThan time.Duration) ([]*agent.Execution, error) {
	return nil, nil
}

// fixedPlanner always returns the same PlanOutcome, letting tests drive the
// executor's loop without depending on any real planner.
type fixedPlanner struct {
	outcome agent.PlanOutcome
	err     error
}

func (p *fixedPlanner) Plan(ctx context.Context, exec *agent.Execution, cfg agent.Config, catalog string) (agent.PlanOutcome, error) {
	return p.outcome, p.err
}

func newDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()
	registry := tools.NewRegistry(nil)
	err := registry.Register(context.Background(), &tools.Tool{
		ActionType:  "noop_action",
		DisplayName: "Noop",
		Execute: func(ctx context.Context, params map[string]any) (map[string]any, error) {
			return map[string]any{"success": true}, nil
		},
	})
	require.NoError(t, err)
	err = registry.Register(context.Background(), &tools.Tool{
		ActionType:  "write_draft_test",
		DisplayName: "Write Draft Test",
		Execute: func(ctx context.Context, params map[string]any) (map[string]any, error) {
			return map[string]any{"success": true}, nil
		},
	})
	require.NoError(t, err)
	err = registry.Register(context.Background(), &tools.Tool{
		ActionType:  "commit",
		DisplayName: "Commit Fix",
		Execute: func(ctx context.Context, params map[string]any) (map[string]any, error) {
			return map[string]any{"success": true, "pr_number": 7}, nil
		},
	})
	require.NoError(t, err)
	return dispatch.New(registry, breaker.New(breaker.DefaultConfig()), nil, nil)
}

func TestExecutorReachesSucceeded(t *testing.T) {
	store := newMemStore()
	executor := agent.NewExecutor(store, newDispatcher(t), approval.New(nil), nil, nil)
	exec := agent.NewExecution(agent.KindTestGenerator, "goal", nil, "user-1")
	planner := &fixedPlanner{outcome: agent.PlanOutcome{Kind: agent.PlanGoalReached}}

	err := executor.Run(context.Background(), exec, planner, agent.DefaultConfig(), "")
	require.NoError(t, err)
	assert.Equal(t, agent.StatusSucceeded, exec.Status)
	assert.False(t, exec.FinishedAt.IsZero())
}

func TestExecutorGivesUp(t *testing.T) {
	store := newMemStore()
	executor := agent.NewExecutor(store, newDispatcher(t), approval.New(nil), nil, nil)
	exec := agent.NewExecution(agent.KindFlakyFixer, "goal", nil, "user-1")
	planner := &fixedPlanner{outcome: agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: "no path forward"}}

	err := executor.Run(context.Background(), exec, planner, agent.DefaultConfig(), "")
	require.NoError(t, err)
	assert.Equal(t, agent.StatusFailed, exec.Status)
	assert.Equal(t, "no path forward", exec.LastError)
}

func TestExecutorHitsIterationCeiling(t *testing.T) {
	store := newMemStore()
	executor := agent.NewExecutor(store, newDispatcher(t), approval.New(nil), nil, nil)
	exec := agent.NewExecution(agent.KindTestGenerator, "goal", nil, "user-1")
	planner := &fixedPlanner{outcome: agent.PlanOutcome{
		Kind:       agent.PlanAction,
		ActionType: "noop_action",
		Parameters: map[string]any{},
	}}
	cfg := agent.DefaultConfig()
	cfg.MaxIterations = 2

	err := executor.Run(context.Background(), exec, planner, cfg, "")
	require.NoError(t, err)
	assert.Equal(t, agent.StatusTimeout, exec.Status)
	assert.Equal(t, 2, exec.IterationsUsed)
}

func TestExecutorHitsBudgetCeiling(t *testing.T) {
	store := newMemStore()
	executor := agent.NewExecutor(store, newDispatcher(t), approval.New(nil), nil, nil)
	exec := agent.NewExecution(agent.KindTestGenerator, "goal", nil, "user-1")
	planner := &fixedPlanner{outcome: agent.PlanOutcome{
		Kind:       agent.PlanAction,
		ActionType: "noop_action",
		Parameters: map[string]any{},
		Cost:       0.75,
	}}
	cfg := agent.DefaultConfig()
	cfg.MaxCost = 1.0
	cfg.MaxIterations = 100

	err := executor.Run(context.Background(), exec, planner, cfg, "")
	require.NoError(t, err)
	assert.Equal(t, agent.StatusBudgetExceeded, exec.Status)
}

func TestExecutorStopsOnCancellation(t *testing.T) {
	store := newMemStore()
	executor := agent.NewExecutor(store, newDispatcher(t), approval.New(nil), nil, nil)
	exec := agent.NewExecution(agent.KindTestGenerator, "goal", nil, "user-1")
	planner := &fixedPlanner{outcome: agent.PlanOutcome{
		Kind:       agent.PlanAction,
		ActionType: "noop_action",
		Parameters: map[string]any{},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := executor.Run(ctx, exec, planner, agent.DefaultConfig(), "")
	require.NoError(t, err)
	assert.Equal(t, agent.StatusStopped, exec.Status)
}

func TestExecutorSuspendsAndResumesOnApproval(t *testing.T) {
	store := newMemStore()
	approvals := approval.New(nil)
	executor := agent.NewExecutor(store, newDispatcher(t), approvals, nil, nil)
	exec := agent.NewExecution(agent.KindTestGenerator, "goal", nil, "user-1")

	cfg := agent.DefaultConfig()
	cfg.ActionsAlwaysRequiringApproval = []string{"write_draft_test"}

	planner := &approvalThenDonePlanner{}
	done := make(chan error, 1)
	go func() {
		done <- executor.Run(context.Background(), exec, planner, cfg, "")
	}()

	require.Eventually(t, func() bool {
		return exec.PendingApprovalID != ""
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, approvals.Approve(exec.PendingApprovalID, "reviewer-1", "looks good"))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("executor did not resume after approval")
	}
	assert.Equal(t, agent.StatusSucceeded, exec.Status)
	assert.Equal(t, "write_draft_test", exec.Actions[0].ActionType)
	assert.True(t, exec.Actions[0].Success)
}

// TestExecutorDispatchesGitWorkflowOnApproval covers the FLAKY_FIX branch of
// spec §4.5's post-decision routing: approving a TriggerGitWorkflow request
// must actually invoke the paired "commit" action, not just synthesize
// success.
func TestExecutorDispatchesGitWorkflowOnApproval(t *testing.T) {
	store := newMemStore()
	approvals := approval.New(nil)
	executor := agent.NewExecutor(store, newDispatcher(t), approvals, nil, nil)
	exec := agent.NewExecution(agent.KindFlakyFixer, "goal", nil, "user-1")

	cfg := agent.DefaultConfig()
	cfg.ActionsAlwaysRequiringApproval = []string{"commit"}

	planner := &approvalThenDonePlanner{actionType: "commit", requestType: approval.FlakyFix}
	done := make(chan error, 1)
	go func() {
		done <- executor.Run(context.Background(), exec, planner, cfg, "")
	}()

	require.Eventually(t, func() bool {
		return exec.PendingApprovalID != ""
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, approvals.Approve(exec.PendingApprovalID, "reviewer-1", "ship it"))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("executor did not resume after approval")
	}
	assert.Equal(t, agent.StatusSucceeded, exec.Status)
	assert.Equal(t, "commit", exec.Actions[0].ActionType)
	assert.True(t, exec.Actions[0].Success)
	assert.Equal(t, 7, exec.Actions[0].Output["pr_number"])
}

// TestExecutorSkipsDispatchForZeroRoutingPolicy covers request types whose
// RoutingPolicy has no routing flags set (e.g. TEST_DELETION): approval
// records the decision without dispatching any action, so an unregistered
// ActionType is harmless.
func TestExecutorSkipsDispatchForZeroRoutingPolicy(t *testing.T) {
	store := newMemStore()
	approvals := approval.New(nil)
	executor := agent.NewExecutor(store, newDispatcher(t), approvals, nil, nil)
	exec := agent.NewExecution(agent.KindFlakyFixer, "goal", nil, "user-1")

	cfg := agent.DefaultConfig()
	cfg.ActionsAlwaysRequiringApproval = []string{"delete_draft"}

	planner := &approvalThenDonePlanner{actionType: "delete_draft", requestType: approval.TestDeletion}
	done := make(chan error, 1)
	go func() {
		done <- executor.Run(context.Background(), exec, planner, cfg, "")
	}()

	require.Eventually(t, func() bool {
		return exec.PendingApprovalID != ""
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, approvals.Approve(exec.PendingApprovalID, "reviewer-1", "ok"))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("executor did not resume after approval")
	}
	assert.Equal(t, agent.StatusSucceeded, exec.Status)
	assert.Equal(t, "delete_draft", exec.Actions[0].ActionType)
	assert.True(t, exec.Actions[0].Success)
}

// approvalThenDonePlanner proposes one approval-gated action, then
// terminates once it observes the resumed action. Defaults to
// write_draft_test/TestGeneration when left zero-valued.
type approvalThenDonePlanner struct {
	actionType  string
	requestType approval.RequestType
}

func (p *approvalThenDonePlanner) Plan(ctx context.Context, exec *agent.Execution, cfg agent.Config, catalog string) (agent.PlanOutcome, error) {
	if len(exec.Actions) > 0 {
		return agent.PlanOutcome{Kind: agent.PlanGoalReached}, nil
	}
	actionType := p.actionType
	if actionType == "" {
		actionType = "write_draft_test"
	}
	requestType := p.requestType
	if requestType == "" {
		requestType = approval.TestGeneration
	}
	return agent.PlanOutcome{
		Kind:        agent.PlanAction,
		ActionType:  actionType,
		Parameters:  map[string]any{"path": "drafts/x_test.go"},
		RequestType: requestType,
	}, nil
}
