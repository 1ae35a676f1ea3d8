package planner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singh24honey/qa-automation-framework-sub005/agent"
	"github.com/singh24honey/qa-automation-framework-sub005/agent/planner"
	"github.com/singh24honey/qa-automation-framework-sub005/approval"
	"github.com/singh24honey/qa-automation-framework-sub005/config"
	"github.com/singh24honey/qa-automation-framework-sub005/elementregistry"
	"github.com/singh24honey/qa-automation-framework-sub005/llmgateway"
	"github.com/singh24honey/qa-automation-framework-sub005/llmgateway/provider"
)

func newTestGateway(t *testing.T, responses ...provider.Response) *llmgateway.Gateway {
	t.Helper()
	cfg := config.Default().RateLimit
	cfg.DefaultRPM = 6000
	cfg.DefaultBurst = 100
	mock := provider.NewMock(responses...)
	return llmgateway.NewGateway(
		llmgateway.NewRateLimiter(cfg),
		llmgateway.NewSanitizer(),
		map[string]provider.Provider{"mock": mock},
		"mock",
		nil,
		llmgateway.DefaultCostTable(),
		llmgateway.NewInMemoryUsageRecorder(),
		nil,
		nil,
	)
}

const generatedIntent = `{"className":"LoginPage","testClassName":"LoginTest","steps":[
  {"action":"NAVIGATE","value":"/login"},
  {"action":"FILL","locator":"testid=username","value":"alice"},
  {"action":"CLICK","locator":"testid=login-button"},
  {"action":"ASSERT_URL","value":"/dashboard"}
]}`

func TestTestGeneratorProposesDraft(t *testing.T) {
	gw := newTestGateway(t, provider.Response{Text: generatedIntent, PromptTokens: 200, CompletionTokens: 80})
	fetch := func(ctx context.Context, key string) (llmgateway.Story, error) {
		return llmgateway.Story{Key: key, Summary: "Login flow", AcceptanceCriteria: []string{"user can log in"}}, nil
	}
	p := planner.NewTestGenerator(gw, elementregistry.Registry{}, fetch, "drafts")
	cfg := planner.TestGeneratorConfig()

	exec := agent.NewExecution(agent.KindTestGenerator, "generate_test", map[string]any{"story_key": "SCRUM-7"}, "user-1")

	out, err := p.Plan(context.Background(), exec, cfg, "")
	require.NoError(t, err)
	assert.Equal(t, agent.PlanAction, out.Kind)
	assert.Equal(t, "write_draft_test", out.ActionType)
	assert.Equal(t, approval.TestGeneration, out.RequestType)
	assert.Contains(t, out.Parameters["path"], "drafts/")
	assert.True(t, cfg.RequiresApproval(out.ActionType))

	exec.Actions = append(exec.Actions, agent.Action{ActionType: "write_draft_test", Success: true})
	out, err = p.Plan(context.Background(), exec, cfg, "")
	require.NoError(t, err)
	assert.Equal(t, agent.PlanGoalReached, out.Kind)
}

func TestTestGeneratorGivesUpWithoutStoryKey(t *testing.T) {
	gw := newTestGateway(t, provider.Response{Text: generatedIntent})
	fetch := func(ctx context.Context, key string) (llmgateway.Story, error) {
		t.Fatal("fetchStory should not be called without a story_key")
		return llmgateway.Story{}, nil
	}
	p := planner.NewTestGenerator(gw, elementregistry.Registry{}, fetch, "drafts")
	exec := agent.NewExecution(agent.KindTestGenerator, "generate_test", nil, "user-1")

	out, err := p.Plan(context.Background(), exec, planner.TestGeneratorConfig(), "")
	require.NoError(t, err)
	assert.Equal(t, agent.PlanGiveUp, out.Kind)
}

func TestTestGeneratorGivesUpOnEmptyIntent(t *testing.T) {
	gw := newTestGateway(t, provider.Response{Text: `{"className":"Empty","testClassName":"Empty","steps":[]}`})
	fetch := func(ctx context.Context, key string) (llmgateway.Story, error) {
		return llmgateway.Story{Key: key}, nil
	}
	p := planner.NewTestGenerator(gw, elementregistry.Registry{}, fetch, "drafts")
	exec := agent.NewExecution(agent.KindTestGenerator, "generate_test", map[string]any{"story_key": "SCRUM-9"}, "user-1")

	out, err := p.Plan(context.Background(), exec, planner.TestGeneratorConfig(), "")
	require.NoError(t, err)
	assert.Equal(t, agent.PlanGiveUp, out.Kind)
}
