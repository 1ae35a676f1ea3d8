// Package planner implements the three per-agent-kind planners spec §4.7
// describes: the executor itself is generic, and all specialization lives
// here, in the prompt built and the action types proposed.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/singh24honey/qa-automation-framework-sub005/agent"
	"github.com/singh24honey/qa-automation-framework-sub005/approval"
	"github.com/singh24honey/qa-automation-framework-sub005/elementregistry"
	"github.com/singh24honey/qa-automation-framework-sub005/intent"
	"github.com/singh24honey/qa-automation-framework-sub005/intent/render"
	"github.com/singh24honey/qa-automation-framework-sub005/llmgateway"
)

// StoryFetcher is the subset of the Issue Tracker collaborator (spec §4.9)
// the test-generator planner needs.
type StoryFetcher func(ctx context.Context, key string) (llmgateway.Story, error)

const writeDraftTestAction = "write_draft_test"

// TestGeneratorConfig returns agent.DefaultConfig() with write_draft_test
// added to the always-requires-approval list, so a freshly generated draft
// always routes through a TEST_GENERATION approval (spec §4.5) before it is
// ever written to disk.
func TestGeneratorConfig() agent.Config {
	cfg := agent.DefaultConfig()
	cfg.ActionsAlwaysRequiringApproval = append(cfg.ActionsAlwaysRequiringApproval, writeDraftTestAction)
	return cfg
}

// TestGenerator implements agent.Planner for KindTestGenerator: one LLM
// call produces a Test Intent, which is rendered and proposed as a single
// write_draft_test action gated by approval.
type TestGenerator struct {
	gateway    *llmgateway.Gateway
	registry   elementregistry.Registry
	fetchStory StoryFetcher
	draftsRoot string
	proposed   bool
}

// NewTestGenerator constructs a TestGenerator planner.
func NewTestGenerator(gateway *llmgateway.Gateway, registry elementregistry.Registry, fetchStory StoryFetcher, draftsRoot string) *TestGenerator {
	return &TestGenerator{gateway: gateway, registry: registry, fetchStory: fetchStory, draftsRoot: draftsRoot}
}

// Plan implements agent.Planner.
func (p *TestGenerator) Plan(ctx context.Context, exec *agent.Execution, cfg agent.Config, catalog string) (agent.PlanOutcome, error) {
	if len(exec.Actions) > 0 {
		last := exec.Actions[len(exec.Actions)-1]
		if last.ActionType == writeDraftTestAction {
			if last.Success {
				return agent.PlanOutcome{Kind: agent.PlanGoalReached}, nil
			}
			return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: last.ErrorMessage}, nil
		}
	}
	if p.proposed {
		return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: "draft already proposed; no further progress possible"}, nil
	}

	storyKey, _ := exec.Parameters["story_key"].(string)
	if storyKey == "" {
		return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: "missing story_key parameter"}, nil
	}
	story, err := p.fetchStory(ctx, storyKey)
	if err != nil {
		return agent.PlanOutcome{}, fmt.Errorf("planner: fetch story %q: %w", storyKey, err)
	}

	prompt := llmgateway.BuildTestGeneratorPrompt(story, "", p.registry)
	resp := p.gateway.Complete(ctx, llmgateway.Request{
		CallerID:    exec.TriggeredBy,
		Role:        "generator",
		TaskKind:    llmgateway.TaskTestGeneration,
		Prompt:      prompt,
		MaxTokens:   2048,
		Model:       "claude-sonnet-4-5",
		ExecutionID: exec.ID,
	}, "")
	if resp.RateLimitExceeded || resp.BlockedBySecurityPolicy || !resp.Success {
		return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: "generator prompt failed gateway pipeline", Cost: resp.Cost}, nil
	}

	if err := intent.ValidateShape(resp.Content); err != nil {
		return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: err.Error(), Cost: resp.Cost}, nil
	}
	parsed, err := intent.Parse(resp.Content)
	if err != nil {
		return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: err.Error(), Cost: resp.Cost}, nil
	}
	if len(parsed.Intent.Steps) == 0 {
		return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: "generated intent has no usable steps", Cost: resp.Cost}, nil
	}
	if parsed.Intent.TestClassName == "" {
		return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: "generated intent is missing testClassName", Cost: resp.Cost}, nil
	}

	source, err := render.Playwright(parsed.Intent)
	if err != nil {
		return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: err.Error(), Cost: resp.Cost}, nil
	}

	p.proposed = true
	path := fmt.Sprintf("%s/%s_test.go", p.draftsRoot, strings.ToLower(parsed.Intent.TestClassName))
	return agent.PlanOutcome{
		Kind:       agent.PlanAction,
		ActionType: writeDraftTestAction,
		Parameters: map[string]any{
			"path":    path,
			"content": source,
			"intent":  parsed.Intent,
		},
		Cost:        resp.Cost,
		RequestType: approval.TestGeneration,
	}, nil
}
