package planner

import (
	"context"
	"fmt"

	"github.com/singh24honey/qa-automation-framework-sub005/agent"
	"github.com/singh24honey/qa-automation-framework-sub005/approval"
	"github.com/singh24honey/qa-automation-framework-sub005/llmgateway"
)

const (
	executeTestAction = "execute_test"
	commitFixAction    = "commit"
)

// FlakyFixerConfig returns agent.DefaultConfig() with stability-check-runs
// and verification-runs recorded in CustomConfig (spec §4.7: "custom-config
// (opaque mapping for agent-kind specifics, e.g., stability-check-runs)").
func FlakyFixerConfig(stabilityRuns, verificationRuns int) agent.Config {
	cfg := agent.DefaultConfig()
	cfg.MaxIterations = stabilityRuns + verificationRuns + 2
	cfg.CustomConfig = map[string]any{
		"stability_check_runs": stabilityRuns,
		"verification_runs":    verificationRuns,
	}
	return cfg
}

// FlakyFixer implements agent.Planner for KindFlakyFixer: it first runs the
// original test stabilityRuns times to confirm the flake, proposes a fix via
// the LLM Gateway, then runs the fixed test verificationRuns times and only
// proposes a commit once at least 4 of 5 (by default, proportionally for
// other run counts) verification runs pass (spec §8 scenario 6).
type FlakyFixer struct {
	gateway          *llmgateway.Gateway
	stabilityRuns    int
	verificationRuns int
	passThreshold    float64
	fixProposed      bool
	candidateFix     string
}

// NewFlakyFixer constructs a FlakyFixer planner. passThreshold is the
// fraction of verification runs that must pass before a commit is proposed;
// spec §8 scenario 6 requires at least 4/5 (0.8).
func NewFlakyFixer(gateway *llmgateway.Gateway, stabilityRuns, verificationRuns int, passThreshold float64) *FlakyFixer {
	if passThreshold <= 0 {
		passThreshold = 0.8
	}
	return &FlakyFixer{gateway: gateway, stabilityRuns: stabilityRuns, verificationRuns: verificationRuns, passThreshold: passThreshold}
}

// Plan implements agent.Planner.
func (p *FlakyFixer) Plan(ctx context.Context, exec *agent.Execution, cfg agent.Config, catalog string) (agent.PlanOutcome, error) {
	stabilityRuns := p.countRuns(exec, "stability")
	verificationRuns := p.countRuns(exec, "verification")

	if stabilityRuns < p.stabilityRuns {
		return agent.PlanOutcome{
			Kind:       agent.PlanAction,
			ActionType: executeTestAction,
			Parameters: map[string]any{"target": exec.Parameters["test_path"], "phase": "stability", "run": stabilityRuns + 1},
		}, nil
	}

	if !p.fixProposed {
		resp := p.gateway.Complete(ctx, llmgateway.Request{
			CallerID:    exec.TriggeredBy,
			Role:        "fixer",
			TaskKind:    llmgateway.TaskFixSuggestion,
			Prompt:      fmt.Sprintf("Propose a stability fix for the flaky test %v.", exec.Parameters["test_path"]),
			MaxTokens:   1024,
			Model:       "claude-sonnet-4-5",
			ExecutionID: exec.ID,
		}, "")
		p.fixProposed = true
		if !resp.Success {
			return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: "fix suggestion failed", Cost: resp.Cost}, nil
		}
		p.candidateFix = resp.Content
		return agent.PlanOutcome{
			Kind:       agent.PlanAction,
			ActionType: executeTestAction,
			Parameters: map[string]any{"target": exec.Parameters["test_path"], "phase": "verification", "run": 1, "candidate_fix": resp.Content},
			Cost:       resp.Cost,
		}, nil
	}

	if verificationRuns < p.verificationRuns {
		return agent.PlanOutcome{
			Kind:       agent.PlanAction,
			ActionType: executeTestAction,
			Parameters: map[string]any{"target": exec.Parameters["test_path"], "phase": "verification", "run": verificationRuns + 1},
		}, nil
	}

	passed := p.countPasses(exec, "verification")
	ratio := float64(passed) / float64(p.verificationRuns)
	if ratio < p.passThreshold {
		return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: fmt.Sprintf("only %d/%d verification runs passed", passed, p.verificationRuns)}, nil
	}

	if lastActionIs(exec, commitFixAction) {
		last := exec.Actions[len(exec.Actions)-1]
		if last.Success {
			return agent.PlanOutcome{Kind: agent.PlanGoalReached}, nil
		}
		return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: last.ErrorMessage}, nil
	}

	testPath, _ := exec.Parameters["test_path"].(string)
	return agent.PlanOutcome{
		Kind:       agent.PlanAction,
		ActionType: commitFixAction,
		Parameters: map[string]any{
			"branch":  fmt.Sprintf("flaky-fix/%s", exec.ID),
			"path":    testPath,
			"content": p.candidateFix,
			"message": "fix: stabilize flaky test",
		},
		RequestType: approval.FlakyFix,
	}, nil
}

func (p *FlakyFixer) countRuns(exec *agent.Execution, phase string) int {
	n := 0
	for _, a := range exec.Actions {
		if a.ActionType == executeTestAction && a.Input != nil && a.Input["phase"] == phase {
			n++
		}
	}
	return n
}

func (p *FlakyFixer) countPasses(exec *agent.Execution, phase string) int {
	n := 0
	for _, a := range exec.Actions {
		if a.ActionType == executeTestAction && a.Input != nil && a.Input["phase"] == phase && a.Success {
			n++
		}
	}
	return n
}

func lastActionIs(exec *agent.Execution, actionType string) bool {
	if len(exec.Actions) == 0 {
		return false
	}
	return exec.Actions[len(exec.Actions)-1].ActionType == actionType
}
