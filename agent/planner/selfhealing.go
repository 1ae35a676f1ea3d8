package planner

import (
	"context"

	"github.com/singh24honey/qa-automation-framework-sub005/agent"
	"github.com/singh24honey/qa-automation-framework-sub005/approval"
	"github.com/singh24honey/qa-automation-framework-sub005/elementregistry"
)

const (
	capturePageHTMLAction       = "capture_page_html"
	extractBrokenLocatorAction  = "extract_broken_locator"
	discoverLocatorAction       = "discover_locator"
	updateElementRegistryAction = "update_element_registry"
	requestManualFixAction      = "request_manual_fix"
)

// SelfHealingFixerConfig returns agent.DefaultConfig() with the approval
// action type this planner proposes added to the always-approval list, so
// both outcomes (an automated fix and a manual hand-off) are reviewed
// before taking effect.
func SelfHealingFixerConfig() agent.Config {
	cfg := agent.DefaultConfig()
	cfg.ActionsAlwaysRequiringApproval = append(cfg.ActionsAlwaysRequiringApproval, updateElementRegistryAction, requestManualFixAction)
	return cfg
}

// SelfHealingFixer implements agent.Planner for KindSelfHealingFixer: it
// captures the failing page's HTML, extracts the broken locator from the
// driver's error message, queries the Element Registry for a fallback, and
// proposes either a SELF_HEALING_FIX (fallback found) or a
// SELF_HEALING_MANUAL (no usable fallback) approval request (spec §8
// scenario 5).
type SelfHealingFixer struct {
	registry elementregistry.Registry
	pageName string
}

// NewSelfHealingFixer constructs a SelfHealingFixer planner. pageName names
// the Element Registry page to consult for a fallback locator.
func NewSelfHealingFixer(registry elementregistry.Registry, pageName string) *SelfHealingFixer {
	return &SelfHealingFixer{registry: registry, pageName: pageName}
}

// Plan implements agent.Planner.
func (p *SelfHealingFixer) Plan(ctx context.Context, exec *agent.Execution, cfg agent.Config, catalog string) (agent.PlanOutcome, error) {
	switch {
	case !hasAction(exec, capturePageHTMLAction):
		return agent.PlanOutcome{Kind: agent.PlanAction, ActionType: capturePageHTMLAction, Parameters: map[string]any{
			"test_path": exec.Parameters["test_path"],
			"url":       exec.Parameters["url"],
		}}, nil

	case !hasAction(exec, extractBrokenLocatorAction):
		html := outputOf(exec, capturePageHTMLAction, "html")
		errMsg, _ := exec.Parameters["error_message"].(string)
		failingLocator, _ := exec.Parameters["failing_locator"].(string)
		return agent.PlanOutcome{Kind: agent.PlanAction, ActionType: extractBrokenLocatorAction, Parameters: map[string]any{
			"html":          html,
			"error_message": errMsg,
			"locator":       failingLocator,
		}}, nil

	case !hasAction(exec, discoverLocatorAction):
		broken, _ := outputOf(exec, extractBrokenLocatorAction, "brokenLocator").(string)
		return agent.PlanOutcome{Kind: agent.PlanAction, ActionType: discoverLocatorAction, Parameters: map[string]any{
			"broken_locator": broken,
			"page":           p.pageName,
		}}, nil

	default:
		return p.proposeFix(exec)
	}
}

func (p *SelfHealingFixer) proposeFix(exec *agent.Execution) (agent.PlanOutcome, error) {
	if lastActionIs(exec, updateElementRegistryAction) {
		last := exec.Actions[len(exec.Actions)-1]
		if last.Success {
			return agent.PlanOutcome{Kind: agent.PlanGoalReached}, nil
		}
		return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: last.ErrorMessage}, nil
	}
	if lastActionIs(exec, requestManualFixAction) {
		last := exec.Actions[len(exec.Actions)-1]
		if last.Success {
			return agent.PlanOutcome{Kind: agent.PlanGoalReached}, nil
		}
		return agent.PlanOutcome{Kind: agent.PlanGiveUp, GiveUpReason: last.ErrorMessage}, nil
	}

	fallback, _ := outputOf(exec, discoverLocatorAction, "fallbackLocator").(string)
	if fallback == "" {
		return agent.PlanOutcome{
			Kind:       agent.PlanAction,
			ActionType: requestManualFixAction,
			Parameters: map[string]any{
				"page":           p.pageName,
				"broken_locator": outputOf(exec, extractBrokenLocatorAction, "brokenLocator"),
				"note":           "no fallback locator found in element registry",
			},
			RequestType: approval.SelfHealingManual,
		}, nil
	}

	return agent.PlanOutcome{
		Kind:       agent.PlanAction,
		ActionType: updateElementRegistryAction,
		Parameters: map[string]any{
			"page":             p.pageName,
			"broken_locator":   outputOf(exec, extractBrokenLocatorAction, "brokenLocator"),
			"fallback_locator": fallback,
		},
		RequestType: approval.SelfHealingFix,
	}, nil
}

func hasAction(exec *agent.Execution, actionType string) bool {
	for _, a := range exec.Actions {
		if a.ActionType == actionType {
			return true
		}
	}
	return false
}

func outputOf(exec *agent.Execution, actionType, key string) any {
	for i := len(exec.Actions) - 1; i >= 0; i-- {
		a := exec.Actions[i]
		if a.ActionType != actionType {
			continue
		}
		if a.Output == nil {
			return nil
		}
		return a.Output[key]
	}
	return nil
}
