package agent

import (
	"context"

	"github.com/singh24honey/qa-automation-framework-sub005/approval"
)

// PlanKind is the decision a Planner returns: either a concrete action to
// dispatch, or one of the two terminal declarations spec §4.7 requires the
// planner to make explicitly.
type PlanKind string

const (
	PlanAction      PlanKind = "ACTION"
	PlanGoalReached PlanKind = "GOAL_REACHED"
	PlanGiveUp      PlanKind = "GIVE_UP"
)

// PlanOutcome is a single planning decision. Cost reflects whatever the
// planner's own LLM call (via the LLM Gateway) incurred producing this
// decision, and is charged against the execution's budget immediately
// (spec §4.7: "next_action = plan(state) // LLM call via C4, may cost").
type PlanOutcome struct {
	Kind         PlanKind
	ActionType   string
	Parameters   map[string]any
	Cost         float64
	GiveUpReason string

	// RequestType selects which approval request type to create when this
	// action requires approval (spec §4.5's request-type table). Planners
	// that only ever propose one kind of approval-gated action may leave
	// this zero; the executor falls back to approval.TestGeneration.
	RequestType approval.RequestType
}

// Planner produces the next decision for exec, given the tool catalog
// available to it. The executor is otherwise agent-kind-agnostic; all
// specialization lives in the Planner implementation (spec §4.7).
type Planner interface {
	Plan(ctx context.Context, exec *Execution, cfg Config, catalog string) (PlanOutcome, error)
}
