// Package agent implements the Agent Executor (C7): the core iteration loop
// that drives a planner through plan -> act -> observe -> terminate,
// enforcing budget, iteration, cancellation, and approval-suspension rules
// (spec §4.7).
package agent

import "time"

// Kind enumerates the agent kinds spec §3 names. The executor itself is
// generic; specialization lives entirely in each kind's Planner (spec
// §4.7: "Per-agent-kind specialization").
type Kind string

const (
	KindTestGenerator     Kind = "test_generator"
	KindFlakyFixer        Kind = "flaky_fixer"
	KindSelfHealingFixer  Kind = "self_healing_fixer"
)

// Status is an Agent Execution's lifecycle state (spec §3/§4.7).
type Status string

const (
	StatusRunning            Status = "RUNNING"
	StatusWaitingForApproval Status = "WAITING_FOR_APPROVAL"
	StatusSucceeded          Status = "SUCCEEDED"
	StatusFailed             Status = "FAILED"
	StatusStopped            Status = "STOPPED"
	StatusTimeout            Status = "TIMEOUT"
	StatusBudgetExceeded     Status = "BUDGET_EXCEEDED"
)

// Terminal reports whether s is one of the terminal statuses spec §3 lists.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusStopped, StatusTimeout, StatusBudgetExceeded:
		return true
	default:
		return false
	}
}

// Execution is a single run of an agent toward a goal (spec §3: "Agent
// Execution").
type Execution struct {
	ID                   string
	Kind                 Kind
	GoalKind             string
	Parameters           map[string]any
	Status               Status
	StartedAt            time.Time
	FinishedAt           time.Time
	IterationsUsed       int
	CostAccumulated      float64
	LastError            string
	TriggeredBy          string
	Actions              []Action
	PendingApprovalID    string
}

// Action is one step inside an execution (spec §3: "Agent Action").
type Action struct {
	Iteration        int
	ActionType       string
	Input            map[string]any
	Output           map[string]any
	Success          bool
	ErrorMessage     string
	Duration         time.Duration
	Cost             float64
	RequiredApproval bool
	ApprovalRequestID string
	Timestamp        time.Time
}

// Config enumerates the inputs spec §4.7 lists for the executor: iteration
// and cost ceilings, the approval allow/deny lists, the approval timeout,
// and an opaque per-agent-kind configuration bag.
type Config struct {
	MaxIterations                int
	MaxCost                      float64
	ActionsAlwaysRequiringApproval []string
	ActionsNeverRequiringApproval  []string
	ApprovalTimeout              time.Duration
	CustomConfig                 map[string]any
}

// DefaultConfig returns the defaults spec §4.7 names explicitly.
func DefaultConfig() Config {
	return Config{
		MaxIterations:   5,
		MaxCost:         1.0,
		ApprovalTimeout: time.Hour,
		ActionsAlwaysRequiringApproval: []string{
			"commit", "open_pr", "delete_file", "merge_pr",
		},
		ActionsNeverRequiringApproval: []string{
			"fetch_story", "query_element_registry", "read_file",
		},
	}
}

// RequiresApproval applies spec §4.7's tie-break rule: "When the planner
// returns an action that is also listed in actions-never-requiring-approval,
// the never-list wins over the always-list."
func (c Config) RequiresApproval(actionType string) bool {
	for _, a := range c.ActionsNeverRequiringApproval {
		if a == actionType {
			return false
		}
	}
	for _, a := range c.ActionsAlwaysRequiringApproval {
		if a == actionType {
			return true
		}
	}
	return false
}
