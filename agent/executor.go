package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/singh24honey/qa-automation-framework-sub005/approval"
	"github.com/singh24honey/qa-automation-framework-sub005/dispatch"
	"github.com/singh24honey/qa-automation-framework-sub005/telemetry"
	"github.com/singh24honey/qa-automation-framework-sub005/tools"
)

// Executor runs the top-level loop spec §4.7 specifies: plan -> act ->
// observe -> terminate, with budget, iteration, cancellation, and
// approval-suspension rules enforced generically, regardless of agent kind.
type Executor struct {
	store      Store
	dispatcher *dispatch.Dispatcher
	approvals  *approval.Engine
	logger     telemetry.Logger
	tracer     telemetry.Tracer
}

// NewExecutor constructs an Executor. A nil logger/tracer defaults to
// no-ops.
func NewExecutor(store Store, dispatcher *dispatch.Dispatcher, approvals *approval.Engine, logger telemetry.Logger, tracer telemetry.Tracer) *Executor {
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	if tracer == nil {
		tracer = telemetry.NewNoopTracer()
	}
	return &Executor{store: store, dispatcher: dispatcher, approvals: approvals, logger: logger, tracer: tracer}
}

// NewExecution constructs a fresh RUNNING execution ready for Run.
func NewExecution(kind Kind, goalKind string, params map[string]any, triggeredBy string) *Execution {
	return &Execution{
		ID:          uuid.NewString(),
		Kind:        kind,
		GoalKind:    goalKind,
		Parameters:  params,
		Status:      StatusRunning,
		StartedAt:   time.Now(),
		TriggeredBy: triggeredBy,
	}
}

// Run drives exec through the loop in spec §4.7's pseudocode until it
// reaches a terminal status or ctx is cancelled. It persists state to the
// store before every suspension point and at the end of each iteration, so
// a crash can never lose more than the in-flight iteration.
func (e *Executor) Run(ctx context.Context, exec *Execution, planner Planner, cfg Config, catalog string) error {
	ctx, span := e.tracer.Start(ctx, "agent.Run")
	defer span.End()

	if err := e.store.PersistExecution(ctx, exec); err != nil {
		return fmt.Errorf("agent: persist initial execution: %w", err)
	}

	for !exec.Status.Terminal() {
		if exec.Status == StatusWaitingForApproval {
			if err := e.resumeFromApproval(ctx, exec, cfg); err != nil {
				return err
			}
			continue
		}

		if exec.IterationsUsed >= cfg.MaxIterations {
			e.terminate(ctx, exec, StatusTimeout, "iteration ceiling reached")
			break
		}
		if exec.CostAccumulated >= cfg.MaxCost {
			e.terminate(ctx, exec, StatusBudgetExceeded, "cost ceiling reached")
			break
		}
		select {
		case <-ctx.Done():
			e.terminate(ctx, exec, StatusStopped, "cancelled")
			return nil
		default:
		}

		outcome, err := planner.Plan(ctx, exec, cfg, catalog)
		exec.CostAccumulated += outcome.Cost
		if err != nil {
			e.logger.Error(ctx, "agent: planner failed", "execution_id", exec.ID, "err", err)
			e.terminate(ctx, exec, StatusFailed, err.Error())
			break
		}

		switch outcome.Kind {
		case PlanGoalReached:
			e.terminate(ctx, exec, StatusSucceeded, "")
			return nil
		case PlanGiveUp:
			e.terminate(ctx, exec, StatusFailed, outcome.GiveUpReason)
			return nil
		}

		iteration := exec.IterationsUsed + 1

		if cfg.RequiresApproval(outcome.ActionType) {
			requestType := outcome.RequestType
			if requestType == "" {
				requestType = approval.TestGeneration
			}
			req := e.approvals.Create(exec.ID, iteration, requestType, map[string]any{
				"action_type": outcome.ActionType,
				"parameters":  outcome.Parameters,
			}, exec.TriggeredBy, cfg.ApprovalTimeout, false)
			exec.PendingApprovalID = req.ID
			exec.Status = StatusWaitingForApproval
			if err := e.store.PersistExecution(ctx, exec); err != nil {
				return fmt.Errorf("agent: persist pending approval: %w", err)
			}
			continue
		}

		action := Action{
			Iteration:  iteration,
			ActionType: outcome.ActionType,
			Input:      outcome.Parameters,
			Timestamp:  time.Now(),
		}
		start := time.Now()
		result := e.dispatcher.DispatchWithRetry(ctx, tools.ActionType(outcome.ActionType), outcome.Parameters, 3)
		action.Duration = time.Since(start)
		action.Output = result
		action.Success = result.Success()
		action.ErrorMessage = result.Err()
		action.Cost = result.Cost()

		exec.IterationsUsed = iteration
		exec.CostAccumulated += action.Cost
		exec.Actions = append(exec.Actions, action)
		if err := e.store.AppendAction(ctx, exec.ID, action); err != nil {
			return fmt.Errorf("agent: append action: %w", err)
		}
		if err := e.store.PersistExecution(ctx, exec); err != nil {
			return fmt.Errorf("agent: persist execution after iteration: %w", err)
		}

		if !action.Success && !result.CircuitOpen() {
			exec.LastError = action.ErrorMessage
		}
	}
	return nil
}

// resumeFromApproval implements the WAITING_FOR_APPROVAL branch of spec
// §4.7's loop: block on the pending decision, then carry out the paired
// action's post-decision routing (spec §4.5: "Post-decision routing") before
// recording its outcome.
//
// On approval, the request's RoutingPolicy decides whether the action that
// triggered the request is actually dispatched now: SyncToDrafts and
// TriggerGitWorkflow both mean "yes, materialize it" (writing a draft file
// and pushing a Git branch/commit/PR are both real dispatches through the
// same tool registry ordinary actions use); the zero-value policy (manual
// hand-off and deletion request types) means the approval itself is the
// only effect, and nothing is dispatched.
func (e *Executor) resumeFromApproval(ctx context.Context, exec *Execution, cfg Config) error {
	req, reqErr := e.approvals.Get(exec.PendingApprovalID)

	decision, err := e.approvals.Await(ctx, exec.PendingApprovalID)
	if err != nil {
		// Context cancellation: cancel the pending request so the sweeper
		// and any other waiter observe a consistent terminal state, then
		// stop this execution.
		_ = e.approvals.Cancel(exec.PendingApprovalID, exec.TriggeredBy)
		e.terminate(ctx, exec, StatusStopped, "cancelled while awaiting approval")
		return nil
	}

	actionType, _ := req.Content["action_type"].(string)
	params, _ := req.Content["parameters"].(map[string]any)
	if actionType == "" {
		actionType = "approval_decision"
	}

	iteration := exec.IterationsUsed + 1
	action := Action{
		Iteration:         iteration,
		ActionType:        actionType,
		Input:             params,
		RequiredApproval:  true,
		ApprovalRequestID: exec.PendingApprovalID,
		Timestamp:         time.Now(),
	}

	switch decision.Status {
	case approval.Approved:
		policy := req.Policy
		if reqErr == nil && (policy.SyncToDrafts || policy.TriggerGitWorkflow || policy.ExecuteOnApproval) {
			start := time.Now()
			result := e.dispatcher.DispatchWithRetry(ctx, tools.ActionType(actionType), params, 3)
			action.Duration = time.Since(start)
			action.Output = result
			action.Success = result.Success()
			action.ErrorMessage = result.Err()
			action.Cost = result.Cost()
		} else {
			action.Success = true
			action.Output = map[string]any{"success": true, "approved": true}
		}
	default:
		action.Success = false
		action.ErrorMessage = string(decision.Status)
		action.Output = map[string]any{"success": false, "reason": decision.ReasonOrNote}
	}

	exec.IterationsUsed = iteration
	exec.CostAccumulated += action.Cost
	exec.Actions = append(exec.Actions, action)
	exec.PendingApprovalID = ""
	exec.Status = StatusRunning
	if !action.Success {
		exec.LastError = action.ErrorMessage
	}
	if err := e.store.AppendAction(ctx, exec.ID, action); err != nil {
		return fmt.Errorf("agent: append approval-resumption action: %w", err)
	}
	return e.store.PersistExecution(ctx, exec)
}

func (e *Executor) terminate(ctx context.Context, exec *Execution, status Status, lastError string) {
	exec.Status = status
	exec.FinishedAt = time.Now()
	if lastError != "" {
		exec.LastError = lastError
	}
	if err := e.store.PersistExecution(ctx, exec); err != nil {
		e.logger.Error(ctx, "agent: failed to persist terminal state", "execution_id", exec.ID, "err", err)
	}
}
