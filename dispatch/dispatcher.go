// Package dispatch implements the Tool Dispatcher (spec §4.3): parameter
// validation, circuit-breaker consultation, tool invocation, outcome
// reporting, and retry with exponential backoff.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/singh24honey/qa-automation-framework-sub005/breaker"
	"github.com/singh24honey/qa-automation-framework-sub005/telemetry"
	"github.com/singh24honey/qa-automation-framework-sub005/tools"
)

// Outcome is the opaque result mapping spec §3/§4.3 describes: "a mapping
// containing at minimum a boolean `success` and, on failure, an `error`
// string; additional fields are tool-specific."
type Outcome map[string]any

// Success reports the outcome's success flag.
func (o Outcome) Success() bool {
	v, _ := o["success"].(bool)
	return v
}

// Err returns the outcome's error string, if any.
func (o Outcome) Err() string {
	v, _ := o["error"].(string)
	return v
}

// CircuitOpen reports whether the outcome was short-circuited by an open
// breaker (spec §4.3 step 2).
func (o Outcome) CircuitOpen() bool {
	v, _ := o["circuit_open"].(bool)
	return v
}

// Cost returns the cost field a tool may report, defaulting to 0.
func (o Outcome) Cost() float64 {
	switch v := o["cost"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func outcomeFailure(errMsg string, extra ...func(Outcome)) Outcome {
	o := Outcome{"success": false, "error": errMsg}
	for _, f := range extra {
		f(o)
	}
	return o
}

// WithCircuitOpen marks an outcome as circuit_open=true.
func WithCircuitOpen(o Outcome) { o["circuit_open"] = true }

// Dispatcher implements the algorithm in spec §4.3: resolve tool, consult
// breaker, validate parameters, invoke, translate the result, and report
// success/failure back to the breaker.
type Dispatcher struct {
	registry *tools.Registry
	breaker  *breaker.Breaker
	logger   telemetry.Logger
	tracer   telemetry.Tracer
}

// New constructs a Dispatcher. A nil logger/tracer defaults to no-ops.
func New(registry *tools.Registry, b *breaker.Breaker, logger telemetry.Logger, tracer telemetry.Tracer) *Dispatcher {
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	if tracer == nil {
		tracer = telemetry.NewNoopTracer()
	}
	return &Dispatcher{registry: registry, breaker: b, logger: logger, tracer: tracer}
}

// Dispatch runs the five-step algorithm of spec §4.3 for one tool call.
func (d *Dispatcher) Dispatch(ctx context.Context, action tools.ActionType, params map[string]any) Outcome {
	ctx, span := d.tracer.Start(ctx, "dispatch.Dispatch")
	defer span.End()

	// Step 1: resolve tool.
	t, ok := d.registry.Lookup(action)
	if !ok {
		return outcomeFailure("no tool")
	}

	breakerKey := string(t.ActionType)

	// Step 2: consult the breaker. A denial is returned to the caller
	// untouched; it is not itself reported as a breaker outcome.
	if !d.breaker.AllowRequest(breakerKey) {
		return outcomeFailure("circuit open", WithCircuitOpen)
	}

	// Step 3: validate parameters. Validation failures are caller errors, not
	// tool failures, and are never reported to the breaker.
	if err := t.Validate(params); err != nil {
		return outcomeFailure(fmt.Sprintf("invalid parameters: %v", err))
	}

	// Step 4: invoke the tool, translating panics/errors and mapping the
	// result to a breaker outcome.
	result, err := d.invoke(ctx, t, params)
	if err != nil {
		d.breaker.ReportFailure(breakerKey)
		d.logger.Error(ctx, "tool execution failed", "action_type", string(action), "err", err)
		return outcomeFailure(err.Error())
	}
	out := Outcome(result)
	if out.Success() {
		d.breaker.ReportSuccess(breakerKey)
	} else {
		d.breaker.ReportFailure(breakerKey)
	}

	// Step 5: return unchanged.
	return out
}

// invoke calls the tool's Execute function, converting a recovered panic
// into an error so a misbehaving tool cannot crash the executor.
func (d *Dispatcher) invoke(ctx context.Context, t *tools.Tool, params map[string]any) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %q panicked: %v", t.ActionType, r)
		}
	}()
	return t.Execute(ctx, params)
}

// DispatchWithRetry wraps Dispatch with exponential backoff (spec §4.3):
// on success, return immediately; on circuit_open, return immediately
// (never retried); otherwise wait 2^attempt seconds, capped at maxBackoff,
// and retry until maxAttempts is exhausted. Cancellation aborts the wait.
func (d *Dispatcher) DispatchWithRetry(ctx context.Context, action tools.ActionType, params map[string]any, maxAttempts int) Outcome {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	const maxBackoff = 30 * time.Second

	var last Outcome
	for attempt := 0; attempt < maxAttempts; attempt++ {
		last = d.Dispatch(ctx, action, params)
		if last.Success() || last.CircuitOpen() {
			return last
		}
		if attempt == maxAttempts-1 {
			break
		}
		backoff := time.Duration(1<<uint(attempt)) * time.Second
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return outcomeFailure("cancelled: " + ctx.Err().Error())
		case <-timer.C:
		}
	}
	return last
}
