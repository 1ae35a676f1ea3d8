// Package llmgateway implements the LLM Gateway (C4): the single path every
// component must use to invoke an LLM provider, enforcing rate limits,
// sanitization, output validation, and cost accounting around the opaque
// provider call (spec §4.4).
package llmgateway

import (
	"context"
	"time"

	"github.com/singh24honey/qa-automation-framework-sub005/llmgateway/provider"
	"github.com/singh24honey/qa-automation-framework-sub005/telemetry"
)

// TaskKind identifies the kind of work a completion call serves, which
// selects both the context builder and the structural validator applied to
// the response.
type TaskKind string

const (
	TaskTestGeneration TaskKind = "test_generation"
	TaskFailureAnalysis TaskKind = "failure_analysis"
	TaskFixSuggestion  TaskKind = "fix_suggestion"
)

// Request is the caller-facing input to Gateway.Complete.
type Request struct {
	CallerID       string
	Role           string
	TaskKind       TaskKind
	Prompt         string
	MaxTokens      int
	Temperature    float64
	Model          string
	ExecutionID    string
	ActionID       string
	BudgetOverride float64
}

// Response is the gateway's caller-facing return shape, matching spec §4.4
// exactly: "{success, content, tokens-used, cost, rate_limit_exceeded,
// blocked_by_security_policy, validation_passed, processing-time}".
type Response struct {
	Success               bool
	Content                string
	TokensUsed             int
	Cost                   float64
	RateLimitExceeded      bool
	BlockedBySecurityPolicy bool
	ValidationPassed       bool
	ProcessingTime         time.Duration
	ResetAt                time.Time
}

// Validator performs task-kind-specific structural validation on a
// provider's raw output, per spec §4.4 step 4. It returns whether the
// content passed and whether a failure is severe enough to withhold the
// content from the caller entirely ("should block").
type Validator func(taskKind TaskKind, content string) (passed bool, shouldBlock bool)

// Gateway wires together the five pipeline stages spec §4.4 enumerates.
type Gateway struct {
	limiter   *RateLimiter
	sanitizer *Sanitizer
	providers map[string]provider.Provider
	defaultProvider string
	validate  Validator
	costs     CostTable
	usage     UsageRecorder
	budgets   map[string]float64
	defaultBudget float64
	logger    telemetry.Logger
	metrics   telemetry.Metrics
}

// NewGateway constructs a Gateway. providers maps a provider name (e.g.
// "anthropic", "openai") to its adapter; defaultProvider selects which one
// serves requests that do not name one explicitly via Request.Model prefix
// handling left to the caller.
func NewGateway(
	limiter *RateLimiter,
	sanitizer *Sanitizer,
	providers map[string]provider.Provider,
	defaultProvider string,
	validate Validator,
	costs CostTable,
	usage UsageRecorder,
	logger telemetry.Logger,
	metrics telemetry.Metrics,
) *Gateway {
	if validate == nil {
		validate = DefaultValidator
	}
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Gateway{
		limiter:         limiter,
		sanitizer:       sanitizer,
		providers:       providers,
		defaultProvider: defaultProvider,
		validate:        validate,
		costs:           costs,
		usage:           usage,
		budgets:         make(map[string]float64),
		defaultBudget:   1.0,
		logger:          logger,
		metrics:         metrics,
	}
}

// SetBudget overrides the per-caller budget ceiling used by Complete's
// accounting step. Callers without an override use the gateway's default.
func (g *Gateway) SetBudget(callerID string, budget float64) {
	g.budgets[callerID] = budget
}

// Complete runs the full five-step pipeline for a single LLM call.
func (g *Gateway) Complete(ctx context.Context, req Request, providerName string) Response {
	start := time.Now()

	// Step 1: rate check.
	if ok, resetAt := g.limiter.Allow(req.CallerID, req.Role); !ok {
		g.metrics.IncCounter("llmgateway.rate_limited", 1, "caller", req.CallerID)
		return Response{RateLimitExceeded: true, ResetAt: resetAt, ProcessingTime: time.Since(start)}
	}

	// Step 2: sanitize input.
	clean, blocked := g.sanitizer.Sanitize(req.Prompt)
	if blocked {
		g.logger.Warn(ctx, "llmgateway: prompt blocked by security policy", "caller", req.CallerID, "task_kind", string(req.TaskKind))
		g.metrics.IncCounter("llmgateway.blocked", 1, "caller", req.CallerID)
		return Response{BlockedBySecurityPolicy: true, ProcessingTime: time.Since(start)}
	}

	// Budget check ahead of the (costly) provider call, so an
	// already-exhausted caller never reaches the network.
	limit := g.defaultBudget
	if b, ok := g.budgets[req.CallerID]; ok {
		limit = b
	}
	if req.BudgetOverride > 0 {
		limit = req.BudgetOverride
	}
	if g.usage.SpentBy(req.CallerID) >= limit {
		g.logger.Warn(ctx, "llmgateway: caller budget exhausted", "caller", req.CallerID)
		return Response{Success: false, ProcessingTime: time.Since(start)}
	}

	// Step 3: invoke provider.
	name := providerName
	if name == "" {
		name = g.defaultProvider
	}
	p, ok := g.providers[name]
	if !ok {
		return Response{Success: false, ProcessingTime: time.Since(start)}
	}
	presp, err := p.Complete(ctx, provider.Request{
		Prompt:      clean,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Model:       req.Model,
	})
	if err != nil {
		g.logger.Error(ctx, "llmgateway: provider call failed", "provider", name, "caller", req.CallerID, "err", err)
		g.metrics.IncCounter("llmgateway.provider_error", 1, "provider", name)
		return Response{Success: false, ProcessingTime: time.Since(start)}
	}

	// Step 4: validate output.
	passed, shouldBlock := g.validate(req.TaskKind, presp.Text)
	content := presp.Text
	if shouldBlock {
		content = ""
	}

	// Step 5: account.
	cost := g.costs.Compute(req.Model, presp.PromptTokens, presp.CompletionTokens)
	rec := UsageRecord{
		Provider:         name,
		Model:            req.Model,
		TaskKind:         string(req.TaskKind),
		PromptTokens:     presp.PromptTokens,
		CompletionTokens: presp.CompletionTokens,
		Cost:             cost,
		Latency:          presp.Latency,
		Success:          passed && !shouldBlock,
		ExecutionID:      req.ExecutionID,
		ActionID:         req.ActionID,
		CallerID:         req.CallerID,
		Timestamp:        start,
	}
	if err := g.usage.Record(rec); err != nil {
		g.logger.Error(ctx, "llmgateway: failed to record usage", "caller", req.CallerID, "err", err)
	}
	g.metrics.RecordTimer("llmgateway.latency", time.Since(start), "provider", name)
	if spent := g.usage.SpentBy(req.CallerID); spent >= limit*0.8 {
		g.logger.Warn(ctx, "llmgateway: caller approaching budget limit", "caller", req.CallerID, "spent", spent, "limit", limit)
	}

	return Response{
		Success:                 passed && !shouldBlock,
		Content:                 content,
		TokensUsed:              presp.PromptTokens + presp.CompletionTokens,
		Cost:                    cost,
		ValidationPassed:        passed,
		ProcessingTime:          time.Since(start),
	}
}
