// Package provider defines the opaque LLM provider contract (spec §4.9:
// "complete(prompt, max-tokens, temperature) -> {text, prompt-tokens,
// completion-tokens}") and concrete adapters for two real providers plus a
// deterministic mock used in tests and the demo.
package provider

import "context"

// Request carries the inputs to a single completion call.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
	Model       string
}

// Response carries a provider's completion plus the token accounting the LLM
// Gateway needs to compute cost (spec §4.4 step 5).
type Response struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	Latency          float64 // seconds
}

// Provider is the opaque text-in/text-out contract spec §4.9 describes for
// LLM providers. Implementations are the only place that talks to a
// provider's SDK; no other component in this module is allowed to.
type Provider interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
