package llmgateway

// CostTable holds per-million-token pricing for known models, keyed by
// model id. Unknown models fall back to DefaultCost (spec §4.4 step 5:
// "cost must be computable for any model the gateway is configured to
// call, including ones added after deployment").
type CostTable struct {
	PerModel    map[string]ModelCost
	DefaultCost ModelCost
}

// ModelCost is the USD cost per million prompt and completion tokens.
type ModelCost struct {
	PromptPerMillion     float64
	CompletionPerMillion float64
}

// DefaultCostTable returns a cost table seeded with the providers wired into
// this module. Prices are illustrative placeholders, not live vendor rates.
func DefaultCostTable() CostTable {
	return CostTable{
		PerModel: map[string]ModelCost{
			"claude-sonnet-4-5":  {PromptPerMillion: 3.0, CompletionPerMillion: 15.0},
			"claude-haiku-4-5":   {PromptPerMillion: 0.8, CompletionPerMillion: 4.0},
			"gpt-4o":             {PromptPerMillion: 2.5, CompletionPerMillion: 10.0},
			"gpt-4o-mini":        {PromptPerMillion: 0.15, CompletionPerMillion: 0.6},
		},
		DefaultCost: ModelCost{PromptPerMillion: 3.0, CompletionPerMillion: 15.0},
	}
}

// Compute returns the dollar cost of a completion with the given model and
// token counts.
func (t CostTable) Compute(model string, promptTokens, completionTokens int) float64 {
	c, ok := t.PerModel[model]
	if !ok {
		c = t.DefaultCost
	}
	return float64(promptTokens)/1_000_000*c.PromptPerMillion +
		float64(completionTokens)/1_000_000*c.CompletionPerMillion
}
