package llmgateway

import (
	"sync"
	"time"
)

// UsageRecord is one row per LLM call (spec §3: "LLM Usage Record"),
// correlating the call back to the execution and action that triggered it.
type UsageRecord struct {
	Provider         string
	Model            string
	TaskKind         string
	PromptTokens     int
	CompletionTokens int
	Cost             float64
	Latency          float64
	Success          bool
	ExecutionID      string
	ActionID         string
	CallerID         string
	Timestamp        time.Time
}

// UsageRecorder persists usage records and tracks running cost per caller,
// so the gateway can enforce budgets and the executor can report spend.
type UsageRecorder interface {
	Record(rec UsageRecord) error
	SpentBy(callerID string) float64
}

// InMemoryUsageRecorder is the default UsageRecorder: an append-only log plus
// a running per-caller total, held in memory for the life of the process.
type InMemoryUsageRecorder struct {
	mu      sync.Mutex
	records []UsageRecord
	spent   map[string]float64
}

// NewInMemoryUsageRecorder constructs an empty InMemoryUsageRecorder.
func NewInMemoryUsageRecorder() *InMemoryUsageRecorder {
	return &InMemoryUsageRecorder{spent: make(map[string]float64)}
}

// Record implements UsageRecorder.
func (r *InMemoryUsageRecorder) Record(rec UsageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	r.spent[rec.CallerID] += rec.Cost
	return nil
}

// SpentBy implements UsageRecorder.
func (r *InMemoryUsageRecorder) SpentBy(callerID string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.spent[callerID]
}

// Records returns a copy of every usage record seen so far, for test
// assertions and reporting.
func (r *InMemoryUsageRecorder) Records() []UsageRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]UsageRecord, len(r.records))
	copy(out, r.records)
	return out
}
