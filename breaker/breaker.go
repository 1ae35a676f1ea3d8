// Package breaker implements the per-tool circuit breaker described in
// spec §4.2: a CLOSED/OPEN/HALF_OPEN state machine with failure counting and
// timed probes. The breaker table is the one hot-write shared structure in
// the system (spec §5/§9) and is protected with per-key locking; no lock is
// held across an I/O boundary.
package breaker

import (
	"sync"
	"time"
)

// State is one of the three circuit states spec §4.2 defines.
type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
)

// Config carries the threshold and cool-down that spec §4.2 requires
// implementations to expose as configuration, rather than hard-coding.
type Config struct {
	// FailureThreshold is the number of consecutive failures that trips the
	// breaker from CLOSED to OPEN. Spec default: 5.
	FailureThreshold int
	// CooldownPeriod is how long the breaker stays OPEN before allowing a
	// single HALF_OPEN probe. Spec default: 60s.
	CooldownPeriod time.Duration
}

// DefaultConfig returns the spec-mandated defaults (5 failures, 60s cooldown).
func DefaultConfig() Config {
	return Config{FailureThreshold: 5, CooldownPeriod: 60 * time.Second}
}

type circuit struct {
	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

// Breaker is the decision primitive callers invoke before dispatching to a
// tool (spec §4.3 step 2). Success/failure are reported strictly from the
// tool's own return value, never guessed by the breaker.
type Breaker struct {
	cfg Config

	tableMu sync.RWMutex
	table   map[string]*circuit
}

// New constructs a Breaker with cfg. A zero-valued Config is replaced with
// DefaultConfig().
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultConfig().FailureThreshold
	}
	if cfg.CooldownPeriod <= 0 {
		cfg.CooldownPeriod = DefaultConfig().CooldownPeriod
	}
	return &Breaker{cfg: cfg, table: make(map[string]*circuit)}
}

// circuitFor returns (creating if necessary) the per-key circuit, taking the
// table lock only long enough to find-or-insert the entry — never while
// holding the per-circuit lock, and never across an I/O boundary.
func (b *Breaker) circuitFor(key string) *circuit {
	b.tableMu.RLock()
	c, ok := b.table[key]
	b.tableMu.RUnlock()
	if ok {
		return c
	}
	b.tableMu.Lock()
	defer b.tableMu.Unlock()
	if c, ok := b.table[key]; ok {
		return c
	}
	c = &circuit{state: StateClosed}
	b.table[key] = c
	return c
}

// AllowRequest reports whether a call to key may proceed. A CLOSED or
// HALF_OPEN circuit allows the request. An OPEN circuit allows exactly one
// probe once CooldownPeriod has elapsed since it opened, transitioning it to
// HALF_OPEN for the duration of that probe; all other OPEN requests are
// denied (spec §4.2/§8: "6th call returns circuit_open without invoking the
// tool").
func (b *Breaker) AllowRequest(key string) bool {
	c := b.circuitFor(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if time.Since(c.openedAt) >= b.cfg.CooldownPeriod {
			c.state = StateHalfOpen
			return true
		}
		return false
	default:
		return false
	}
}

// ReportSuccess records a successful call to key. In HALF_OPEN, success
// closes the circuit and resets the failure counter to 0 (spec §4.2/§8: "a
// tool call succeeding in HALF_OPEN resets the breaker counter to 0"). In
// CLOSED, it simply resets the counter.
func (b *Breaker) ReportSuccess(key string) {
	c := b.circuitFor(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateClosed
	c.failures = 0
}

// ReportFailure records a failed call to key. In CLOSED, it increments the
// failure counter and trips to OPEN once the counter reaches
// FailureThreshold. In HALF_OPEN, any failure re-opens the circuit
// immediately.
func (b *Breaker) ReportFailure(key string) {
	c := b.circuitFor(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateHalfOpen:
		c.state = StateOpen
		c.openedAt = time.Now()
		c.failures = b.cfg.FailureThreshold
	default:
		c.failures++
		if c.failures >= b.cfg.FailureThreshold {
			c.state = StateOpen
			c.openedAt = time.Now()
		}
	}
}

// State returns the current state of the circuit for key, defaulting to
// CLOSED if key has never been reported against.
func (b *Breaker) State(key string) State {
	c := b.circuitFor(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
