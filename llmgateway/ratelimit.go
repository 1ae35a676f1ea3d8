package llmgateway

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/singh24honey/qa-automation-framework-sub005/config"
)

// RateLimiter enforces a per-(caller, role) token bucket (spec §4.4 step 1).
// Budget accounting lives per caller identity, never as a single global
// counter (spec §9 design note).
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	cfg      config.RateLimitConfig
}

// NewRateLimiter constructs a RateLimiter from cfg.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{limiters: make(map[string]*rate.Limiter), cfg: cfg}
}

func (rl *RateLimiter) limiterFor(callerID, role string) *rate.Limiter {
	key := callerID + "|" + role
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if l, ok := rl.limiters[key]; ok {
		return l
	}
	rpm := rl.cfg.DefaultRPM
	if v, ok := rl.cfg.RequestsPerMinute[role]; ok {
		rpm = v
	}
	if rpm <= 0 {
		rpm = 60
	}
	burst := rl.cfg.DefaultBurst
	if v, ok := rl.cfg.Burst[role]; ok {
		burst = v
	}
	if burst <= 0 {
		burst = 1
	}
	l := rate.NewLimiter(rate.Limit(rpm/60.0), burst)
	rl.limiters[key] = l
	return l
}

// Allow reports whether a call for (callerID, role) may proceed right now.
// When denied, it also returns the earliest time a retry is likely to
// succeed, for inclusion in the rate_limit_exceeded response (spec §4.4).
func (rl *RateLimiter) Allow(callerID, role string) (bool, time.Time) {
	l := rl.limiterFor(callerID, role)
	r := l.ReserveN(time.Now(), 1)
	if !r.OK() {
		return false, time.Now()
	}
	delay := r.Delay()
	if delay <= 0 {
		return true, time.Time{}
	}
	r.Cancel()
	return false, time.Now().Add(delay)
}
