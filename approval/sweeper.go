package approval

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/singh24honey/qa-automation-framework-sub005/telemetry"
)

// Sweeper runs the engine's expiry scan on a cron schedule. The default
// schedule (every 30 seconds) is deliberately tight relative to
// approval-timeout's default of one hour: a late expiry only delays an
// already-suspended execution, it never causes incorrect behavior.
type Sweeper struct {
	cron   *cron.Cron
	engine *Engine
	logger telemetry.Logger
}

// NewSweeper constructs a Sweeper bound to engine. schedule is a standard
// five-field cron expression; an empty string defaults to "@every 30s".
func NewSweeper(engine *Engine, schedule string, logger telemetry.Logger) (*Sweeper, error) {
	if schedule == "" {
		schedule = "@every 30s"
	}
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	c := cron.New()
	s := &Sweeper{cron: c, engine: engine, logger: logger}
	if _, err := c.AddFunc(schedule, s.sweep); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sweeper) sweep() {
	n := s.engine.expire(time.Now())
	if n > 0 {
		s.logger.Info(context.Background(), "approval sweeper expired pending requests", "count", n)
	}
}

// Start launches the cron scheduler in its own goroutine. It returns
// immediately.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for any in-flight sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
