// Package config loads the environment knobs enumerated in spec §6:
// rate-limit window/quota per role, circuit-breaker threshold/cool-down,
// default approval timeout, default max-iterations/max-cost, and the
// storage root for drafts.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration object loaded from YAML. Fields mirror
// the defaults spec.md §4.2 and §4.7 call out explicitly.
type Config struct {
	Executor  ExecutorConfig  `yaml:"executor"`
	Breaker   BreakerConfig   `yaml:"breaker"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Storage   StorageConfig   `yaml:"storage"`
	Git       GitConfig       `yaml:"git"`
}

// ExecutorConfig configures the Agent Executor (C7). These are the defaults;
// a specific execution's RunOptions may override them (spec §4.7).
type ExecutorConfig struct {
	MaxIterations   int           `yaml:"max_iterations"`
	MaxCost         float64       `yaml:"max_cost"`
	ApprovalTimeout time.Duration `yaml:"approval_timeout"`
	// MaxConcurrentExecutions bounds the worker pool (spec §5: "bounded
	// worker pool for executions").
	MaxConcurrentExecutions int `yaml:"max_concurrent_executions"`
}

// BreakerConfig configures the Circuit Breaker (C2) thresholds, which spec
// §4.2 requires implementations to expose as configuration.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	CooldownPeriod   time.Duration `yaml:"cooldown_period"`
}

// RateLimitConfig configures the LLM Gateway's (C4) per-role token bucket.
type RateLimitConfig struct {
	RequestsPerMinute map[string]float64 `yaml:"requests_per_minute"`
	Burst             map[string]int     `yaml:"burst"`
	DefaultRPM        float64            `yaml:"default_rpm"`
	DefaultBurst      int                `yaml:"default_burst"`
}

// StorageConfig configures where approved artifacts are materialized.
type StorageConfig struct {
	DraftsRoot string `yaml:"drafts_root"`
}

// GitConfig names the repository a TRIGGER_GIT_WORKFLOW-routed approval
// commits its fix against (spec §4.5/§4.9). Left zero-valued, no commit
// tool should be registered; the action then fails with "no tool" rather
// than silently no-opping.
type GitConfig struct {
	Owner      string `yaml:"owner"`
	Repo       string `yaml:"repo"`
	BaseBranch string `yaml:"base_branch"`
}

// Default returns the configuration defaults named explicitly in spec.md:
// max-iterations=5, max-cost=1.0, approval-timeout=3600s, breaker threshold=5
// failures, breaker cooldown=60s.
func Default() Config {
	return Config{
		Executor: ExecutorConfig{
			MaxIterations:           5,
			MaxCost:                 1.0,
			ApprovalTimeout:         time.Hour,
			MaxConcurrentExecutions: 16,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			CooldownPeriod:   60 * time.Second,
		},
		RateLimit: RateLimitConfig{
			DefaultRPM:   60,
			DefaultBurst: 10,
		},
		Storage: StorageConfig{
			DraftsRoot: "./drafts",
		},
		Git: GitConfig{
			BaseBranch: "main",
		},
	}
}

// Load reads and parses a YAML configuration file, applying defaults for any
// field left unset (zero-valued) in the file.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}
