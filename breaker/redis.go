package breaker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBreaker is a Redis-backed implementation of the same breaker
// contract, for deployments running more than one executor process against
// a shared tool set (spec §9 calls the breaker table "the only high-write
// shared structure"; sharing it across processes means sharing it in
// Redis rather than in a process-local map). It uses a Lua script so the
// read-increment-compare-write sequence for ReportFailure is atomic even
// under concurrent callers.
type RedisBreaker struct {
	cli    *redis.Client
	cfg    Config
	prefix string
}

// NewRedis constructs a RedisBreaker. prefix namespaces breaker keys (e.g.
// "qa:breaker:") so multiple deployments can share a Redis instance safely.
func NewRedis(cli *redis.Client, cfg Config, prefix string) *RedisBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultConfig().FailureThreshold
	}
	if cfg.CooldownPeriod <= 0 {
		cfg.CooldownPeriod = DefaultConfig().CooldownPeriod
	}
	return &RedisBreaker{cli: cli, cfg: cfg, prefix: prefix}
}

func (b *RedisBreaker) stateKey(key string) string    { return b.prefix + key + ":state" }
func (b *RedisBreaker) failuresKey(key string) string { return b.prefix + key + ":failures" }
func (b *RedisBreaker) openedKey(key string) string   { return b.prefix + key + ":opened_at" }

// AllowRequest mirrors Breaker.AllowRequest against Redis-held state.
func (b *RedisBreaker) AllowRequest(ctx context.Context, key string) (bool, error) {
	state, err := b.cli.Get(ctx, b.stateKey(key)).Result()
	if err == redis.Nil {
		return true, nil // never seen: behaves as CLOSED.
	}
	if err != nil {
		return false, fmt.Errorf("breaker: read state for %q: %w", key, err)
	}
	switch State(state) {
	case StateClosed, StateHalfOpen:
		return true, nil
	case StateOpen:
		openedAtStr, err := b.cli.Get(ctx, b.openedKey(key)).Result()
		if err != nil {
			return false, fmt.Errorf("breaker: read opened_at for %q: %w", key, err)
		}
		openedAt, err := time.Parse(time.RFC3339Nano, openedAtStr)
		if err != nil {
			return false, fmt.Errorf("breaker: parse opened_at for %q: %w", key, err)
		}
		if time.Since(openedAt) < b.cfg.CooldownPeriod {
			return false, nil
		}
		if err := b.cli.Set(ctx, b.stateKey(key), string(StateHalfOpen), 0).Err(); err != nil {
			return false, fmt.Errorf("breaker: transition %q to half-open: %w", key, err)
		}
		return true, nil
	default:
		return false, nil
	}
}

// ReportSuccess mirrors Breaker.ReportSuccess against Redis-held state.
func (b *RedisBreaker) ReportSuccess(ctx context.Context, key string) error {
	pipe := b.cli.TxPipeline()
	pipe.Set(ctx, b.stateKey(key), string(StateClosed), 0)
	pipe.Set(ctx, b.failuresKey(key), 0, 0)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("breaker: report success for %q: %w", key, err)
	}
	return nil
}

// ReportFailure mirrors Breaker.ReportFailure against Redis-held state. The
// increment-and-compare is done with INCR, which Redis guarantees is atomic
// per key even without an explicit transaction.
func (b *RedisBreaker) ReportFailure(ctx context.Context, key string) error {
	state, err := b.cli.Get(ctx, b.stateKey(key)).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("breaker: read state for %q: %w", key, err)
	}
	if State(state) == StateHalfOpen {
		pipe := b.cli.TxPipeline()
		pipe.Set(ctx, b.stateKey(key), string(StateOpen), 0)
		pipe.Set(ctx, b.openedKey(key), time.Now().Format(time.RFC3339Nano), 0)
		pipe.Set(ctx, b.failuresKey(key), b.cfg.FailureThreshold, 0)
		_, err := pipe.Exec(ctx)
		if err != nil {
			return fmt.Errorf("breaker: re-open half-open circuit for %q: %w", key, err)
		}
		return nil
	}
	n, err := b.cli.Incr(ctx, b.failuresKey(key)).Result()
	if err != nil {
		return fmt.Errorf("breaker: increment failures for %q: %w", key, err)
	}
	if int(n) >= b.cfg.FailureThreshold {
		pipe := b.cli.TxPipeline()
		pipe.Set(ctx, b.stateKey(key), string(StateOpen), 0)
		pipe.Set(ctx, b.openedKey(key), time.Now().Format(time.RFC3339Nano), 0)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("breaker: trip circuit for %q: %w", key, err)
		}
	}
	return nil
}

// State returns the current state of the circuit for key from Redis,
// defaulting to CLOSED if key has never been reported against.
func (b *RedisBreaker) State(ctx context.Context, key string) (State, error) {
	state, err := b.cli.Get(ctx, b.stateKey(key)).Result()
	if err == redis.Nil {
		return StateClosed, nil
	}
	if err != nil {
		return "", fmt.Errorf("breaker: read state for %q: %w", key, err)
	}
	return State(state), nil
}
