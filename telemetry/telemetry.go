// Package telemetry defines the logging, tracing, and metrics interfaces used
// throughout the core. Components never call a global logger or tracer:
// everything is threaded through these small interfaces so callers can swap
// in a no-op, an OTEL-backed, or a test implementation without touching
// business logic.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type (
	// Logger emits structured log records. Fields are passed as alternating
	// key/value pairs, matching the convention used across the retrieved
	// example repos' structured loggers.
	Logger interface {
		Debug(ctx context.Context, msg string, kv ...any)
		Info(ctx context.Context, msg string, kv ...any)
		Warn(ctx context.Context, msg string, kv ...any)
		Error(ctx context.Context, msg string, kv ...any)
	}

	// Metrics records counters, timers, and gauges. The optional tags are
	// flattened "key", "value" pairs.
	Metrics interface {
		IncCounter(name string, value float64, tags ...string)
		RecordTimer(name string, d time.Duration, tags ...string)
		RecordGauge(name string, value float64, tags ...string)
	}

	// Tracer starts spans. Start returns the derived context plus the span so
	// callers can both propagate tracing context and annotate the span.
	Tracer interface {
		Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span)
	}

	// Span is the subset of span operations components need: ending the span,
	// annotating it with events, and recording terminal status/errors.
	Span interface {
		End(opts ...trace.SpanEndOption)
		AddEvent(name string, kv ...any)
		SetStatus(code codes.Code, msg string)
		RecordError(err error, opts ...trace.EventOption)
	}
)
