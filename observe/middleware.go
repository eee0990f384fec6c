package observe

import (
	"context"
	"time"
)

// FreezeFunc is the signature Middleware wraps: one fingerprinting
// operation that returns its result plus traversal statistics.
type FreezeFunc func(ctx context.Context, meta OpMeta, value any) (any, FreezeStats, error)

// FreezeStats carries the traversal counters an instrumented operation
// reports back to Middleware.
type FreezeStats struct {
	Nodes    int
	MemoHits int
}

// Middleware wraps fingerprinting operations with observability (tracing,
// metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe FreezeFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and propagated unchanged.
//   - Ownership: Values are passed through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a FreezeFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn FreezeFunc) FreezeFunc {
	return func(ctx context.Context, meta OpMeta, value any) (any, FreezeStats, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		result, stats, err := fn(ctx, meta, value)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordFreeze(ctx, meta, duration, stats.Nodes, stats.MemoHits, err)

		opLogger := m.logger.WithOp(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000.0},
			{Key: "nodes", Value: stats.Nodes},
			{Key: "memo_hits", Value: stats.MemoHits},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			opLogger.Error(ctx, "fingerprint operation failed", fields...)
		} else {
			opLogger.Debug(ctx, "fingerprint operation completed", fields...)
		}

		return result, stats, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
