package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records fingerprinting and memoization metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordFreeze records one freeze call with duration, traversal size,
	// memo-cache hits, and error status.
	RecordFreeze(ctx context.Context, meta OpMeta, duration time.Duration, nodes, memoHits int, err error)

	// RecordLookup records one memoization cache lookup.
	RecordLookup(ctx context.Context, meta OpMeta, hit bool)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	freezeCount  metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	nodesHist    metric.Int64Histogram
	memoHits     metric.Int64Counter
	lookupCount  metric.Int64Counter
	lookupHits   metric.Int64Counter
}

// NewMetrics creates a Metrics instance recording through the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	freezeCount, err := meter.Int64Counter(
		"fp.freeze.total",
		metric.WithDescription("Total number of freeze calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"fp.freeze.errors",
		metric.WithDescription("Total number of failed freeze calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"fp.freeze.duration_ms",
		metric.WithDescription("Freeze call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	nodesHist, err := meter.Int64Histogram(
		"fp.freeze.nodes",
		metric.WithDescription("Values visited per freeze call"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, err
	}

	memoHits, err := meter.Int64Counter(
		"fp.freeze.memo_hits",
		metric.WithDescription("Values served from the cross-call memo cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	lookupCount, err := meter.Int64Counter(
		"fp.memo.lookups",
		metric.WithDescription("Total number of memoization cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	lookupHits, err := meter.Int64Counter(
		"fp.memo.hits",
		metric.WithDescription("Memoization cache lookups served from cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		freezeCount:  freezeCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		nodesHist:    nodesHist,
		memoHits:     memoHits,
		lookupCount:  lookupCount,
		lookupHits:   lookupHits,
	}, nil
}

func (m *metricsImpl) RecordFreeze(ctx context.Context, meta OpMeta, duration time.Duration, nodes, memoHits int, err error) {
	opt := metric.WithAttributes(opAttrs(meta)...)

	m.freezeCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000.0, opt)
	m.nodesHist.Record(ctx, int64(nodes), opt)
	if memoHits > 0 {
		m.memoHits.Add(ctx, int64(memoHits), opt)
	}
}

func (m *metricsImpl) RecordLookup(ctx context.Context, meta OpMeta, hit bool) {
	opt := metric.WithAttributes(opAttrs(meta)...)
	m.lookupCount.Add(ctx, 1, opt)
	if hit {
		m.lookupHits.Add(ctx, 1, opt)
	}
}

func opAttrs(meta OpMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("fp.op", meta.Op),
	}
	if meta.Scope != "" {
		attrs = append(attrs, attribute.String("fp.scope", meta.Scope))
	}
	if meta.Mode != "" {
		attrs = append(attrs, attribute.String("fp.mode", meta.Mode))
	}
	return attrs
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return &noopMetrics{} }

func (m *noopMetrics) RecordFreeze(ctx context.Context, meta OpMeta, duration time.Duration, nodes, memoHits int, err error) {
}

func (m *noopMetrics) RecordLookup(ctx context.Context, meta OpMeta, hit bool) {}
