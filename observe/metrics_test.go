package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/sdk/metric"
)

func TestNewMetrics_RecordsWithoutError(t *testing.T) {
	mp := metric.NewMeterProvider()
	defer mp.Shutdown(context.Background())

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	ctx := context.Background()
	meta := OpMeta{Op: "freeze", Scope: "tool", Mode: "hashed"}

	m.RecordFreeze(ctx, meta, 3*time.Millisecond, 42, 5, nil)
	m.RecordFreeze(ctx, meta, time.Millisecond, 1, 0, errors.New("boom"))
	m.RecordLookup(ctx, OpMeta{Op: "memoize", Scope: "tool"}, true)
	m.RecordLookup(ctx, OpMeta{Op: "memoize", Scope: "tool"}, false)
}

func TestNopMetrics(t *testing.T) {
	m := NopMetrics()
	ctx := context.Background()

	m.RecordFreeze(ctx, OpMeta{Op: "freeze"}, time.Second, 10, 2, nil)
	m.RecordLookup(ctx, OpMeta{Op: "memoize"}, true)
}
