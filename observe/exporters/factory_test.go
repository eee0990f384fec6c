package exporters

import (
	"context"
	"testing"
)

func TestNewTracingExporter(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"none", "", "stdout"} {
		if _, err := NewTracingExporter(ctx, name); err != nil {
			t.Errorf("NewTracingExporter(%q) error = %v", name, err)
		}
	}

	if _, err := NewTracingExporter(ctx, "zipkin"); err == nil {
		t.Error("unknown exporter name should fail")
	}
}

func TestNewTracingExporter_OTLPNeedsEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	if _, err := NewTracingExporter(context.Background(), "otlp"); err == nil {
		t.Error("otlp without an endpoint should fail")
	}
}

func TestNewMetricsReader(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"none", "", "stdout", "prometheus"} {
		if _, err := NewMetricsReader(ctx, name); err != nil {
			t.Errorf("NewMetricsReader(%q) error = %v", name, err)
		}
	}

	if _, err := NewMetricsReader(ctx, "statsd"); err == nil {
		t.Error("unknown reader name should fail")
	}
}

func TestNewMetricsReader_OTLPNeedsEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	if _, err := NewMetricsReader(context.Background(), "otlp"); err == nil {
		t.Error("otlp without an endpoint should fail")
	}
}
