package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"nonsense", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLoggerWithWriter("info", &buf)

	lg.Info(context.Background(), "frozen", Field{Key: "nodes", Value: 7})

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d log lines, want 1", len(entries))
	}
	e := entries[0]
	if e["level"] != "info" || e["msg"] != "frozen" {
		t.Errorf("entry = %v", e)
	}
	if e["nodes"] != float64(7) {
		t.Errorf("nodes = %v, want 7", e["nodes"])
	}
	if _, ok := e["timestamp"]; !ok {
		t.Error("entry should carry a timestamp")
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	lg.Debug(ctx, "dropped")
	lg.Info(ctx, "dropped")
	lg.Warn(ctx, "kept")
	lg.Error(ctx, "kept")

	if entries := decodeLines(t, &buf); len(entries) != 2 {
		t.Errorf("got %d log lines, want 2", len(entries))
	}
}

func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLoggerWithWriter("info", &buf)

	lg.Info(context.Background(), "freeze visit",
		Field{Key: "token", Value: "s3cr3t"},
		Field{Key: "value", Value: "plain preview"},
	)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d log lines, want 1", len(entries))
	}
	if entries[0]["token"] != "[REDACTED]" {
		t.Errorf("token = %v, want [REDACTED]", entries[0]["token"])
	}
	if entries[0]["value"] != "plain preview" {
		t.Errorf("value previews must not be redacted, got %v", entries[0]["value"])
	}
}

func TestLogger_WithOp(t *testing.T) {
	var buf bytes.Buffer
	base := NewLoggerWithWriter("info", &buf)

	opLg := base.WithOp(OpMeta{Op: "freeze", Scope: "tool", Mode: "hashed"})
	opLg.Info(context.Background(), "done")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d log lines, want 1", len(entries))
	}
	e := entries[0]
	if e["op"] != "freeze" || e["op.scope"] != "tool" || e["op.mode"] != "hashed" {
		t.Errorf("operation context missing from entry: %v", e)
	}

	// The parent logger is unchanged.
	buf.Reset()
	base.Info(context.Background(), "plain")
	if e := decodeLines(t, &buf)[0]; e["op"] != nil {
		t.Error("WithOp must not mutate the parent logger")
	}
}
