package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerComponentField(t *testing.T) {
	var buf bytes.Buffer
	cfg := ConfigFrom("debug", "json")
	cfg.Output = &buf
	logger := New(cfg).WithComponent(ComponentReports)

	logger.Debug("Summary computed", FieldUserID, "u1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry[FieldComponent] != ComponentReports || entry[FieldUserID] != "u1" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := ConfigFrom("warn", "text")
	cfg.Output = &buf
	logger := New(cfg)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, "component=app") {
		t.Errorf("expected default component, got %q", out)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Component: ComponentHTTP})

	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("expected the stored logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("expected a fallback logger")
	}
}

func TestLogFields(t *testing.T) {
	fields := NewFields().
		WithUser("u1").
		WithOperation(OpAggregate).
		WithPeriod("month", "2024-03-01", "2024-04-01").
		WithCount(3).
		WithError(errors.New("boom")).
		WithError(nil)

	if fields[FieldUserID] != "u1" || fields[FieldPeriodEnd] != "2024-04-01" || fields[FieldRecordCount] != 3 {
		t.Errorf("unexpected fields %v", fields)
	}
	if fields[FieldError] != "boom" {
		t.Errorf("nil error must not overwrite, got %v", fields[FieldError])
	}
	if got := len(fields.ToSlice()); got != 2*len(fields) {
		t.Errorf("ToSlice length = %d, want %d", got, 2*len(fields))
	}
}
