package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json"}, "adminctl", buf)
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "invalid-level")
	l.Info("still logged")
	if !strings.Contains(buf.String(), "still logged") {
		t.Errorf("expected info fallback level, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "warn")
	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warn entry, got %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "debug").WithComponent("mutation")
	l.Info("dispatch", Fields(FieldVerb, "POST", FieldPath, "/api/projects"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry[FieldComponent] != "mutation" {
		t.Errorf("expected component=mutation, got %v", entry[FieldComponent])
	}
	if entry[FieldVerb] != "POST" {
		t.Errorf("expected verb=POST, got %v", entry[FieldVerb])
	}
	if l.service != "adminctl" {
		t.Errorf("service should be preserved, got %q", l.service)
	}
}

func TestWithContext_NoSpan(t *testing.T) {
	l := NewDefault("test")
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when ctx carries no span")
	}
}

func TestWithContext_Span(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	var buf bytes.Buffer
	jsonLogger(&buf, "info").WithContext(ctx).Info("traced")

	want := span.SpanContext().TraceID().String()
	if !strings.Contains(buf.String(), want) {
		t.Errorf("expected trace id %s in %q", want, buf.String())
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").WithError(errors.New("boom")).Error("failed")
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected error field, got %q", buf.String())
	}
}

func TestInit(t *testing.T) {
	cfg := Config{ServiceName: "adminctl"}
	Init(&cfg)
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	if gl.service != "adminctl" {
		t.Errorf("expected service 'adminctl', got %q", gl.service)
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "warn" {
		t.Errorf("expected level 'warn', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp=true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"disabled level", Config{Level: "disabled", Format: "console", Output: "stderr"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "adminctl", &buf)
	l.Info("hello")
	out := buf.String()
	if !strings.Contains(out, "[ADM][INF]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
}

func TestRegisterAndGet(t *testing.T) {
	defer Reset()
	l := NewDefault("registered")
	Register("query", l)
	if Get("query") != l {
		t.Error("expected registered logger")
	}
}

func TestGetUnregistered(t *testing.T) {
	Reset()
	if Get("unknown") == nil {
		t.Fatal("expected fallback logger")
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields %v", m)
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("save", errors.New("nope"))
	if ef[FieldOperation] != "save" || ef[FieldError] != "nope" {
		t.Errorf("unexpected error fields %v", ef)
	}
	df := DurationFields("fetch", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
	merged := MergeWithError(nil, errors.New("x"))
	if merged[FieldError] != "x" {
		t.Errorf("expected merged error, got %v", merged)
	}
}
