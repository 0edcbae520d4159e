package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/adminkit/config"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestFromAppConfig(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.API.BaseURL = "http://localhost:8080"
	cfg.ApplyDefaults()

	oc := FromAppConfig(cfg, "1.2.3")
	if oc.ServiceName != "adminctl" {
		t.Errorf("expected ServiceName 'adminctl', got %s", oc.ServiceName)
	}
	if oc.ServiceVersion != "1.2.3" {
		t.Errorf("expected ServiceVersion '1.2.3', got %s", oc.ServiceVersion)
	}
	if oc.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", oc.Endpoint)
	}
	if oc.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", oc.SampleRate)
	}
	if oc.MetricsInterval != 15*time.Second {
		t.Errorf("expected MetricsInterval 15s, got %v", oc.MetricsInterval)
	}
}

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("expected no-op shutdown, got %v", err)
	}
}

func TestNewMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordMutation(ctx, "POST", "success", 100*time.Millisecond)
	metrics.RecordQueryFetch(ctx, "users", "error", 50*time.Millisecond)
	metrics.RecordCacheHit(ctx, "users")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordMutation(ctx, "GET", "success", time.Millisecond)
	m.RecordQueryFetch(ctx, "k", "success", time.Millisecond)
	m.RecordCacheHit(ctx, "k")
}

func TestDefaultMetrics(t *testing.T) {
	if DefaultMetrics() == nil {
		t.Fatal("expected default metrics")
	}
	if DefaultMetrics() != DefaultMetrics() {
		t.Error("expected the same instance on every call")
	}
}

func TestStartSpan_EndSpan(t *testing.T) {
	sr := installRecorder(t)

	_, span := StartSpan(context.Background(), SpanMutationExecute, attribute.String(AttrVerb, "POST"))
	EndSpan(span, nil)

	_, span = StartSpan(context.Background(), SpanQueryFetch)
	EndSpan(span, errors.New("boom"))

	ended := sr.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(ended))
	}
	if ended[0].Name() != SpanMutationExecute {
		t.Errorf("expected span %s, got %s", SpanMutationExecute, ended[0].Name())
	}
	if ended[0].Status().Code != codes.Ok {
		t.Errorf("expected ok status, got %v", ended[0].Status().Code)
	}
	found := false
	for _, kv := range ended[0].Attributes() {
		if string(kv.Key) == AttrVerb && kv.Value.AsString() == "POST" {
			found = true
		}
	}
	if !found {
		t.Error("expected verb attribute on span")
	}
	if ended[1].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", ended[1].Status().Code)
	}
	if ended[1].Status().Description != "boom" {
		t.Errorf("expected description 'boom', got %s", ended[1].Status().Description)
	}
}

func TestReport_Add(t *testing.T) {
	r := NewReport("adminctl", "1.0.0")
	if r.Status != HealthStatusUp {
		t.Errorf("expected Status 'up', got %s", r.Status)
	}

	r.Add(Health{Name: "api", Status: HealthStatusUp})
	if r.Status != HealthStatusUp {
		t.Errorf("expected status 'up' after healthy component, got %s", r.Status)
	}

	r.Add(Health{Name: "credential", Status: HealthStatusDegraded})
	if r.Status != HealthStatusDegraded {
		t.Errorf("expected status 'degraded', got %s", r.Status)
	}

	r.Add(Health{Name: "api", Status: HealthStatusDown})
	if r.Status != HealthStatusDown {
		t.Errorf("expected status 'down', got %s", r.Status)
	}

	r.Add(Health{Name: "late", Status: HealthStatusDegraded})
	if r.Status != HealthStatusDown {
		t.Errorf("expected status to stay 'down', got %s", r.Status)
	}
	if len(r.Components) != 4 {
		t.Errorf("expected 4 components, got %d", len(r.Components))
	}
}

func TestReport_Probe(t *testing.T) {
	sr := installRecorder(t)
	r := NewReport("adminctl", "dev")

	h := r.Probe(context.Background(), "api", false, func(context.Context) error { return nil })
	if h.Status != HealthStatusUp {
		t.Errorf("expected up, got %s", h.Status)
	}

	h = r.Probe(context.Background(), "credential", true, func(context.Context) error {
		return errors.New("no token")
	})
	if h.Status != HealthStatusDegraded {
		t.Errorf("expected degraded for optional failure, got %s", h.Status)
	}
	if h.Message != "no token" {
		t.Errorf("expected message 'no token', got %s", h.Message)
	}
	if r.Status != HealthStatusDegraded {
		t.Errorf("expected report degraded, got %s", r.Status)
	}

	r.Probe(context.Background(), "api", false, func(context.Context) error {
		return errors.New("refused")
	})
	if r.Status != HealthStatusDown {
		t.Errorf("expected report down, got %s", r.Status)
	}

	if len(sr.Ended()) != 3 {
		t.Errorf("expected 3 probe spans, got %d", len(sr.Ended()))
	}
	if sr.Ended()[0].Name() != "health.api" {
		t.Errorf("expected span health.api, got %s", sr.Ended()[0].Name())
	}
}
