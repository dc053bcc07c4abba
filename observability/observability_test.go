package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("scribe")

	if cfg.ServiceName != "scribe" {
		t.Errorf("expected ServiceName 'scribe', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.Enabled {
		t.Error("expected tracing disabled by default")
	}
}

func TestTracerConfig_ApplyDefaultsAndValidate(t *testing.T) {
	cfg := TracerConfig{Enabled: true, SampleRate: 0.5}
	cfg.ApplyDefaults("scribe")

	if cfg.ServiceName != "scribe" || cfg.Endpoint == "" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.SampleRate != 0.5 {
		t.Errorf("expected SampleRate kept at 0.5, got %f", cfg.SampleRate)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	cfg.SampleRate = 2
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}
}

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracerConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("scribe", "1.2.3", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if kv.Key == "service.name" && kv.Value.AsString() == "scribe" {
			found = true
		}
	}
	if !found {
		t.Error("expected service.name attribute")
	}
}

func TestStartSpanAndEndSpan(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartSpan(context.Background(), SpanDriverAttempt,
		attribute.Int(AttrAttempt, 2),
		attribute.Float64(AttrTemperature, 0.4))
	EndSpan(span, errors.New("rate limited"))

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != SpanDriverAttempt {
		t.Errorf("expected span %q, got %q", SpanDriverAttempt, s.Name())
	}
	if s.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", s.Status().Code)
	}
	if len(s.Attributes()) != 2 {
		t.Errorf("expected 2 attributes, got %d", len(s.Attributes()))
	}
}

func TestSetSpanAttribute(t *testing.T) {
	rec := withRecorder(t)

	ctx, span := StartSpan(context.Background(), SpanPipelineRun)
	SetSpanAttribute(ctx, AttrRecordingID, "rec-1")
	SetSpanAttribute(ctx, AttrAttempt, 3)
	SetSpanAttribute(ctx, "bytes", int64(100))
	SetSpanAttribute(ctx, AttrQualityScore, 0.9)
	SetSpanAttribute(ctx, AttrHasRepetition, false)
	SetSpanAttribute(ctx, "warnings", []string{"a", "b"})
	SetSpanAttribute(ctx, "ignored", struct{}{})
	span.End()

	if got := len(rec.Ended()[0].Attributes()); got != 6 {
		t.Errorf("expected 6 attributes, got %d", got)
	}
}

func TestSetSpanAttribute_NoSpan(t *testing.T) {
	SetSpanAttribute(context.Background(), "key", "value")
}

func TestServiceHealth_AddComponent(t *testing.T) {
	sh := NewServiceHealth("scribe", "1.0.0")

	sh.AddComponent(Health{Name: "database", Status: HealthStatusUp})
	if sh.Status != HealthStatusUp {
		t.Errorf("expected status 'up' after healthy component, got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "redis", Status: HealthStatusDegraded, Message: "high latency"})
	if sh.Status != HealthStatusDegraded {
		t.Errorf("expected status 'degraded', got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "ffmpeg", Status: HealthStatusDown, Message: "not found"})
	if sh.Status != HealthStatusDown {
		t.Errorf("expected status 'down', got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "storage", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDown {
		t.Errorf("expected 'down' not overridden by 'degraded', got %s", sh.Status)
	}
}

type staticChecker Health

func (c staticChecker) CheckHealth(context.Context) Health { return Health(c) }

func TestCheck(t *testing.T) {
	sh := Check(context.Background(), "scribe", "1.0.0",
		staticChecker(FromError("database", nil)),
		staticChecker(FromError("redis", errors.New("connection refused"))),
	)

	if sh.Status != HealthStatusDown {
		t.Errorf("expected 'down', got %s", sh.Status)
	}
	if len(sh.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(sh.Components))
	}
	if sh.Components[1].Message != "connection refused" {
		t.Errorf("unexpected message %q", sh.Components[1].Message)
	}
}
