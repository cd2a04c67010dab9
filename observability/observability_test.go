package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecorder() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return tp, sr
}

func TestNew_DefaultsToGlobals(t *testing.T) {
	tel, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, span := tel.StartSpan(context.Background(), SpanKeyFetch)
	EndSpan(span, nil)
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
}

func TestStartSpan_RecordsAttributes(t *testing.T) {
	tp, sr := newRecorder()
	tel, err := New(WithTracerProvider(tp), WithMeterProvider(noop.NewMeterProvider()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := tel.StartSpan(context.Background(), SpanKeyFetch, attribute.String(AttrURL, "https://idp/jwks"))
	EndSpan(span, nil)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != SpanKeyFetch {
		t.Errorf("expected span %q, got %q", SpanKeyFetch, s.Name())
	}
	if s.SpanKind() != trace.SpanKindClient {
		t.Errorf("expected client span, got %v", s.SpanKind())
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("expected ok status, got %v", s.Status())
	}
	found := false
	for _, kv := range s.Attributes() {
		if kv.Key == AttrURL && kv.Value.AsString() == "https://idp/jwks" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected url attribute, got %v", s.Attributes())
	}
}

func TestEndSpan_RecordsError(t *testing.T) {
	tp, sr := newRecorder()
	tel, _ := New(WithTracerProvider(tp))

	_, span := tel.StartSpan(context.Background(), SpanTokenExchange)
	EndSpan(span, errors.New("invalid_grant"))

	s := sr.Ended()[0]
	if s.Status().Code != codes.Error || s.Status().Description != "invalid_grant" {
		t.Errorf("expected error status, got %v", s.Status())
	}
	if len(s.Events()) == 0 {
		t.Error("expected an exception event")
	}
}

func TestMetrics_Record(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	ctx := context.Background()
	m.RecordKeyFetch(ctx, OutcomeSuccess, 10*time.Millisecond)
	m.RecordExchange(ctx, OutcomeError, 20*time.Millisecond)
	m.RecordCallback(ctx, OutcomeStateMismatch)
	m.RecordAuthorization(ctx, true)
	m.RecordAuthorization(ctx, false)
}

func TestOutcome(t *testing.T) {
	if Outcome(nil) != OutcomeSuccess {
		t.Error("expected success for nil error")
	}
	if Outcome(errors.New("x")) != OutcomeError {
		t.Error("expected error outcome")
	}
}
