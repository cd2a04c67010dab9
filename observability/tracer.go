package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kbukum/cognitoauth"

// Span names.
const (
	SpanKeyFetch      = "cognito.jwks.fetch"
	SpanTokenExchange = "cognito.token.exchange"
	SpanCallback      = "cognito.callback"
)

// Attribute keys.
const (
	AttrURL          = "http.url"
	AttrStatusCode   = "http.status_code"
	AttrMaxAge       = "cache.max_age"
	AttrKeyCount     = "jwks.key_count"
	AttrOutcome      = "outcome"
	AttrErrorCode    = "error.code"
	AttrErrorMessage = "error.message"
)

// Telemetry bundles the tracer and metric instruments used by the library.
type Telemetry struct {
	tracer  trace.Tracer
	metrics *Metrics
}

type options struct {
	tp trace.TracerProvider
	mp metric.MeterProvider
}

// Option configures Telemetry.
type Option func(*options)

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tp = tp }
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.mp = mp }
}

// New creates Telemetry from the given providers, defaulting to the otel globals.
func New(opts ...Option) (*Telemetry, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tp == nil {
		o.tp = otel.GetTracerProvider()
	}
	if o.mp == nil {
		o.mp = otel.GetMeterProvider()
	}

	m, err := NewMetrics(o.mp.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}
	return &Telemetry{
		tracer:  o.tp.Tracer(instrumentationName),
		metrics: m,
	}, nil
}

// StartSpan starts a client span with the given attributes.
func (t *Telemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// Metrics returns the metric instruments.
func (t *Telemetry) Metrics() *Metrics {
	return t.metrics
}

// EndSpan records err on the span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
