package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome labels shared by the counters.
const (
	OutcomeSuccess       = "success"
	OutcomeError         = "error"
	OutcomeStateMismatch = "state_mismatch"
	OutcomeAllowed       = "allowed"
	OutcomeDenied        = "denied"
)

// Metrics holds OpenTelemetry metric instruments for identity provider calls
// and login outcomes.
type Metrics struct {
	keyFetchTotal    metric.Int64Counter
	keyFetchDuration metric.Float64Histogram
	exchangeTotal    metric.Int64Counter
	exchangeDuration metric.Float64Histogram
	callbackTotal    metric.Int64Counter
	authzTotal       metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	keyFetchTotal, err := meter.Int64Counter("cognito.jwks.fetch.total",
		metric.WithDescription("Total number of signing key fetches"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cognito.jwks.fetch.total counter: %w", err)
	}

	keyFetchDuration, err := meter.Float64Histogram("cognito.jwks.fetch.duration",
		metric.WithDescription("Duration of signing key fetches in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cognito.jwks.fetch.duration histogram: %w", err)
	}

	exchangeTotal, err := meter.Int64Counter("cognito.token.exchange.total",
		metric.WithDescription("Total number of authorization code exchanges"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cognito.token.exchange.total counter: %w", err)
	}

	exchangeDuration, err := meter.Float64Histogram("cognito.token.exchange.duration",
		metric.WithDescription("Duration of authorization code exchanges in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cognito.token.exchange.duration histogram: %w", err)
	}

	callbackTotal, err := meter.Int64Counter("cognito.callback.total",
		metric.WithDescription("Total login callbacks by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cognito.callback.total counter: %w", err)
	}

	authzTotal, err := meter.Int64Counter("cognito.authorization.total",
		metric.WithDescription("Total role checks by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cognito.authorization.total counter: %w", err)
	}

	return &Metrics{
		keyFetchTotal:    keyFetchTotal,
		keyFetchDuration: keyFetchDuration,
		exchangeTotal:    exchangeTotal,
		exchangeDuration: exchangeDuration,
		callbackTotal:    callbackTotal,
		authzTotal:       authzTotal,
	}, nil
}

// RecordKeyFetch records one signing key fetch.
func (m *Metrics) RecordKeyFetch(ctx context.Context, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(AttrOutcome, outcome))
	m.keyFetchTotal.Add(ctx, 1, attrs)
	m.keyFetchDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordExchange records one authorization code exchange.
func (m *Metrics) RecordExchange(ctx context.Context, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(AttrOutcome, outcome))
	m.exchangeTotal.Add(ctx, 1, attrs)
	m.exchangeDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCallback records the outcome of a login callback.
func (m *Metrics) RecordCallback(ctx context.Context, outcome string) {
	m.callbackTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOutcome, outcome)))
}

// RecordAuthorization records the outcome of a role check.
func (m *Metrics) RecordAuthorization(ctx context.Context, allowed bool) {
	outcome := OutcomeDenied
	if allowed {
		outcome = OutcomeAllowed
	}
	m.authzTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOutcome, outcome)))
}

// Outcome maps an error to a success or error label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
