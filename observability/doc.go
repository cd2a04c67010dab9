// Package observability provides OpenTelemetry tracing and metrics for calls
// to the identity provider and for login outcomes.
//
// Instrumentation uses the global otel providers unless others are passed.
// Hosts that never install a provider get no-op spans and instruments.
//
//	tel, err := observability.New()
//	ctx, span := tel.StartSpan(ctx, observability.SpanKeyFetch)
//	defer observability.EndSpan(span, err)
//
// Export builds OTLP/HTTP providers for hosts without their own setup:
//
//	exp, err := observability.Export(ctx, observability.DefaultExportConfig("app"), log)
//	defer exp.Shutdown(ctx)
//	tel, err := observability.New(exp.Options()...)
//
// Components that can report health implement HealthChecker.
package observability
