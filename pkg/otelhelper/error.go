package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetError marks the span as failed.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("error_occurred", trace.WithAttributes(
		attrs...,
	))
}

// RecordFallback notes on the span that mock data replaced the upstream answer.
// The span status stays unset: the caller still gets a well-formed result.
func RecordFallback(span trace.Span, reason string, attrs ...attribute.KeyValue) {
	span.SetAttributes(attribute.Bool(MockDataKey, true))
	span.AddEvent("mock_fallback", trace.WithAttributes(
		append(attrs, attribute.String("reason", reason))...,
	))
}
