package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of spans started by this module
const TracerName = "github.com/garage/invoicer"

// Span attribute keys
const (
	SpanAttrListingID  = "listing.id"
	SpanAttrCategoryID = "listing.category_id"
	SpanAttrImageURL   = "image.url"
	SpanAttrHTTPStatus = "http.status_code"
	SpanAttrPageCount  = "document.pages"
	SpanAttrSizeBytes  = "document.size_bytes"
	SpanAttrLocation   = "document.location"
	SpanAttrDegraded   = "invoice.degraded_steps"
)

// WithAttribute sets one attribute at span start
func WithAttribute(key string, value any) trace.SpanStartOption {
	return trace.WithAttributes(toAttribute(key, value))
}

// WithSpanKind sets the span kind. Spans default to internal.
func WithSpanKind(kind trace.SpanKind) trace.SpanStartOption {
	return trace.WithSpanKind(kind)
}

// StartSpan starts a span on the global provider; the caller ends it.
//
//	ctx, span := telemetry.StartSpan(ctx, "garage.fetch_listing")
//	defer span.End()
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, opts...)
}

// StartServiceSpan starts a span named {service}.{method}
func StartServiceSpan(ctx context.Context, service, method string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return StartSpan(ctx, service+"."+method, opts...)
}

// SetAttributes adds alternating key/value pairs to span. A trailing key
// without a value is dropped.
func SetAttributes(span trace.Span, keyValues ...any) {
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		if key, ok := keyValues[i].(string); ok {
			attrs = append(attrs, toAttribute(key, keyValues[i+1]))
		}
	}
	span.SetAttributes(attrs...)
}

// RecordError marks span failed with err. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK marks span successful
func SetOK(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// Finish sets the span status from err and ends the span
func Finish(span trace.Span, err error) {
	if err != nil {
		RecordError(span, err)
	} else {
		SetOK(span)
	}
	span.End()
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	}
	return attribute.String(key, fmt.Sprint(value))
}
