package telemetry_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zaptest"

	"github.com/garage/invoicer/internal/infrastructure/telemetry"
)

// setupTestTracer installs an in-memory span recorder as the global provider
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "invoice", "generate",
		telemetry.WithAttribute(telemetry.SpanAttrListingID, "abc"))
	telemetry.SetAttributes(span, telemetry.SpanAttrPageCount, 2, "ignored")
	telemetry.Finish(span, nil)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "invoice.generate", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "abc", attrs[telemetry.SpanAttrListingID])
	assert.Equal(t, "2", attrs[telemetry.SpanAttrPageCount])
	assert.NotContains(t, attrs, "ignored")
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "garage.fetch_listing")
	telemetry.RecordError(span, errors.New("Failed to fetch listing: 404"))
	telemetry.RecordError(span, nil)
	span.End()

	_, failed := telemetry.StartSpan(context.Background(), "invoice.render",
		telemetry.WithSpanKind(trace.SpanKindInternal))
	telemetry.Finish(failed, errors.New("render failed"))

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "Failed to fetch listing: 404", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestMetrics(t *testing.T) {
	m := telemetry.NewMetrics(telemetry.MetricsConfig{})

	m.RecordInvoice(telemetry.OutcomeSuccess, 120*time.Millisecond)
	m.RecordInvoice(telemetry.OutcomeSuccess, 80*time.Millisecond)
	m.RecordInvoice(telemetry.OutcomeFailed, 10*time.Millisecond)
	m.RecordSoftFailure("labels")
	m.RecordDocument(2, 48_000)
	m.ObserveHTTP(http.MethodGet, "/api/v1/invoices", http.StatusOK, 5*time.Millisecond)

	expected := `
# HELP invoicer_invoices_generated_total Invoice generation attempts by outcome.
# TYPE invoicer_invoices_generated_total counter
invoicer_invoices_generated_total{outcome="failed"} 1
invoicer_invoices_generated_total{outcome="success"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "invoicer_invoices_generated_total"))
	count, err := testutil.GatherAndCount(m.Registry(), "invoicer_soft_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `invoicer_http_requests_total{method="GET",route="/api/v1/invoices",status="200"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *telemetry.Metrics
	assert.NotPanics(t, func() {
		m.RecordInvoice(telemetry.OutcomeSuccess, time.Second)
		m.RecordSoftFailure("logo")
		m.RecordDocument(1, 1)
		m.ObserveHTTP("GET", "/", 200, time.Second)
	})
}
