package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Invoice outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// MetricsConfig configures the Prometheus registry
type MetricsConfig struct {
	// Namespace prefixes every metric name. Default: invoicer
	Namespace string
	// HistogramBuckets are the duration buckets. Default: prometheus.DefBuckets
	HistogramBuckets []float64
	// RuntimeCollectors adds the Go and process collectors
	RuntimeCollectors bool
}

// Metrics owns a private Prometheus registry with the invoice and HTTP
// metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	invoicesTotal    *prometheus.CounterVec
	generateDuration *prometheus.HistogramVec
	documentBytes    prometheus.Histogram
	documentPages    prometheus.Histogram
	softFailures     *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// NewMetrics creates the registry and registers all metrics
func NewMetrics(cfg MetricsConfig) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "invoicer"
	}
	if len(cfg.HistogramBuckets) == 0 {
		cfg.HistogramBuckets = prometheus.DefBuckets
	}

	m := &Metrics{registry: prometheus.NewRegistry()}

	m.invoicesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "invoices_generated_total",
		Help:      "Invoice generation attempts by outcome.",
	}, []string{"outcome"})
	m.generateDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Name:      "invoice_generation_duration_seconds",
		Help:      "Time from listing id to finished document.",
		Buckets:   cfg.HistogramBuckets,
	}, []string{"outcome"})
	m.documentBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Name:      "invoice_document_bytes",
		Help:      "Size of generated invoice documents.",
		Buckets:   prometheus.ExponentialBuckets(16<<10, 2, 8),
	})
	m.documentPages = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Name:      "invoice_document_pages",
		Help:      "Page count of generated invoice documents.",
		Buckets:   []float64{1, 2, 3, 5, 8},
	})
	m.softFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "soft_failures_total",
		Help:      "Best-effort steps that fell back to their default.",
	}, []string{"step"})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served.",
	}, []string{"method", "route", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   cfg.HistogramBuckets,
	}, []string{"method", "route"})

	m.registry.MustRegister(
		m.invoicesTotal,
		m.generateDuration,
		m.documentBytes,
		m.documentPages,
		m.softFailures,
		m.httpRequests,
		m.httpDuration,
	)
	if cfg.RuntimeCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape endpoint for the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordInvoice records one generation attempt
func (m *Metrics) RecordInvoice(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.invoicesTotal.WithLabelValues(outcome).Inc()
	m.generateDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordDocument records the shape of a generated document
func (m *Metrics) RecordDocument(pages int, size int64) {
	if m == nil {
		return
	}
	m.documentPages.Observe(float64(pages))
	m.documentBytes.Observe(float64(size))
}

// RecordSoftFailure counts a best-effort step that degraded
func (m *Metrics) RecordSoftFailure(step string) {
	if m == nil {
		return
	}
	m.softFailures.WithLabelValues(step).Inc()
}

// ObserveHTTP records one served HTTP request
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
