// Package telemetry provides OpenTelemetry tracing and Prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const flushTimeout = 10 * time.Second

// Config selects where spans are exported and how many are kept
type Config struct {
	Enabled bool
	// CollectorEndpoint is the OTLP gRPC host:port
	CollectorEndpoint string
	// SamplingRatio is the share of root traces kept, 0.0-1.0
	SamplingRatio  float64
	ServiceName    string
	ServiceVersion string
	Environment    string
	Insecure       bool
}

// TracerProvider owns the span pipeline of the process. When tracing is
// disabled it holds nothing and the global no-op provider stays in place.
type TracerProvider struct {
	sdk    *sdktrace.TracerProvider
	logger *zap.Logger
}

// NewTracerProvider builds the OTLP exporter and installs the provider and
// W3C propagators globally
func NewTracerProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*TracerProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tp := &TracerProvider{logger: logger}
	if !cfg.Enabled {
		logger.Debug("Tracing disabled")
		return tp, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	ratio := min(max(cfg.SamplingRatio, 0), 1)
	tp.sdk = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(tp.sdk)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("Tracing enabled",
		zap.String("endpoint", cfg.CollectorEndpoint),
		zap.Float64("sampling_ratio", ratio))
	return tp, nil
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

func newResource(cfg Config) (*resource.Resource, error) {
	version := cfg.ServiceVersion
	if version == "" {
		version = "dev"
	}
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(version),
	}
	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironmentName(cfg.Environment))
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}
	return res, nil
}

// Shutdown exports buffered spans and stops the pipeline. Safe to call on a
// disabled provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()

	err := errors.Join(tp.sdk.ForceFlush(ctx), tp.sdk.Shutdown(ctx))
	if err != nil {
		tp.logger.Error("Tracing shutdown failed", zap.Error(err))
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}

// Tracer returns a named tracer, falling back to the global provider
func (tp *TracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if tp.sdk == nil {
		return otel.GetTracerProvider().Tracer(name, opts...)
	}
	return tp.sdk.Tracer(name, opts...)
}

// IsEnabled reports whether spans are exported
func (tp *TracerProvider) IsEnabled() bool {
	return tp.sdk != nil
}
