package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type scopeKey struct{}

// scope is what a request context carries for logging
type scope struct {
	logger    *zap.Logger
	requestID string
}

func scopeFrom(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// WithContext attaches logger to ctx, keeping any request ID already there
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	s := scopeFrom(ctx)
	s.logger = logger
	return context.WithValue(ctx, scopeKey{}, s)
}

// FromContext returns the logger attached to ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if s := scopeFrom(ctx); s.logger != nil {
		return s.logger
	}
	return zap.NewNop()
}

// WithRequestID records requestID in ctx and attaches logger tagged with it
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	tagged := logger.With(zap.String("request_id", requestID))
	return context.WithValue(ctx, scopeKey{}, scope{logger: tagged, requestID: requestID}), tagged
}

// GetRequestID returns the request ID carried by ctx, or ""
func GetRequestID(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

// L returns base (or the context logger when base is nil) tagged with the
// request ID and the active span of ctx.
//
//	logger.L(ctx, s.logger).Info("invoice generated", zap.String("listing_id", id))
func L(ctx context.Context, base *zap.Logger) *zap.Logger {
	var fields []zap.Field
	if base == nil {
		// the context logger is already tagged with the request ID
		base = FromContext(ctx)
	} else if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.Stringer("trace_id", sc.TraceID()),
			zap.Stringer("span_id", sc.SpanID()))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
