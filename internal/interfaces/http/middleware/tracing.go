package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns otelgin followed by a handler that tags the server span
// with the request ID and marks 5xx responses as failed. Register it after
// RequestID.
func Tracing(cfg TracingConfig) gin.HandlersChain {
	if !cfg.Enabled {
		return nil
	}
	return gin.HandlersChain{otelgin.Middleware(cfg.ServiceName), enrichSpan}
}

func enrichSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		c.Next()
		return
	}
	if requestID := GetRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}

	c.Next()

	if status := c.Writer.Status(); status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
