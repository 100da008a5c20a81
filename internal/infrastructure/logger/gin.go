package logger

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ginLoggerKey = "logger"

// GinMiddleware stores a request scoped logger in the gin and request
// contexts and writes one access line per request. The request ID is read
// from the "request_id" gin key set by the request ID middleware.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		l := base.With(zap.String("method", req.Method), zap.String("path", req.URL.Path))
		ctx := req.Context()
		if id := c.GetString("request_id"); id != "" {
			ctx, l = WithRequestID(ctx, l, id)
		} else {
			ctx = WithContext(ctx, l)
		}
		c.Request = req.WithContext(ctx)
		c.Set(ginLoggerKey, l)

		c.Next()

		status := c.Writer.Status()
		ce := l.Check(accessLevel(status), "HTTP Request")
		if ce == nil {
			return
		}
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if q := req.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}
		ce.Write(fields...)
	}
}

func accessLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

// Recovery turns a panic into a 500 and logs it with a stack trace
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		base.Error("Panic recovered",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("error", recovered),
			zap.Stack("stacktrace"))
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// GetGinLogger returns the request scoped logger, or a no-op logger
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(ginLoggerKey); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return zap.NewNop()
}
