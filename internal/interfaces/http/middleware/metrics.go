package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garage/invoicer/internal/infrastructure/telemetry"
)

// HTTPMetrics records request count and latency per route. Unmatched
// requests are grouped under "unmatched" to bound label cardinality.
func HTTPMetrics(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
