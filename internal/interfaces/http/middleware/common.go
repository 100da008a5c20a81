// Package middleware provides HTTP middleware for the invoice server.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in and out
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key of the request ID
const RequestIDKey = "request_id"

// MaxRequestIDLength bounds client supplied request IDs
const MaxRequestIDLength = 128

// RequestID adds a unique request ID to each request. A well formed client
// supplied ID is kept.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > MaxRequestIDLength || strings.ContainsAny(requestID, "\r\n") {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request ID stored by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// CORSConfig holds CORS middleware configuration
type CORSConfig struct {
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string
}

// DefaultCORSConfig returns the CORS configuration for the read-only API.
// AllowOrigins is empty, which rejects all cross-origin requests.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader, "Content-Disposition", InvoiceLocationHeader},
	}
}

// InvoiceLocationHeader reports where a generated invoice was archived
const InvoiceLocationHeader = "X-Invoice-Location"

// CORS returns a middleware that answers preflights and sets CORS headers
// for allowed origins
func CORS(cfg CORSConfig) gin.HandlerFunc {
	allowAll := false
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			allowAll = true
		}
	}

	allowed := func(origin string) string {
		if allowAll {
			return "*"
		}
		for _, o := range cfg.AllowOrigins {
			if o == origin {
				return origin
			}
		}
		return ""
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if value := allowed(origin); origin != "" && value != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", value)
			h.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
			h.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
			if len(cfg.ExposeHeaders) > 0 {
				h.Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
			}
			if value != "*" {
				h.Add("Vary", "Origin")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
