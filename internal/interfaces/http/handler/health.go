package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garage/invoicer/internal/interfaces/http/dto"
)

// HealthHandler reports liveness
type HealthHandler struct {
	BaseHandler
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, startTime: time.Now()}
}

// Health returns the service status, version and uptime
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, dto.HealthResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	})
}
