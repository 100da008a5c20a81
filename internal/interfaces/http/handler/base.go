// Package handler implements the HTTP endpoints of the invoice server.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garage/invoicer/internal/infrastructure/logger"
	"github.com/garage/invoicer/internal/interfaces/http/dto"
	"github.com/garage/invoicer/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// HandleError maps err to a status and error response. Server side
// failures are logged with their cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	code, message := dto.ErrorCode(err)
	if dto.GetHTTPStatus(code) >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error("request failed", zap.String("code", code), zap.Error(err))
	}
	_ = c.Error(err)
	h.ErrorWithCode(c, code, message)
}
