package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garage/invoicer/internal/application/invoice"
	"github.com/garage/invoicer/internal/interfaces/http/dto"
	"github.com/garage/invoicer/internal/interfaces/http/middleware"
)

// InvoiceService is the application service used by the handlers
type InvoiceService interface {
	GenerateFromText(ctx context.Context, text string) (*invoice.Result, error)
	Generate(ctx context.Context, id string) (*invoice.Result, error)
	Preview(ctx context.Context, text string) (*invoice.Summary, error)
}

// DegradedHeader lists the best-effort steps that fell back
const DegradedHeader = "X-Invoice-Degraded"

// InvoiceHandler serves the invoice API
type InvoiceHandler struct {
	BaseHandler
	service InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// RegisterRoutes registers the invoice API routes under rg
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/invoices", h.GenerateFromURL)
	listings := rg.Group("/listings")
	listings.GET("/:id", h.GetListing)
	listings.GET("/:id/invoice", h.GenerateByID)
}

// GenerateFromURL returns the invoice of the listing found in the url query
// parameter as a PDF attachment
func (h *InvoiceHandler) GenerateFromURL(c *gin.Context) {
	var q dto.InvoiceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.GenerateFromText(c.Request.Context(), q.URL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	sendDocument(c, result)
}

// GenerateByID returns the invoice of listing :id as a PDF attachment
func (h *InvoiceHandler) GenerateByID(c *gin.Context) {
	var uri dto.ListingURI
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.Generate(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	sendDocument(c, result)
}

// GetListing returns the summary of listing :id
func (h *InvoiceHandler) GetListing(c *gin.Context) {
	var uri dto.ListingURI
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	summary, err := h.service.Preview(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

func sendDocument(c *gin.Context, result *invoice.Result) {
	doc := result.Document
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	if result.Location != "" {
		c.Header(middleware.InvoiceLocationHeader, result.Location)
	}
	if result.IsDegraded() {
		c.Header(DegradedHeader, strings.Join(result.DegradedSteps(), ","))
	}
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}
