package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/garage/invoicer/internal/application/invoice"
	"github.com/garage/invoicer/internal/interfaces/http/dto"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData is the model of the form page
type pageData struct {
	URL     string
	Error   string
	Summary *invoice.Summary
}

// PageHandler serves the browser form for generating invoices
type PageHandler struct {
	BaseHandler
	service InvoiceService
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(service InvoiceService) *PageHandler {
	return &PageHandler{service: service}
}

// RegisterRoutes registers the page routes on the engine root
func (h *PageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Index)
	rg.GET("/preview", h.Preview)
	rg.GET("/invoice", h.Download)
}

// Index renders the empty form
func (h *PageHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, pageData{})
}

// Preview fetches the listing in the url parameter and shows its details
// with a download link
func (h *PageHandler) Preview(c *gin.Context) {
	url := strings.TrimSpace(c.Query("url"))
	summary, err := h.service.Preview(c.Request.Context(), url)
	if err != nil {
		h.renderError(c, url, err)
		return
	}
	h.render(c, http.StatusOK, pageData{URL: url, Summary: summary})
}

// Download sends the invoice of the listing in the url parameter, or
// re-renders the form with the failure message
func (h *PageHandler) Download(c *gin.Context) {
	url := strings.TrimSpace(c.Query("url"))
	result, err := h.service.GenerateFromText(c.Request.Context(), url)
	if err != nil {
		h.renderError(c, url, err)
		return
	}
	sendDocument(c, result)
}

func (h *PageHandler) renderError(c *gin.Context, url string, err error) {
	code, message := dto.ErrorCode(err)
	_ = c.Error(err)
	h.render(c, dto.GetHTTPStatus(code), pageData{URL: url, Error: message})
}

func (h *PageHandler) render(c *gin.Context, status int, data pageData) {
	c.Render(status, render.HTML{Template: pageTemplate, Name: "index.html", Data: data})
}
