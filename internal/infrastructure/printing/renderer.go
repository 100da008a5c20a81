package printing

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/garage/invoicer/internal/domain/printing"
)

// DocumentRenderer turns invoice input into a finished PDF document
type DocumentRenderer interface {
	// Render lays out the invoice and returns the PDF bytes
	Render(ctx context.Context, in *RenderInput) (*printing.Document, error)
}

// RendererConfig configures PDFRenderer
type RendererConfig struct {
	// PaperSize is the output page size. Default: A4
	PaperSize printing.PaperSize
	// Compression enables stream compression in the PDF output
	Compression bool
	// Creator is written to the document metadata
	Creator string
}

// DefaultRendererConfig returns the renderer defaults
func DefaultRendererConfig() *RendererConfig {
	return &RendererConfig{
		PaperSize:   printing.PaperSizeA4,
		Compression: true,
		Creator:     "invoicer",
	}
}

// PDFRenderer renders invoices with FpdfCanvas. Each call uses a fresh
// canvas, so a renderer is safe for concurrent use.
type PDFRenderer struct {
	config *RendererConfig
	logger *zap.Logger
}

// NewPDFRenderer creates a new PDFRenderer
func NewPDFRenderer(config *RendererConfig, logger *zap.Logger) *PDFRenderer {
	if config == nil {
		config = DefaultRendererConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFRenderer{config: config, logger: logger}
}

// Render implements DocumentRenderer. Output is a pure function of the
// input: document dates come from the listing's update timestamp.
func (r *PDFRenderer) Render(ctx context.Context, in *RenderInput) (*printing.Document, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeRenderFailed, "operation cancelled", ctx.Err())
	default:
	}
	if in == nil || in.Listing == nil {
		return nil, NewRenderError(ErrCodeInvalidInput, "listing is required", nil)
	}

	start := time.Now()
	l := in.Listing
	ts, ok := ParseTimestamp(l.UpdatedAt)
	if !ok {
		ts = time.Unix(0, 0).UTC()
	}

	cv := NewFpdfCanvas(FpdfCanvasOptions{
		PaperSize:   r.config.PaperSize,
		Title:       "Invoice " + l.DisplayID(),
		Creator:     r.config.Creator,
		Timestamp:   ts,
		Compression: r.config.Compression,
	})
	LayoutInvoice(cv, in)
	if err := cv.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to lay out invoice", err)
	}

	var buf bytes.Buffer
	if err := cv.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to write PDF", err)
	}

	doc := &printing.Document{
		Filename:  l.InvoiceFilename(),
		Data:      buf.Bytes(),
		PageCount: cv.PageCount(),
	}

	r.logger.Debug("invoice rendered",
		zap.String("listing_id", l.ID),
		zap.String("filename", doc.Filename),
		zap.Int("pages", doc.PageCount),
		zap.Int64("size", doc.Size()),
		zap.Duration("duration", time.Since(start)))

	return doc, nil
}

// RenderError represents an error while rendering or storing a document
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering and storage failures
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidInput  = "INVALID_RENDER_INPUT"
	ErrCodeStorageFailed = "STORAGE_FAILED"
	ErrCodeExtractFailed = "EXTRACT_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Ensure PDFRenderer implements DocumentRenderer
var _ DocumentRenderer = (*PDFRenderer)(nil)
