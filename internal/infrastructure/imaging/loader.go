// Package imaging fetches remote images and prepares them for embedding in
// generated documents.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/garage/invoicer/internal/domain/printing"
	"github.com/garage/invoicer/internal/domain/shared"
	"github.com/garage/invoicer/internal/infrastructure/telemetry"
)

// DefaultJPEGQuality is the quality used when re-encoding photos
const DefaultJPEGQuality = 85

// Config holds loader settings
type Config struct {
	Timeout     time.Duration
	UserAgent   string
	JPEGQuality int
	// SVGWidth and SVGHeight are the pixel size SVG sources are rasterized at
	SVGWidth  int
	SVGHeight int
}

// Loader downloads images and re-encodes them to the requested format
type Loader struct {
	http       *resty.Client
	rasterizer Rasterizer
	config     Config
	logger     *zap.Logger
}

// LoaderOption is a functional option for configuring Loader
type LoaderOption func(*Loader)

// WithLogger sets a custom logger for Loader
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithRasterizer enables SVG sources
func WithRasterizer(r Rasterizer) LoaderOption {
	return func(l *Loader) {
		l.rasterizer = r
	}
}

// Soft failure causes
var (
	ErrNoURL          = errors.New("image url is empty")
	ErrSVGUnsupported = errors.New("svg image requires a rasterizer")
	ErrInvalidFormat  = errors.New("unsupported target image format")
)

// NewLoader creates a new image loader
func NewLoader(cfg Config, opts ...LoaderOption) *Loader {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "invoicer/1.0"
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = DefaultJPEGQuality
	}
	if cfg.SVGWidth <= 0 {
		cfg.SVGWidth = 500
	}
	if cfg.SVGHeight <= 0 {
		cfg.SVGHeight = 120
	}

	l := &Loader{config: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}

	l.http = resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetLogger(l.logger.Sugar())
	return l
}

// Load fetches the image at rawURL and re-encodes it as format. Any failure
// yields a nil image with the cause in Err.
func (l *Loader) Load(ctx context.Context, rawURL string, format printing.ImageFormat) shared.SoftResult[*printing.Image] {
	if rawURL == "" {
		return shared.Fallback[*printing.Image](nil, ErrNoURL)
	}
	if !format.IsValid() {
		return shared.Fallback[*printing.Image](nil, ErrInvalidFormat)
	}

	ctx, span := telemetry.StartSpan(ctx, "imaging.load",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrImageURL, rawURL))
	defer span.End()

	fail := func(err error) shared.SoftResult[*printing.Image] {
		telemetry.RecordError(span, err)
		l.logger.Debug("image load failed", zap.String("url", rawURL), zap.Error(err))
		return shared.Fallback[*printing.Image](nil, err)
	}

	resp, err := l.http.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return fail(fmt.Errorf("failed to fetch image: %w", err))
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrHTTPStatus, resp.StatusCode())
	if !resp.IsSuccess() {
		return fail(fmt.Errorf("failed to fetch image: status %d", resp.StatusCode()))
	}

	data := resp.Body()
	if isSVG(resp.Header().Get("Content-Type"), rawURL, data) {
		if l.rasterizer == nil {
			return fail(ErrSVGUnsupported)
		}
		data, err = l.rasterizer.Rasterize(ctx, data, l.config.SVGWidth, l.config.SVGHeight)
		if err != nil {
			return fail(fmt.Errorf("failed to rasterize svg: %w", err))
		}
	}

	img, err := Transcode(data, format, l.config.JPEGQuality)
	if err != nil {
		return fail(err)
	}

	l.logger.Debug("image loaded",
		zap.String("url", rawURL),
		zap.String("format", string(format)),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height))
	telemetry.SetOK(span)
	return shared.Ok(img)
}

func isSVG(contentType, rawURL string, data []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "image/svg+xml") {
		return true
	}
	if u, err := url.Parse(rawURL); err == nil && strings.EqualFold(path.Ext(u.Path), ".svg") {
		return true
	}
	head := bytes.TrimSpace(data)
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<svg")) ||
		(bytes.HasPrefix(head, []byte("<?xml")) && bytes.Contains(head, []byte("<svg")))
}
