package imaging

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Rasterizer turns an SVG document into a PNG of the given pixel size
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte, width, height int) ([]byte, error)
}

const defaultRasterizeTimeout = 15 * time.Second

// ErrRasterizeTimeout is returned when the browser does not finish in time
var ErrRasterizeTimeout = errors.New("svg rasterization timed out")

// ChromeRasterizerConfig contains configuration for ChromeRasterizer
type ChromeRasterizerConfig struct {
	// Timeout bounds a single rasterization
	Timeout time.Duration
	// RemoteURL is the devtools websocket of a running Chrome. When empty a
	// local browser is launched on first use.
	RemoteURL string
	// ExecPath overrides the Chrome binary lookup
	ExecPath string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	Logger    *zap.Logger
}

// ChromeRasterizer screenshots SVG images with headless Chrome on a
// transparent background
type ChromeRasterizer struct {
	config      *ChromeRasterizerConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeRasterizer creates a rasterizer backed by chromedp
func NewChromeRasterizer(config *ChromeRasterizerConfig) *ChromeRasterizer {
	if config == nil {
		config = &ChromeRasterizerConfig{}
	}
	if config.Timeout == 0 {
		config.Timeout = defaultRasterizeTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromeRasterizer{config: config, logger: logger}
	r.allocCtx, r.allocCancel = r.newAllocator()
	return r
}

func (r *ChromeRasterizer) newAllocator() (context.Context, context.CancelFunc) {
	if r.config.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	if r.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.config.ExecPath))
	}
	return chromedp.NewExecAllocator(context.Background(), opts...)
}

// Rasterize renders svg scaled to fit width x height pixels and returns PNG bytes
func (r *ChromeRasterizer) Rasterize(ctx context.Context, svg []byte, width, height int) ([]byte, error) {
	if len(svg) == 0 {
		return nil, errors.New("svg content is empty")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	runCtx, cancel := context.WithTimeout(browserCtx, r.config.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	html := svgPage(svg, width, height)
	var decoded bool
	var png []byte

	start := time.Now()
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		emulation.SetDefaultBackgroundColorOverride().WithColor(&cdp.RGBA{R: 0, G: 0, B: 0, A: 0}),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.Evaluate(`document.images[0].decode().then(() => true)`, &decoded,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, err := page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithClip(&page.Viewport{Width: float64(width), Height: float64(height), Scale: 1}).
				Do(ctx)
			if err != nil {
				return err
			}
			png = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w after %v: %v", ErrRasterizeTimeout, r.config.Timeout, err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to rasterize svg: %w", err)
	}

	r.logger.Debug("svg rasterized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("png_bytes", len(png)),
		zap.Duration("duration", time.Since(start)))
	return png, nil
}

// Close shuts down the browser allocator
func (r *ChromeRasterizer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func svgPage(svg []byte, width, height int) string {
	return fmt.Sprintf(`<!DOCTYPE html><html><head><style>`+
		`html,body{margin:0;padding:0;background:transparent;overflow:hidden}`+
		`img{display:block;width:%dpx;height:%dpx;object-fit:contain}`+
		`</style></head><body><img src="data:image/svg+xml;base64,%s"></body></html>`,
		width, height, base64.StdEncoding.EncodeToString(svg))
}

var _ Rasterizer = (*ChromeRasterizer)(nil)
