package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/garage/invoicer/internal/application/invoice"
	"github.com/garage/invoicer/internal/infrastructure/config"
	"github.com/garage/invoicer/internal/infrastructure/garage"
	"github.com/garage/invoicer/internal/infrastructure/imaging"
	"github.com/garage/invoicer/internal/infrastructure/logger"
	infra "github.com/garage/invoicer/internal/infrastructure/printing"
	"github.com/garage/invoicer/internal/infrastructure/storage"
	"github.com/garage/invoicer/internal/infrastructure/telemetry"
)

// loadConfig reads the configuration named by the global --config flag and
// applies the --log-level override
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
}

// components is the wired invoice pipeline
type components struct {
	service *invoice.Service
	storage infra.DocumentStorage
	closers []func() error
}

// Close releases the browser and other long lived resources
func (c *components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
}

// buildComponents wires the listing client, image loader, renderer and the
// document sink selected by cfg.Storage.Driver. metrics may be nil.
func buildComponents(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics, log *zap.Logger) (*components, error) {
	comp := &components{}

	source := garage.NewClient(garage.Config{
		BaseURL:   cfg.Garage.BaseURL,
		Timeout:   cfg.Garage.Timeout,
		UserAgent: cfg.Garage.UserAgent,
	}, garage.WithLogger(log.Named("garage")))

	loaderOpts := []imaging.LoaderOption{imaging.WithLogger(log.Named("imaging"))}
	if cfg.Renderer.SVGRasterizer == config.RasterizerChromedp {
		rasterizer := imaging.NewChromeRasterizer(&imaging.ChromeRasterizerConfig{
			Timeout:   cfg.Renderer.Timeout,
			RemoteURL: cfg.Renderer.ChromeRemoteURL,
			ExecPath:  cfg.Renderer.ChromePath,
			NoSandbox: cfg.Renderer.NoSandbox,
			Logger:    log.Named("chrome"),
		})
		comp.closers = append(comp.closers, rasterizer.Close)
		loaderOpts = append(loaderOpts, imaging.WithRasterizer(rasterizer))
	}
	images := imaging.NewLoader(imaging.Config{
		Timeout:     cfg.Garage.Timeout,
		UserAgent:   cfg.Garage.UserAgent,
		JPEGQuality: cfg.Renderer.JPEGQuality,
		SVGWidth:    cfg.Renderer.LogoPixelWidth,
		SVGHeight:   cfg.Renderer.LogoPixelHeight,
	}, loaderOpts...)

	renderer := infra.NewPDFRenderer(&infra.RendererConfig{
		PaperSize:   cfg.Renderer.PaperSizeValue(),
		Compression: cfg.Renderer.Compression,
		Creator:     cfg.Renderer.Creator,
	}, log.Named("renderer"))

	sink, err := newStorage(ctx, &cfg.Storage, log.Named("storage"))
	if err != nil {
		comp.Close()
		return nil, err
	}
	comp.storage = sink

	comp.service = invoice.NewService(source, images, renderer, sink, invoice.Options{
		LogoURL:     cfg.Invoice.LogoURL,
		LogoEnabled: cfg.Invoice.LogoEnabled,
	}, metrics, log.Named("invoice"))
	return comp, nil
}

// newStorage returns the document sink of the configured driver, or nil for
// the none driver
func newStorage(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (infra.DocumentStorage, error) {
	switch cfg.Driver {
	case config.StorageNone:
		return nil, nil
	case config.StorageFileSystem:
		fs, err := infra.NewFileSystemStorage(&infra.FileSystemStorageConfig{
			BasePath:  cfg.BasePath,
			Overwrite: cfg.Overwrite,
			Logger:    log,
		})
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.StorageS3:
		s3, err := storage.NewS3DocumentStorage(ctx, cfg, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		if cfg.CreateBucket {
			if err := s3.EnsureBucket(ctx); err != nil {
				return nil, err
			}
		}
		return s3, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
