package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/garage/invoicer/internal/infrastructure/config"
	"github.com/garage/invoicer/internal/infrastructure/telemetry"
	"github.com/garage/invoicer/internal/interfaces/http/handler"
	"github.com/garage/invoicer/internal/interfaces/http/middleware"
	"github.com/garage/invoicer/internal/interfaces/http/router"
)

const shutdownTimeout = 30 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Override the configured listen port",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if port := c.String("port"); port != "" {
		cfg.HTTP.Port = port
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting invoicer",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("storage", cfg.Storage.Driver),
	)

	tp, err := telemetry.NewTracerProvider(c.Context, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		metrics = telemetry.NewMetrics(telemetry.MetricsConfig{
			Namespace:         cfg.Metrics.Namespace,
			RuntimeCollectors: true,
		})
	}

	comp, err := buildComponents(c.Context, cfg, metrics, log)
	if err != nil {
		return err
	}
	defer comp.Close()

	engine, err := newServerEngine(cfg, comp, metrics, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		log.Error("Failed to start server", zap.Error(err))
		return err
	case <-quit:
	case <-c.Context.Done():
	}
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	log.Info("Server exited gracefully")
	return nil
}

// newServerEngine builds the gin engine with the page, API, health and
// metrics routes
func newServerEngine(cfg *config.Config, comp *components, metrics *telemetry.Metrics, log *zap.Logger) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:      log,
		Metrics:     metrics,
		MetricsPath: metricsPath,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		CORS:           cors,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	})
	if err != nil {
		return nil, err
	}

	engine.GET("/health", handler.NewHealthHandler(version).Health)

	router.NewRouter(engine).
		RegisterRoot(handler.NewPageHandler(comp.service)).
		Register(handler.NewInvoiceHandler(comp.service)).
		Setup()
	return engine, nil
}
