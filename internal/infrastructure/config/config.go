package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/garage/invoicer/internal/domain/printing"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	Garage    GarageConfig
	Invoice   InvoiceConfig
	Renderer  RendererConfig
	Storage   StorageConfig
	HTTP      HTTPConfig
	Telemetry TelemetryConfig
	Metrics   MetricsConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// GarageConfig holds the listings API client settings
type GarageConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// InvoiceConfig holds invoice content settings
type InvoiceConfig struct {
	LogoURL     string
	LogoEnabled bool
}

// RendererConfig holds PDF rendering and image settings
type RendererConfig struct {
	PaperSize   string
	Compression bool
	Creator     string
	JPEGQuality int
	// SVGRasterizer selects how SVG images are rasterized: chromedp or none
	SVGRasterizer   string
	ChromeRemoteURL string // DevTools websocket URL; empty launches a local browser
	ChromePath      string
	NoSandbox       bool
	Timeout         time.Duration
	LogoPixelWidth  int
	LogoPixelHeight int
}

// StorageConfig holds document sink settings
type StorageConfig struct {
	Driver        string // filesystem, s3, none
	BasePath      string
	Overwrite     bool
	Bucket        string
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	Prefix        string
	PresignExpiry time.Duration
	CreateBucket  bool
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTLP gRPC endpoint, e.g. localhost:4317
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool
}

// MetricsConfig holds Prometheus metrics configuration
type MetricsConfig struct {
	Enabled   bool
	Path      string
	Namespace string
}

// Storage drivers
const (
	StorageFileSystem = "filesystem"
	StorageS3         = "s3"
	StorageNone       = "none"
)

// SVG rasterizers
const (
	RasterizerChromedp = "chromedp"
	RasterizerNone     = "none"
)

// EnvPrefix is the prefix of environment overrides, e.g. INVOICE_GARAGE_BASE_URL
const EnvPrefix = "INVOICE"

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with INVOICE_ prefix
// 2. The file at path, or config.toml found in ., ./config or /etc/invoicer
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	setBoolDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/invoicer")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Garage: GarageConfig{
			BaseURL:   v.GetString("garage.base_url"),
			Timeout:   v.GetDuration("garage.timeout"),
			UserAgent: v.GetString("garage.user_agent"),
		},
		Invoice: InvoiceConfig{
			LogoURL:     v.GetString("invoice.logo_url"),
			LogoEnabled: v.GetBool("invoice.logo_enabled"),
		},
		Renderer: RendererConfig{
			PaperSize:       v.GetString("renderer.paper_size"),
			Compression:     v.GetBool("renderer.compression"),
			Creator:         v.GetString("renderer.creator"),
			JPEGQuality:     v.GetInt("renderer.jpeg_quality"),
			SVGRasterizer:   v.GetString("renderer.svg_rasterizer"),
			ChromeRemoteURL: v.GetString("renderer.chrome_remote_url"),
			ChromePath:      v.GetString("renderer.chrome_path"),
			NoSandbox:       v.GetBool("renderer.no_sandbox"),
			Timeout:         v.GetDuration("renderer.timeout"),
			LogoPixelWidth:  v.GetInt("renderer.logo_pixel_width"),
			LogoPixelHeight: v.GetInt("renderer.logo_pixel_height"),
		},
		Storage: StorageConfig{
			Driver:        v.GetString("storage.driver"),
			BasePath:      v.GetString("storage.base_path"),
			Overwrite:     v.GetBool("storage.overwrite"),
			Bucket:        v.GetString("storage.bucket"),
			Endpoint:      v.GetString("storage.endpoint"),
			Region:        v.GetString("storage.region"),
			AccessKey:     v.GetString("storage.access_key"),
			SecretKey:     v.GetString("storage.secret_key"),
			UsePathStyle:  v.GetBool("storage.use_path_style"),
			Prefix:        v.GetString("storage.prefix"),
			PresignExpiry: v.GetDuration("storage.presign_expiry"),
			CreateBucket:  v.GetBool("storage.create_bucket"),
		},
		HTTP: HTTPConfig{
			Port:             v.GetString("http.port"),
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
		},
		Metrics: MetricsConfig{
			Enabled:   v.GetBool("metrics.enabled"),
			Path:      v.GetString("metrics.path"),
			Namespace: v.GetString("metrics.namespace"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	cfg := &Config{
		Invoice:  InvoiceConfig{LogoEnabled: true},
		Renderer: RendererConfig{Compression: true},
		Metrics:  MetricsConfig{Enabled: true},
	}
	applyDefaults(cfg)
	return cfg
}

// setBoolDefaults registers the booleans whose default is true. A zero
// value cannot be told apart from "unset" after loading.
func setBoolDefaults(v *viper.Viper) {
	v.SetDefault("invoice.logo_enabled", true)
	v.SetDefault("renderer.compression", true)
	v.SetDefault("metrics.enabled", true)
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "invoicer"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Garage.BaseURL == "" {
		cfg.Garage.BaseURL = "https://garage-backend.onrender.com"
	}
	if cfg.Garage.Timeout == 0 {
		cfg.Garage.Timeout = 30 * time.Second
	}
	if cfg.Garage.UserAgent == "" {
		cfg.Garage.UserAgent = "invoicer/1.0"
	}
	if cfg.Invoice.LogoURL == "" {
		cfg.Invoice.LogoURL = "https://www.shopgarage.com/logos/garage/garage-logo.svg"
	}
	if cfg.Renderer.PaperSize == "" {
		cfg.Renderer.PaperSize = string(printing.PaperSizeA4)
	}
	if cfg.Renderer.Creator == "" {
		cfg.Renderer.Creator = "invoicer"
	}
	if cfg.Renderer.JPEGQuality == 0 {
		cfg.Renderer.JPEGQuality = 85
	}
	if cfg.Renderer.SVGRasterizer == "" {
		cfg.Renderer.SVGRasterizer = RasterizerChromedp
	}
	if cfg.Renderer.Timeout == 0 {
		cfg.Renderer.Timeout = 30 * time.Second
	}
	if cfg.Renderer.LogoPixelWidth == 0 {
		cfg.Renderer.LogoPixelWidth = 500
	}
	if cfg.Renderer.LogoPixelHeight == 0 {
		cfg.Renderer.LogoPixelHeight = 120
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageFileSystem
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "."
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.Prefix == "" {
		cfg.Storage.Prefix = "invoices"
	}
	if cfg.Storage.PresignExpiry == 0 {
		cfg.Storage.PresignExpiry = 24 * time.Hour
	}
	if cfg.HTTP.Port == "" {
		cfg.HTTP.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// Rendering waits on remote fetches, so writes get more room than reads
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "invoicer"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "invoicer"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	u, err := url.Parse(c.Garage.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("garage.base_url must be an absolute http(s) URL, got %q", c.Garage.BaseURL)
	}
	if c.Garage.Timeout < 0 {
		return fmt.Errorf("garage.timeout cannot be negative")
	}
	if !printing.PaperSize(strings.ToUpper(c.Renderer.PaperSize)).IsValid() {
		return fmt.Errorf("renderer.paper_size must be A4 or LETTER, got %q", c.Renderer.PaperSize)
	}
	if c.Renderer.JPEGQuality < 1 || c.Renderer.JPEGQuality > 100 {
		return fmt.Errorf("renderer.jpeg_quality must be between 1 and 100, got %d", c.Renderer.JPEGQuality)
	}
	switch c.Renderer.SVGRasterizer {
	case RasterizerChromedp, RasterizerNone:
	default:
		return fmt.Errorf("renderer.svg_rasterizer must be chromedp or none, got %q", c.Renderer.SVGRasterizer)
	}

	switch c.Storage.Driver {
	case StorageFileSystem, StorageNone:
	case StorageS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage.driver must be filesystem, s3 or none, got %q", c.Storage.Driver)
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	return nil
}

// PaperSizeValue returns the configured paper size
func (r RendererConfig) PaperSizeValue() printing.PaperSize {
	return printing.PaperSize(strings.ToUpper(r.PaperSize))
}
