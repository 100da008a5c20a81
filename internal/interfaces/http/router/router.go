// Package router assembles the gin engine of the invoice server.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garage/invoicer/internal/infrastructure/logger"
	"github.com/garage/invoicer/internal/infrastructure/telemetry"
	"github.com/garage/invoicer/internal/interfaces/http/dto"
	"github.com/garage/invoicer/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	root       []RouteRegistrar
	api        []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a registrar mounted under /api/{version}
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.api = append(r.api, registrar)
	return r
}

// RegisterRoot adds a registrar mounted at the engine root
func (r *Router) RegisterRoot(registrar RouteRegistrar) *Router {
	r.root = append(r.root, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	for _, registrar := range r.root {
		registrar.RegisterRoutes(&r.engine.RouterGroup)
	}

	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.api {
		registrar.RegisterRoutes(api)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})
}

// EngineConfig holds the middleware settings of the engine
type EngineConfig struct {
	Logger         *zap.Logger
	Metrics        *telemetry.Metrics
	MetricsPath    string
	Tracing        middleware.TracingConfig
	CORS           middleware.CORSConfig
	TrustedProxies []string
}

// NewEngine creates a gin engine with the standard middleware chain:
// recovery, request id, tracing, request logging, metrics and CORS. The
// metrics endpoint is mounted when both Metrics and MetricsPath are set.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing)...)
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(cfg.Metrics))
	engine.Use(middleware.CORS(cfg.CORS))

	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		engine.GET(cfg.MetricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}
	return engine, nil
}
