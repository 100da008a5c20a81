package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/garage/invoicer/internal/infrastructure/telemetry"
	"github.com/garage/invoicer/internal/interfaces/http/dto"
	"github.com/garage/invoicer/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

func ping(path string) registrarFunc {
	return func(rg *gin.RouterGroup) {
		rg.GET(path, func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	}
}

func serve(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.api)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).
		RegisterRoot(ping("/ping")).
		Register(ping("/ping")).
		Setup()

	assert.Equal(t, "pong", serve(engine, "/ping").Body.String())
	assert.Equal(t, "pong", serve(engine, "/api/v1/ping").Body.String())

	w := serve(engine, "/api/v1/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestNewEngine(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := telemetry.NewMetrics(telemetry.MetricsConfig{})

	engine, err := NewEngine(EngineConfig{
		Logger:      zap.New(core),
		Metrics:     metrics,
		MetricsPath: "/metrics",
		CORS:        middleware.DefaultCORSConfig(),
	})
	require.NoError(t, err)
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(engine, "/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(engine, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())

	w = serve(engine, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "invoicer_http_requests_total"))
	assert.GreaterOrEqual(t, logs.FilterMessage("HTTP Request").Len(), 1)
}

func TestNewEngine_InvalidProxy(t *testing.T) {
	_, err := NewEngine(EngineConfig{TrustedProxies: []string{"not-an-ip"}})
	assert.Error(t, err)
}
