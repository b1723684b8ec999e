package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/infrastructure/telemetry"
	"github.com/tms/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// EngineConfig holds everything the HTTP engine is assembled from
type EngineConfig struct {
	Logger         *zap.Logger
	TrustedProxies []string
	APIVersion     string

	Tracing   middleware.TracingConfig
	Meters    *telemetry.MeterProvider
	Profiling bool

	Security    middleware.SecurityConfig
	CORS        middleware.CORSConfig
	MaxBodySize int64
	// RateLimiter is nil when rate limiting is off
	RateLimiter *middleware.RateLimiter

	TenantResolver   middleware.TenantResolver
	BaseDomain       string
	AllowIDHeader    bool
	SessionValidator middleware.SessionValidator
	CookieName       string

	Swagger middleware.SwaggerConfig
	// MetricsHandler serves /metrics; nil leaves the route out
	MetricsHandler http.Handler
}

// NewEngine builds the gin engine. Middleware runs in this order: request ID,
// recovery, access log, tracing, security headers, CORS, body limit, rate
// limit, then tenant, session and per-route permission on the API.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.AccessLog(log))
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{MeterProvider: cfg.Meters, Enabled: cfg.Meters != nil}))
	engine.Use(middleware.SecureWithConfig(cfg.Security))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	engine.GET("/health", h.System.Health)
	if cfg.MetricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r := NewRouter(engine, WithAPIVersion(cfg.APIVersion))
	base := r.BasePath()
	r.Use(middleware.TenantMiddleware(middleware.TenantMiddlewareConfig{
		Resolver:      cfg.TenantResolver,
		BaseDomain:    cfg.BaseDomain,
		AllowIDHeader: cfg.AllowIDHeader,
		SkipPaths:     TenantlessPaths(base),
		Logger:        log,
	}))
	r.Use(middleware.Profiling(middleware.ProfilingConfig{Enabled: cfg.Profiling}))
	r.Use(middleware.SessionMiddleware(middleware.SessionMiddlewareConfig{
		Validator:  cfg.SessionValidator,
		CookieName: cfg.CookieName,
		SkipPaths:  SessionlessPaths(base),
		Logger:     log,
	}))
	for _, g := range DomainGroups(h) {
		r.Register(g)
		log.Debug("Route group registered", zap.String("group", g.Name()), zap.Strings("routes", g.Paths()))
	}
	r.Setup()

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found", "code": "NOT_FOUND"})
	})
	return engine
}
