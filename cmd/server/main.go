package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/tms/backend/internal/application/document"
	"github.com/tms/backend/internal/bootstrap"
	"github.com/tms/backend/internal/infrastructure/auth"
	"github.com/tms/backend/internal/infrastructure/cache"
	"github.com/tms/backend/internal/infrastructure/config"
	"github.com/tms/backend/internal/infrastructure/event"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/infrastructure/persistence"
	"github.com/tms/backend/internal/infrastructure/printing"
	"github.com/tms/backend/internal/infrastructure/storage"
	"github.com/tms/backend/internal/infrastructure/telemetry"
	"github.com/tms/backend/internal/interfaces/http/middleware"
	"github.com/tms/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/tms/backend/docs"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			TMS Backend API
//	@version		1.0
//	@description	Multi-tenant container freight and warehouse management API
//	@BasePath		/api

//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						tms_session

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}"

func main() {
	// the watcher can fire before the logger exists
	var level atomic.Pointer[zap.AtomicLevel]
	cfg, err := config.LoadAndWatch(func(next *config.Config, err error) {
		lvl := level.Load()
		if err != nil || lvl == nil {
			return
		}
		_ = logger.SetLevel(*lvl, next.Log.Level)
	})
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OTLP log export is teed into the zap core, so the provider comes first
	logs, err := telemetry.NewLoggerProvider(ctx, otelConfig(cfg), zap.NewNop())
	if err != nil {
		panic("Failed to initialize log exporter: " + err.Error())
	}
	log, lvl := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		LoggerProvider: logs,
		Level:          zapcore.InfoLevel,
	}))
	level.Store(&lvl)
	defer func() { _ = log.Sync() }()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info("Starting TMS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		shutdownLogs(logs, log)
		os.Exit(1)
	}
	shutdownLogs(logs, log)
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	otelCfg := otelConfig(cfg)
	tracer, err := telemetry.NewTracerProvider(ctx, otelCfg, log)
	if err != nil {
		return err
	}
	defer shutdown(log, "tracer", tracer.Shutdown)

	meters, err := telemetry.NewMeterProvider(ctx, otelCfg, log)
	if err != nil {
		return err
	}
	defer shutdown(log, "meter", meters.Shutdown)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeURL,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		return err
	}
	defer func() { _ = profiler.Stop() }()
	if cfg.Telemetry.ProfilingEnabled && tracer.IsEnabled() {
		if err := tracer.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles unavailable", zap.Error(err))
		}
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:            cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:         cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:           "postgresql",
	}, log); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meters, telemetry.DefaultDBMetricsConfig(), log)
	if err != nil {
		log.Warn("Database metrics unavailable", zap.Error(err))
	} else if dbMetrics != nil {
		defer dbMetrics.Stop()
		dbMetrics.StartPoolStatsCollection(ctx)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory session blacklist and tenant cache", zap.Error(err))
			redisClient = nil
		} else {
			defer func() { _ = redisClient.Close() }()
		}
	}
	blacklist := auth.NewTokenBlacklist(redisClient)
	tenantCache := cache.NewTenantCache(redisClient, log)

	store, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}

	var pdf document.PDFRenderer
	if cfg.Documents.ChromeEnabled {
		renderer := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Documents.RenderTimeout,
			ExecPath:       cfg.Documents.ChromePath,
			NoSandbox:      true,
			Logger:         log,
		})
		defer func() { _ = renderer.Close() }()
		pdf = renderer
	}

	bus := event.NewInMemoryEventBus(log)
	prom := telemetry.NewPrometheusCollector("tms")
	business, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:              meters.Meter("tms-backend/business"),
		Logger:             log,
		OperationsProvider: telemetry.NewGormOperationsMetricsProvider(db.DB),
		Prometheus:         prom,
	})
	if err != nil {
		return err
	}
	bus.Subscribe(business)
	business.StartPeriodicCollection(ctx, telemetry.NewGormTenantProvider(db.DB), 5*time.Minute)
	defer business.Stop()

	services := bootstrap.NewServices(bootstrap.Infrastructure{
		DB:          db.DB,
		Bus:         bus,
		JWT:         auth.NewJWTService(cfg.JWT),
		Blacklist:   blacklist,
		TenantCache: tenantCache,
		Storage:     store,
		HTML:        printing.NewTemplateEngine(),
		PDF:         pdf,
		Logger:      log,
	}, bootstrap.SettingsFromConfig(cfg))
	if err := bus.Start(ctx); err != nil {
		return err
	}
	defer shutdown(log, "event bus", bus.Stop)

	if err := middleware.SetupValidator(); err != nil {
		return err
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitBurst)
		go limiter.Cleanup(ctx, time.Minute)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction() && cfg.Cookie.Secure

	engine := router.NewEngine(router.EngineConfig{
		Logger:           log,
		TrustedProxies:   cfg.HTTP.TrustedProxies,
		Tracing:          middleware.TracingConfig{ServiceName: cfg.Telemetry.ServiceName, Enabled: cfg.Telemetry.Enabled},
		Meters:           meters,
		Profiling:        cfg.Telemetry.ProfilingEnabled,
		Security:         security,
		CORS:             cors,
		MaxBodySize:      cfg.HTTP.MaxBodySize,
		RateLimiter:      limiter,
		TenantResolver:   services.Tenant,
		BaseDomain:       cfg.Tenancy.BaseDomain,
		AllowIDHeader:    cfg.Tenancy.AllowIDHeader,
		SessionValidator: services.Auth,
		CookieName:       cfg.Cookie.Name,
		Swagger:          middleware.SwaggerConfig{Enabled: cfg.Swagger.Enabled, AllowedIPs: cfg.Swagger.AllowedIPs},
		MetricsHandler:   prom.Handler(),
	}, services.Handlers(bootstrap.HandlerOptions{
		Cookie:  cfg.Cookie,
		AppName: cfg.App.Name,
		Version: version,
		DB:      db,
	}))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server exited gracefully")
	return nil
}

func otelConfig(cfg *config.Config) telemetry.Config {
	return telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
	}
}

// shutdown runs fn with a fresh deadline; the serving context is already
// cancelled when deferred shutdowns run
func shutdown(log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("Shutdown failed", zap.String("component", name), zap.Error(err))
	}
}

func shutdownLogs(logs *telemetry.LoggerProvider, log *zap.Logger) {
	_ = log.Sync()
	shutdown(log, "log exporter", logs.Shutdown)
}
