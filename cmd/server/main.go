package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	payrollapp "github.com/hrms/backend/internal/application/payroll"
	recruitmentapp "github.com/hrms/backend/internal/application/recruitment"
	"github.com/hrms/backend/internal/infrastructure/auth"
	"github.com/hrms/backend/internal/infrastructure/cache"
	"github.com/hrms/backend/internal/infrastructure/config"
	"github.com/hrms/backend/internal/infrastructure/logger"
	"github.com/hrms/backend/internal/infrastructure/persistence"
	"github.com/hrms/backend/internal/interfaces/http/handler"
	"github.com/hrms/backend/internal/interfaces/http/middleware"
	"github.com/hrms/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	cacheFactory := cache.NewCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.Cache.AllowInMemoryFallback))

	stageListCache, err := cacheFactory.CreateStageListCache()
	if err != nil {
		log.Fatal("failed to create stage list cache", zap.Error(err))
	}
	defer func() { _ = stageListCache.Close() }()

	typeRegistryCache, err := cacheFactory.CreateTypeRegistryCache()
	if err != nil {
		log.Fatal("failed to create type registry cache", zap.Error(err))
	}
	defer func() { _ = typeRegistryCache.Close() }()

	// Repositories
	stageRepo := persistence.NewGormStageRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	compensationRepo := persistence.NewGormCompensationRepository(db.DB)

	// Application services
	sequenceScope := persistence.NewGormSequenceScope(db.DB)
	stageService := recruitmentapp.NewStageService(sequenceScope, stageRepo, stageListCache, cfg.Cache.StageListTTL, log)
	compensationService := payrollapp.NewCompensationService(compensationRepo, employeeRepo, typeRegistryCache, log)

	// Handlers
	stageHandler := handler.NewStageHandler(stageService)
	payrollHandler := handler.NewPayrollHandler(compensationService)
	systemHandler := handler.NewSystemHandler()

	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist, err := cacheFactory.CreateTokenBlacklist()
	if err != nil {
		log.Fatal("failed to create token blacklist", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
		AllowMethods:  cfg.HTTP.CORSAllowMethods,
		AllowHeaders:  append(cfg.HTTP.CORSAllowHeaders, middleware.OrganizationHeaderKey),
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(int64(cfg.HTTP.MaxHeaderBytes)))
	engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateLimitWindow)))

	engine.GET("/health", healthHandler(db, log))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	engine.Use(middleware.OrganizationMiddlewareWithConfig(middleware.OrganizationMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		Required:      false,
		SkipPaths:     jwtConfig.SkipPaths,
		Logger:        log,
	}))

	recruitmentGroup := router.NewDomainGroup("recruitment", "/recruitment")
	recruitmentGroup.
		POST("/stages", stageHandler.Create).
		GET("/stages", stageHandler.List).
		PATCH("/stages/:id", stageHandler.Rename).
		PATCH("/stages/:id/priority", stageHandler.Move).
		DELETE("/stages/:id", stageHandler.Delete)

	payrollGroup := router.NewDomainGroup("payroll", "/payroll")
	payrollGroup.
		PUT("/employees/:id/compensations", payrollHandler.SaveCompensations).
		GET("/employees/:id/compensations", payrollHandler.GetEmployeePayroll).
		GET("/compensations/matrix", payrollHandler.GetMatrix)

	systemGroup := router.NewDomainGroup("system", "/system")
	systemGroup.GET("/info", systemHandler.GetSystemInfo)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(recruitmentGroup).
		Register(payrollGroup).
		Register(systemGroup)
	r.Setup()

	engine.GET("/api/v1/ping", systemHandler.Ping)

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		body := gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}
		if stats, err := db.Stats(); err == nil {
			body["pool"] = gin.H{
				"open":   stats.OpenConnections,
				"in_use": stats.InUse,
				"idle":   stats.Idle,
				"waited": stats.WaitCount,
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
