package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forsyth-county/learn/internal/auth"
	"github.com/forsyth-county/learn/internal/cache"
	"github.com/forsyth-county/learn/internal/config"
	"github.com/forsyth-county/learn/internal/handlers"
	"github.com/forsyth-county/learn/internal/metrics"
	"github.com/forsyth-county/learn/internal/ratelimit"
	"github.com/forsyth-county/learn/internal/repositories/postgres"
	"github.com/forsyth-county/learn/internal/services"
	"github.com/forsyth-county/learn/internal/utils"
	"github.com/forsyth-county/learn/internal/validator"
	"github.com/forsyth-county/learn/pkg"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logFile := pkg.NewLogFileWriter(cfg)
	if logFile != nil {
		defer logFile.Close()
	}

	logger := utils.NewLogger(cfg.Environment, logFile)
	slogger := utils.ToSlogLogger(logger)

	zapLogger := pkg.NewZapLogger(cfg, logFile)
	defer zapLogger.Sync()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		logger.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		// Redis is optional; fall back to in-process cache and limiter
		logger.Warn("Redis unavailable, continuing without it", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		os.Exit(1)
	}
	defer publisher.Close()

	authenticator, err := auth.NewAuthenticator(cfg.Auth)
	if err != nil {
		logger.LogError(err, "Failed to configure authentication")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appMetrics := metrics.New()
	publicLimiter, teacherLimiter := newLimiters(ctx, cfg, redisClient, zapLogger)

	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:      postgres.NewRepository(db),
		Cache:     newQuizCache(cfg, redisClient, zapLogger),
		Publisher: publisher,
		Validator: validator.New(),
		Hasher:    utils.NewIPHasher(cfg.IPHashSalt),
		Metrics:   appMetrics,
		Logger:    slogger,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ContextLogger(logger))
	router.Use(utils.LoggerMiddleware(logger))

	handlers.NewHandlerManager(serviceManager, logger).SetupRoutes(router, handlers.RouteOptions{
		Authenticator:  authenticator,
		PublicLimiter:  publicLimiter,
		TeacherLimiter: teacherLimiter,
		Metrics:        appMetrics,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Server shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Server stopped")
}

func newQuizCache(cfg *config.Config, client *redis.Client, logger *zap.Logger) cache.QuizCache {
	if client == nil {
		return cache.NopQuizCache{}
	}
	return cache.NewQuizCache(cache.NewRedisCache(client, logger), cfg.QuizCacheTTL, logger)
}

// newLimiters builds the public (per IP) and teacher (per user) limiters.
// The redis backend shares budgets across instances.
func newLimiters(ctx context.Context, cfg *config.Config, client *redis.Client, logger *zap.Logger) (ratelimit.Limiter, ratelimit.Limiter) {
	rl := cfg.RateLimit
	if rl.Backend == "redis" && client != nil {
		return ratelimit.NewRedisLimiter(client, rl.PublicLimit, rl.Window, "public", logger),
			ratelimit.NewRedisLimiter(client, rl.TeacherLimit, rl.Window, "teacher", logger)
	}
	if rl.Backend == "redis" {
		logger.Warn("Redis rate limiting requested without redis, using in-memory limiter")
	}

	public := ratelimit.NewMemoryLimiter(rl.PublicLimit, rl.Window)
	teacher := ratelimit.NewMemoryLimiter(rl.TeacherLimit, rl.Window)
	public.StartCleanup(ctx)
	teacher.StartCleanup(ctx)
	return public, teacher
}
