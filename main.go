package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"orderdesk-backend/backoffice"
	"orderdesk-backend/cache"
	"orderdesk-backend/cart"
	"orderdesk-backend/config"
	"orderdesk-backend/database"
	"orderdesk-backend/desk"
	"orderdesk-backend/logging"
	"orderdesk-backend/middleware"
	"orderdesk-backend/routes"
	"orderdesk-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatal("Error loading .env file:", err)
	}
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logger.Sync()

	// Validate critical environment variables
	if err := config.ValidateEnv(logger); err != nil {
		logger.Fatal("environment validation failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Audit log is optional
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	lookupCache, closeCache := newLookupCache(ctx, cfg, logger)
	defer closeCache()

	client, err := backoffice.New(backoffice.Config{
		BaseURL:  cfg.BackofficeURL,
		Timeout:  cfg.UpstreamTimeout,
		Cache:    lookupCache,
		CacheTTL: cfg.LookupCacheTTL,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("invalid back office configuration", zap.Error(err))
	}

	sessions := desk.NewStore(cart.Policy{
		NetDiscount:        cfg.NetDiscount,
		KeepPartialPayment: cfg.KeepPartialPayment,
	}, cfg.SessionIdleTTL)
	go sessions.RunSweeper(ctx, time.Minute, logger)

	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRateLimit, time.Minute)
	go submitLimiter.RunCleanup(ctx)

	utils.UseJSONFieldNames()

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(r, routes.Dependencies{
		DB:            db,
		Sessions:      sessions,
		Backoffice:    client,
		SubmitLimiter: submitLimiter,
		Log:           logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	if db != nil {
		if err := database.Close(db); err != nil {
			logger.Error("error closing database connection", zap.Error(err))
		} else {
			logger.Info("database connection closed")
		}
	}

	logger.Info("server exited gracefully")
}

// newLookupCache uses Redis when REDIS_ADDR is set and reachable, otherwise an
// in-process cache.
func newLookupCache(ctx context.Context, cfg config.Config, logger *zap.Logger) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-process lookup cache",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err))
		_ = rdb.Close()
		return cache.NewMemoryCache(), func() {}
	}

	return cache.NewRedisCache(rdb, "orderdesk"), func() {
		if err := rdb.Close(); err != nil {
			logger.Error("error closing redis client", zap.Error(err))
		}
	}
}
