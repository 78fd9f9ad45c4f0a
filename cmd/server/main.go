package main

import (
	"context"                     // Startup and shutdown contexts
	"errors"                      // Server close detection
	"net/http"                    // HTTP server
	"os"                          // Signals
	"os/signal"                   // Signal notification
	"syscall"                     // SIGTERM
	"time"                        // Shutdown grace period
	"token_swipe/internal/api"    // Custom package for API handlers
	"token_swipe/internal/cache"  // Redis catalog cache and cursor store
	"token_swipe/internal/config" // Custom package for configuration
	"token_swipe/internal/db"     // Database connection and migration
	"token_swipe/internal/store/gormstore"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.MustLoad() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	spend, err := cfg.DefaultSpend() // Validated by LoadConfig
	if err != nil {
		logrus.Fatalf("invalid default buy amount: %v", err)
	}

	// Connect to the database, retrying while it starts up
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.ConnectTimeout)
	conn, err := db.Open(ctx, cfg.DB)
	cancel()
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	defer func() { _ = db.Close(conn) }()
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr, // Redis server address
		Password: cfg.Redis.Pass, // Redis password
		DB:       cfg.Redis.DB,   // Redis database number
	})
	defer redisClient.Close()

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	repo := gormstore.New(conn)
	catalogSource := cache.NewCatalogSource(redisClient, repo, cfg.CatalogCacheTTL)
	env := &api.Env{
		Gateway:       repo,
		Profiles:      repo,
		CatalogWriter: repo,
		CatalogSource: catalogSource,
		Invalidator:   catalogSource,
		Cursors:       cache.NewCursorStore(redisClient),
		Redis:         redisClient,
		DefaultSpend:  spend,
		JWTSecret:     cfg.JWTSecret,
		AdminEmail:    cfg.AdminEmail,
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}
	api.RegisterRoutes(r, env)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	// Wait for interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("server shutdown: %v", err)
	}
}
