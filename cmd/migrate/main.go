package main

import (
	"context"                              // Connection context
	"flag"                                 // Command line flags
	"token_swipe/internal/cache"           // Catalog snapshot invalidation
	"token_swipe/internal/config"          // Custom import path (Config)
	"token_swipe/internal/db"              // Custom import path (Database)
	"token_swipe/internal/store/gormstore" // Catalog writer

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging
)

// Main entry point for migration
func main() {
	seedPath := flag.String("seed", "", "JSON catalog to upsert after migrating (defaults to SEED_CATALOG_PATH)")
	flag.Parse()

	cfg := config.MustLoad() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DB)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	defer func() { _ = db.Close(conn) }()

	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("%v", err)
	}

	path := *seedPath
	if path == "" {
		path = cfg.SeedCatalogPath
	}
	if path == "" {
		return // Schema only
	}
	if _, err := db.SeedCatalog(ctx, gormstore.New(conn), path); err != nil {
		logrus.Fatalf("%v", err)
	}

	// Drop the cached catalog so running servers pick up the new prices
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr, // Redis server address
		Password: cfg.Redis.Pass, // Redis password
		DB:       cfg.Redis.DB,   // Redis database number
	})
	defer redisClient.Close()
	if err := cache.InvalidateCatalog(ctx, redisClient); err != nil {
		logrus.WithError(err).Warn("seeded catalog but could not clear the redis snapshot; it expires after CATALOG_CACHE_TTL")
	}
}
