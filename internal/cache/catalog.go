package cache

import (
	"context" // Context for Redis operations
	"time"    // Snapshot TTL

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging

	"token_swipe/internal/catalog" // Catalog source contract
	"token_swipe/internal/domain"  // Token model
)

// CatalogSource serves catalog snapshots from Redis and falls back to the
// wrapped source on a miss. Redis errors never fail a fetch; only the
// wrapped source can.
type CatalogSource struct {
	rdb  redis.Cmdable
	next catalog.Source
	ttl  time.Duration
}

// Compile-time interface check
var _ catalog.Source = (*CatalogSource)(nil)

// NewCatalogSource wraps next with a Redis snapshot cache of the given TTL
func NewCatalogSource(rdb redis.Cmdable, next catalog.Source, ttl time.Duration) *CatalogSource {
	return &CatalogSource{rdb: rdb, next: next, ttl: ttl}
}

// FetchTokens returns the cached snapshot or reads through to the wrapped source
func (c *CatalogSource) FetchTokens(ctx context.Context) ([]domain.Token, error) {
	var tokens []domain.Token
	found, err := GetCache(ctx, c.rdb, CatalogKey, &tokens) // Try cache first
	if err == nil && found {
		return tokens, nil
	}
	if err != nil {
		logrus.WithError(err).Warn("catalog cache read failed") // Fall through to the source
	}

	tokens, err = c.next.FetchTokens(ctx)
	if err != nil {
		return nil, err // Source failure is the caller's fetch failure
	}
	if err := SetCache(ctx, c.rdb, CatalogKey, tokens, c.ttl); err != nil {
		logrus.WithError(err).Warn("catalog cache write failed")
	}
	return tokens, nil
}

// Invalidate drops the cached snapshot and every portfolio valued against it
func (c *CatalogSource) Invalidate(ctx context.Context) error {
	return InvalidateCatalog(ctx, c.rdb)
}

// InvalidateCatalog removes the catalog snapshot and all cached portfolio
// summaries. Swipe cursors are left alone.
func InvalidateCatalog(ctx context.Context, rdb redis.Cmdable) error {
	if err := DeleteCache(ctx, rdb, CatalogKey); err != nil {
		return err
	}
	return DeletePattern(ctx, rdb, PortfolioPattern) // Cached values carry old prices
}
