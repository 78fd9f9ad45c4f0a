package api

import (
	"context"                       // Request contexts
	"net/http"                      // HTTP status codes
	"token_swipe/internal/catalog"  // Catalog source contract
	"token_swipe/internal/identity" // Identity provider
	"token_swipe/internal/middleware"
	"token_swipe/internal/session" // Ledger session
	"token_swipe/internal/store"   // Persistence contracts

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/google/uuid"        // User identifiers
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal amounts
)

// CatalogInvalidator drops cached catalog snapshots after the catalog changes
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Env carries the collaborators shared by every handler
type Env struct {
	Gateway       store.Gateway       // Holdings and preferences
	Profiles      store.ProfileStore  // Users and default buy amounts
	CatalogWriter store.CatalogWriter // Catalog maintenance
	CatalogSource catalog.Source      // Catalog reads, usually Redis backed
	Invalidator   CatalogInvalidator  // Optional, paired with CatalogSource
	Cursors       session.CursorStore // Optional swipe cursor persistence
	Redis         redis.Cmdable       // Optional response cache
	DefaultSpend  decimal.Decimal     // Spend when a user has none set
	JWTSecret     string              // JWT secret key
	AdminEmail    string              // Email that registers as admin
}

// currentUserID reads the authenticated user id set by the JWT middleware
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(middleware.UserIDKey) // Get userID from context
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := raw.(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}

// openSession builds and starts the ledger session of the caller.
// On failure the error response has been written and nil is returned.
func openSession(c *gin.Context, env *Env) *session.Session {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil
	}
	s := session.New(session.Config{
		Identity:     identity.ProfileProvider{Profiles: env.Profiles, UserID: userID},
		Gateway:      env.Gateway,
		Catalog:      env.CatalogSource,
		Cursors:      env.Cursors,
		DefaultSpend: env.DefaultSpend,
	})
	if err := s.Start(c.Request.Context()); err != nil {
		respondError(c, err)
		return nil
	}
	if s.User() == nil {
		// Token is valid but the profile is gone
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil
	}
	return s
}

// catalogSource is the configured catalog reader, the gateway when unset
func (env *Env) catalogSource() catalog.Source {
	if env.CatalogSource != nil {
		return env.CatalogSource
	}
	return env.Gateway
}

// cacheEnabled reports whether a response cache is configured
func (env *Env) cacheEnabled() bool {
	return env.Redis != nil
}
