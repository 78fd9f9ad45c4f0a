package api

import (
	"net/http"                    // HTTP status codes
	"strconv"                     // String conversion
	"time"                        // Time durations
	"token_swipe/internal/cache"  // Response cache helpers
	"token_swipe/internal/domain" // Importing domain models
	"token_swipe/internal/store"  // Admin user rows

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// UserListResponse is one page of users
type UserListResponse struct {
	Users      []store.UserSummary `json:"users"`       // List of users
	Page       int                 `json:"page"`        // Current page
	PageSize   int                 `json:"page_size"`   // Page size
	Total      int64               `json:"total"`       // Total number of users
	TotalPages int                 `json:"total_pages"` // Total pages
	Cached     bool                `json:"cached"`      // Served from Redis
}

// pagination reads page and page_size query parameters
func pagination(c *gin.Context) (page, pageSize int) {
	page = 1      // Default page number
	pageSize = 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// Check and set page size within limits
	if ps := c.Query("page_size"); ps != "" {
		// If valid, set page size
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size
		}
	}
	return page, pageSize
}

// ListUsersHandler returns all users with their holdings count
func ListUsersHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		if env.cacheEnabled() {
			var cached UserListResponse
			// If cached data found, return it
			found, err := cache.GetCache(ctx, env.Redis, cacheKey, &cached)
			if err == nil && found {
				cached.Cached = true // Indicate response is from cache
				c.JSON(http.StatusOK, cached)
				return
			}
		}
		offset := (page - 1) * pageSize // Calculate offset for pagination
		users, total, err := env.Profiles.ListUsers(ctx, offset, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		if users == nil {
			users = []store.UserSummary{} // Empty page renders as []
		}
		resp := UserListResponse{
			Users:      users,
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: (int(total) + pageSize - 1) / pageSize, // Calculate total pages
		}
		if env.cacheEnabled() {
			// Cache the response for future requests
			_ = cache.SetCache(ctx, env.Redis, cacheKey, resp, 60*time.Second)
		}
		c.JSON(http.StatusOK, resp) // Return the response
	}
}

// UpsertTokensHandler inserts or updates catalog tokens from the external feed
func UpsertTokensHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokens []domain.Token // Bind JSON array to slice
		if err := c.ShouldBindJSON(&tokens); err != nil || len(tokens) == 0 {
			// If binding fails or nothing was sent, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		for _, t := range tokens {
			if err := t.Validate(); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		ctx := c.Request.Context()
		if err := env.CatalogWriter.UpsertTokens(ctx, tokens); err != nil {
			respondError(c, err)
			return
		}
		if env.Invalidator != nil {
			// Drop the catalog snapshot and every portfolio valued against it
			if err := env.Invalidator.Invalidate(ctx); err != nil {
				logrus.WithError(err).Warn("Failed to invalidate catalog cache")
			}
		}
		logrus.WithField("tokens", len(tokens)).Info("Catalog updated")
		c.JSON(http.StatusOK, gin.H{"upserted": len(tokens)})
	}
}
