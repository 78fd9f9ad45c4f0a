package api

import (
	"net/http"                     // HTTP status codes
	"token_swipe/internal/cache"   // Response cache helpers
	"token_swipe/internal/domain"  // Importing domain models
	"token_swipe/internal/session" // Ledger session

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // User identifiers
	"github.com/sirupsen/logrus" // Logging
)

// SwipeRequest resolves the head of the feed
type SwipeRequest struct {
	Direction string `json:"direction" binding:"required"` // left or right
	Category  string `json:"category"`                     // Optional feed filter
}

// SwipeResponse reports a swipe, with the error of a partially applied one
type SwipeResponse struct {
	Result session.SwipeResult `json:"result"`          // What the swipe did
	Error  string              `json:"error,omitempty"` // Failure after the preference was recorded
}

// GetFeedHandler returns the unswiped tokens of a category
func GetFeedHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := domain.ParseCategory(c.Query("category")) // Empty means all categories
		if err != nil {
			respondError(c, err)
			return
		}
		s := openSession(c, env) // Load catalog, holdings and preferences
		if s == nil {
			return
		}
		c.JSON(http.StatusOK, s.GetFeed(category)) // Return the feed view
	}
}

// SwipeHandler likes or dislikes the token at the head of the feed
func SwipeHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SwipeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		direction, err := session.ParseDirection(req.Direction) // left or right
		if err != nil {
			respondError(c, err)
			return
		}
		category, err := domain.ParseCategory(req.Category) // Feed the swipe applies to
		if err != nil {
			respondError(c, err)
			return
		}
		s := openSession(c, env)
		if s == nil {
			return
		}
		s.GetFeed(category) // Select the category whose head is swiped

		ctx := c.Request.Context()
		result, err := s.Swipe(ctx, direction)
		if result.PreferenceRecorded {
			invalidatePortfolio(c, env, s.User().UserID) // Holdings may have changed
		}
		if err != nil && !result.PreferenceRecorded {
			respondError(c, err) // Nothing was written
			return
		}
		if err != nil {
			// Preference recorded, a later step failed
			c.JSON(statusFor(err), SwipeResponse{Result: result, Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, SwipeResponse{Result: result}) // Return the swipe result
	}
}

// invalidatePortfolio drops the cached portfolio summary of a user
func invalidatePortfolio(c *gin.Context, env *Env, userID uuid.UUID) {
	if !env.cacheEnabled() {
		return
	}
	if err := cache.DeleteCache(c.Request.Context(), env.Redis, cache.PortfolioKey(userID)); err != nil {
		logrus.WithField("user_id", userID).WithError(err).Warn("Failed to invalidate portfolio cache")
	}
}
