package middleware

import (
	"net/http"                   // HTTP status codes
	"token_swipe/internal/store" // Profile store

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // User identifiers
)

// AdminOnlyMiddleware checks the user's role from the database on each request
func AdminOnlyMiddleware(profiles store.ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(UserIDKey) // Get userID from context
		userID, ok := raw.(uuid.UUID)
		// Check if userID exists in context
		if !exists || !ok {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := profiles.GetUser(c.Request.Context(), userID) // Fetch user from database
		if err != nil {
			// If user not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// Check if user role is admin
		if user.Role != "admin" {
			// If not admin, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
