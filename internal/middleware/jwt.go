package middleware

import (
	"net/http"                   // HTTP status codes
	"strings"                    // String manipulation
	"token_swipe/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// Context keys set by JWTAuthMiddleware
const (
	UserIDKey = "userID" // uuid.UUID of the caller
	RoleKey   = "role"   // Role claim of the caller
)

// JWTAuthMiddleware validates JWT tokens and extracts user information
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			logrus.WithError(err).Debug("rejected bearer token") // Expired or forged tokens are routine
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		userID, err := utils.UserIDFromClaims(claims) // Parse the user id claim
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token payload"})
			return
		}
		c.Set(UserIDKey, userID)    // Store userID in context
		c.Set(RoleKey, claims.Role) // Store role in context
		c.Next()                    // Proceed to the next handler
	}
}
