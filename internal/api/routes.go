package api

import (
	"token_swipe/internal/middleware" // Auth middleware

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRoutes mounts every endpoint under /api
func RegisterRoutes(r *gin.Engine, env *Env) {
	base := r.Group("/api")

	// Auth routes
	base.POST("/auth/register", RegisterHandler(env)) // Registration endpoint
	base.POST("/auth/login", LoginHandler(env))       // Login endpoint

	// Public catalog routes
	base.GET("/categories", CategoriesHandler())  // Feed categories
	base.GET("/tokens/:id", GetTokenHandler(env)) // Token details

	// User routes (protected by JWT)
	user := base.Group("")
	user.Use(middleware.JWTAuthMiddleware(env.JWTSecret))
	user.GET("/feed", GetFeedHandler(env))                                      // Feed of unswiped tokens
	user.POST("/feed/swipe", SwipeHandler(env))                                 // Swipe the feed head
	user.GET("/portfolio", GetPortfolioHandler(env))                            // Valued holdings
	user.POST("/portfolio/buy", BuyHandler(env))                                // Buy a token
	user.DELETE("/portfolio/:tokenId", SellHandler(env))                        // Sell a whole position
	user.GET("/profile", GetProfileHandler(env))                                // Caller profile
	user.PUT("/profile/default-buy-amount", UpdateDefaultBuyAmountHandler(env)) // Change spend per buy

	// Admin routes (protected, admin only)
	admin := base.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(env.JWTSecret), middleware.AdminOnlyMiddleware(env.Profiles))
	admin.GET("/users", ListUsersHandler(env))     // List users endpoint
	admin.PUT("/tokens", UpsertTokensHandler(env)) // Catalog upsert endpoint
}
