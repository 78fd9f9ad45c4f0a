package api

import (
	"net/http"                       // HTTP status codes
	"time"                           // Cache TTL
	"token_swipe/internal/cache"     // Response cache helpers
	"token_swipe/internal/domain"    // Importing domain models
	"token_swipe/internal/portfolio" // Valuation

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logging
)

// portfolioCacheTTL bounds how stale cached prices in a summary can get
const portfolioCacheTTL = 30 * time.Second

// BuyRequest buys a token outside the feed
type BuyRequest struct {
	TokenID string `json:"token_id" binding:"required"` // Token to buy
	Amount  string `json:"amount"`                      // Optional spend, the default buy amount otherwise
}

// PortfolioResponse is the valued portfolio of the caller
type PortfolioResponse struct {
	Summary          portfolio.Summary `json:"summary"`            // Positions and totals
	DefaultBuyAmount decimal.Decimal   `json:"default_buy_amount"` // Spend of a default buy
	Cached           bool              `json:"cached"`             // Served from Redis
}

// GetPortfolioHandler values the caller's holdings at current catalog prices
func GetPortfolioHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		cacheKey := cache.PortfolioKey(userID) // Per user cache key
		if env.cacheEnabled() {
			var cached PortfolioResponse
			// If cached data found, return it
			found, err := cache.GetCache(ctx, env.Redis, cacheKey, &cached)
			if err == nil && found {
				cached.Cached = true // Indicate response is from cache
				c.JSON(http.StatusOK, cached)
				return
			}
		}
		s := openSession(c, env) // Load catalog and holdings
		if s == nil {
			return
		}
		resp := PortfolioResponse{Summary: s.PortfolioSummary(), DefaultBuyAmount: s.SpendFor()}
		if env.cacheEnabled() {
			// Cache the response for future requests
			if err := cache.SetCache(ctx, env.Redis, cacheKey, resp, portfolioCacheTTL); err != nil {
				logrus.WithError(err).Warn("Failed to cache portfolio")
			}
		}
		c.JSON(http.StatusOK, resp) // Return the response
	}
}

// BuyHandler spends an amount, or the default buy amount, on a token
func BuyHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BuyRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		amount, err := parseBuyAmount(req.Amount) // Zero means default spend
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive decimal"})
			return
		}
		s := openSession(c, env)
		if s == nil {
			return
		}
		ctx := c.Request.Context()
		var holding *domain.Holding
		if amount.IsZero() {
			holding, err = s.Buy(ctx, req.TokenID) // Default buy amount
		} else {
			holding, err = s.BuyAmount(ctx, req.TokenID, amount) // Explicit spend
		}
		if holding == nil {
			respondError(c, err) // Nothing was written
			return
		}
		invalidatePortfolio(c, env, s.User().UserID)
		if err != nil {
			// The buy went through, only the re-fetch failed
			logrus.WithField("token_id", req.TokenID).WithError(err).Warn("Holdings refresh failed after buy")
		}
		c.JSON(http.StatusCreated, holding) // Return the new position
	}
}

// SellHandler closes the caller's whole position in a token
func SellHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenID := c.Param("tokenId") // Token to sell
		s := openSession(c, env)
		if s == nil {
			return
		}
		sold, err := s.Sell(c.Request.Context(), tokenID)
		if !sold {
			respondError(c, err) // Nothing was written
			return
		}
		invalidatePortfolio(c, env, s.User().UserID)
		if err != nil {
			// The sell went through, only the re-fetch failed
			logrus.WithField("token_id", tokenID).WithError(err).Warn("Holdings refresh failed after sell")
		}
		c.JSON(http.StatusOK, gin.H{"message": "Position closed", "token_id": tokenID})
	}
}
