package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/google/uuid"        // User identifiers
	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logging
)

// ProfileResponse is the caller's profile
type ProfileResponse struct {
	ID                 uuid.UUID       `json:"id"`                   // User ID
	Email              string          `json:"email"`                // Login email
	Role               string          `json:"role"`                 // User role
	DefaultBuyAmount   decimal.Decimal `json:"default_buy_amount"`   // Stored spend, zero when unset
	EffectiveBuyAmount decimal.Decimal `json:"effective_buy_amount"` // Spend a default buy uses
}

// UpdateBuyAmountRequest changes the default buy amount
type UpdateBuyAmountRequest struct {
	Amount string `json:"amount" binding:"required"` // Positive decimal spend
}

// GetProfileHandler returns the caller's profile
func GetProfileHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := env.Profiles.GetUser(c.Request.Context(), userID) // Fetch user from database
		if err != nil {
			respondError(c, err)
			return
		}
		effective := user.DefaultBuyAmount
		if !effective.IsPositive() {
			effective = env.DefaultSpend // Server default applies
		}
		c.JSON(http.StatusOK, ProfileResponse{
			ID:                 user.ID,
			Email:              user.Email,
			Role:               user.Role,
			DefaultBuyAmount:   user.DefaultBuyAmount,
			EffectiveBuyAmount: effective,
		})
	}
}

// UpdateDefaultBuyAmountHandler sets the spend used by likes and default buys
func UpdateDefaultBuyAmountHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateBuyAmountRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		amount, err := parseBuyAmount(req.Amount)
		if err != nil || amount.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive decimal"})
			return
		}
		if err := env.Profiles.UpdateDefaultBuyAmount(c.Request.Context(), userID, amount); err != nil {
			respondError(c, err)
			return
		}
		invalidatePortfolio(c, env, userID) // Cached summary carries the old amount
		logrus.WithFields(logrus.Fields{
			"user_id": userID,          // Acting user
			"amount":  amount.String(), // New spend
		}).Info("Default buy amount updated")
		c.JSON(http.StatusOK, gin.H{"default_buy_amount": amount})
	}
}
