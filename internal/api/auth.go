package api

import (
	"errors"                      // Error classification
	"net/http"                    // HTTP status codes
	"strings"                     // String manipulation
	"token_swipe/internal/domain" // Importing domain models
	"token_swipe/internal/errs"   // Error taxonomy
	"token_swipe/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/google/uuid"        // User identifiers
	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logging
	"golang.org/x/crypto/bcrypt"    // Password hashing
)

// Request and Response structs
type RegisterRequest struct {
	Email            string `json:"email" binding:"required,email"` // Email must be provided and valid
	Password         string `json:"password" binding:"required"`    // Password must be provided
	DefaultBuyAmount string `json:"default_buy_amount,omitempty"`   // Optional spend per buy
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// isValidPassword checks if the password length is between 8 and 72 bytes, the bcrypt input limit
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72 // Return true if length is valid
}

// parseBuyAmount parses an optional positive spend; empty means none
func parseBuyAmount(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil // Unset, the server default applies
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, errs.ErrInvalidAmount // Must be a positive decimal
	}
	return amount, nil
}

// RegisterHandler creates a user with a hashed password
func RegisterHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate password length
		if !isValidPassword(req.Password) {
			// If password is invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-72 characters"})
			return
		}
		amount, err := parseBuyAmount(req.DefaultBuyAmount) // Optional spend per buy
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "default_buy_amount must be a positive decimal"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email)) // Lowercase email to ensure uniqueness
		role := "user"
		if env.AdminEmail != "" && strings.EqualFold(email, env.AdminEmail) {
			role = "admin" // Configured operator account
		}
		user := domain.User{
			ID:               uuid.New(),
			Email:            email,
			Password:         string(hash),
			Role:             role,
			DefaultBuyAmount: amount,
		}
		// Attempt to create the user in the database
		if err := env.Profiles.CreateUser(c.Request.Context(), &user); err != nil {
			if errors.Is(err, errs.ErrAlreadyExists) {
				// Duplicate email
				c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
				return
			}
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID, // New user
			"role":    role,    // Assigned role
		}).Info("User registered")
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "id": user.ID})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := env.Profiles.GetUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				// If user not found, return unauthorized
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			respondError(c, err)
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Role, env.JWTSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}
