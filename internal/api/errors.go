package api

import (
	"errors"                    // Error classification
	"net/http"                  // HTTP status codes
	"token_swipe/internal/errs" // Error taxonomy

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// statusFor maps ledger errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrTokenNotFound), errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidAmount),
		errors.Is(err, errs.ErrInvalidPrice),
		errors.Is(err, errs.ErrInvalidCategory),
		errors.Is(err, errs.ErrInvalidDirection),
		errors.Is(err, errs.ErrInvalidPreference):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrFeedExhausted), errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errs.ErrFetchFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body, logging server-side failures
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"path":   c.FullPath(), // Route
			"status": status,       // Response status
			"error":  err.Error(),  // Error message
		}).Error("Request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
