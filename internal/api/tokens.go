package api

import (
	"net/http"                     // HTTP status codes
	"token_swipe/internal/catalog" // Catalog snapshot
	"token_swipe/internal/domain"  // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
)

// CategoriesHandler lists the feed categories
func CategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"categories": domain.Categories})
	}
}

// GetTokenHandler returns one token of the current catalog
func GetTokenHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat := catalog.New(env.catalogSource()) // Fresh snapshot for this request
		if _, err := cat.Load(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		token, ok := cat.GetByID(c.Param("id")) // Look up by token id
		if !ok {
			// Unknown token
			c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
			return
		}
		c.JSON(http.StatusOK, token) // Return the token
	}
}
