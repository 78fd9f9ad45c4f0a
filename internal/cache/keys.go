package cache

import "github.com/google/uuid" // User identifiers

// CatalogKey holds the JSON catalog snapshot
const CatalogKey = "catalog:tokens"

// PortfolioKey holds a user's cached portfolio summary
func PortfolioKey(userID uuid.UUID) string {
	return "portfolio:user:" + userID.String()
}

// CursorKey holds a user's swipe cursor position
func CursorKey(userID uuid.UUID) string {
	return "swipe:cursor:user:" + userID.String()
}

// PortfolioPattern matches every cached portfolio summary
const PortfolioPattern = "portfolio:user:*"
