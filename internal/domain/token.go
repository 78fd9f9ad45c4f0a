package domain

import (
	"fmt"     // Error formatting
	"strings" // Category normalisation

	"github.com/shopspring/decimal" // Decimal prices

	"token_swipe/internal/errs" // Error taxonomy
)

// Category of a catalog token
type Category string

// Supported token categories
const (
	CategoryMeme     Category = "meme"
	CategoryRisky    Category = "risky"
	CategoryNew      Category = "new"
	CategoryBluechip Category = "bluechip"
	CategoryAI       Category = "ai"
)

// Categories lists every category in display order
var Categories = []Category{CategoryMeme, CategoryRisky, CategoryNew, CategoryBluechip, CategoryAI}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory parses a category name. An empty string yields nil (no filter).
func ParseCategory(s string) (*Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	c := Category(s)
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidCategory, s)
	}
	return &c, nil
}

// Token Model, a catalog snapshot row. Read-only to the ledger.
type Token struct {
	ID             string          `gorm:"primaryKey;size:64" json:"id"`                                                          // Token identifier
	Name           string          `gorm:"size:255;not null" json:"name"`                                                         // Display name
	Symbol         string          `gorm:"size:32;not null" json:"symbol"`                                                        // Ticker symbol
	Price          decimal.Decimal `gorm:"type:decimal(38,18);not null" json:"price"`                                             // Current price in ETH
	PriceChange24h decimal.Decimal `gorm:"column:price_change_24h;type:decimal(20,8);not null;default:0" json:"price_change_24h"` // Signed 24h change in percent
	MarketCap      decimal.Decimal `gorm:"type:decimal(38,8);not null;default:0" json:"market_cap"`                               // Market capitalisation
	ImageURL       string          `gorm:"size:512" json:"image_url"`                                                             // Card image
	Category       Category        `gorm:"size:16;not null;index" json:"category"`                                                // Token category
	Description    string          `gorm:"type:text" json:"description"`                                                          // Free text description
	RiskLevel      int             `gorm:"not null" json:"risk_level"`                                                            // 1 (safe) to 10 (riskiest)
	CreatedAt      int64           `gorm:"autoCreateTime:milli" json:"created_at"`                                                // Catalog insertion time in milliseconds
	UpdatedAt      int64           `gorm:"autoUpdateTime:milli" json:"updated_at"`                                                // Last refresh in milliseconds
}

// Validate checks the catalog row invariants
func (t Token) Validate() error {
	switch {
	case t.ID == "":
		return fmt.Errorf("token id is required")
	case !t.Price.IsPositive():
		return fmt.Errorf("token %s: %w", t.ID, errs.ErrInvalidPrice)
	case t.MarketCap.IsNegative():
		return fmt.Errorf("token %s: market cap must not be negative", t.ID)
	case !t.Category.Valid():
		return fmt.Errorf("token %s: %w: %q", t.ID, errs.ErrInvalidCategory, t.Category)
	case t.RiskLevel < 1 || t.RiskLevel > 10:
		return fmt.Errorf("token %s: risk level must be between 1 and 10", t.ID)
	}
	return nil
}
