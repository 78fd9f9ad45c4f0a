package domain

import (
	"time" // Purchase timestamp

	"github.com/google/uuid"        // User identifiers
	"github.com/shopspring/decimal" // Decimal amounts
)

// Holding Model, a simulated open position. At most one row per (user, token);
// a new buy replaces the row.
type Holding struct {
	ID            uint            `gorm:"primaryKey" json:"-"`                                                      // Primary key
	UserID        uuid.UUID       `gorm:"type:char(36);not null;uniqueIndex:idx_holding_user_token" json:"user_id"` // Owning user
	TokenID       string          `gorm:"size:64;not null;uniqueIndex:idx_holding_user_token" json:"token_id"`      // Held token
	Amount        decimal.Decimal `gorm:"type:decimal(38,18);not null" json:"amount"`                               // Token quantity
	BoughtAtPrice decimal.Decimal `gorm:"column:bought_at;type:decimal(38,18);not null" json:"bought_at"`           // Price paid per token
	BoughtDate    time.Time       `gorm:"not null" json:"bought_date"`                                              // Purchase time
}
