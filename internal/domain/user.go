package domain

import (
	"github.com/google/uuid"        // User identifiers
	"github.com/shopspring/decimal" // Decimal amounts
)

// User Model
type User struct {
	ID               uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`                               // Primary key
	Email            string          `gorm:"size:255;unique;not null" json:"email"`                            // Unique login email
	Password         string          `gorm:"not null" json:"-"`                                                // Hashed password
	Role             string          `gorm:"size:16;default:user" json:"role"`                                 // Role: user or admin
	DefaultBuyAmount decimal.Decimal `gorm:"type:decimal(38,18);not null;default:0" json:"default_buy_amount"` // ETH spent per buy
	CreatedAt        int64           `gorm:"autoCreateTime:milli" json:"created_at"`                           // Creation timestamp in milliseconds
}

// Identity is the slice of a user the ledger needs: who acts and how much a buy spends.
type Identity struct {
	UserID           uuid.UUID       // Acting user
	DefaultBuyAmount decimal.Decimal // Spend per buy, zero when unset
}

// Identity returns the ledger identity of the user
func (u User) Identity() Identity {
	return Identity{UserID: u.ID, DefaultBuyAmount: u.DefaultBuyAmount}
}
