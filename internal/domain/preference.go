package domain

import (
	"fmt" // Error formatting

	"github.com/google/uuid" // User identifiers

	"token_swipe/internal/errs" // Error taxonomy
)

// PreferenceKind is the judgment a user made on a token
type PreferenceKind string

// Preference kinds
const (
	Liked    PreferenceKind = "liked"
	Disliked PreferenceKind = "disliked"
)

// ParsePreferenceKind validates a stored or requested kind
func ParsePreferenceKind(s string) (PreferenceKind, error) {
	switch k := PreferenceKind(s); k {
	case Liked, Disliked:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", errs.ErrInvalidPreference, s)
}

// Preference Model, at most one row per (user, token)
type Preference struct {
	ID        uint           `gorm:"primaryKey" json:"-"`                                                         // Primary key
	UserID    uuid.UUID      `gorm:"type:char(36);not null;uniqueIndex:idx_preference_user_token" json:"user_id"` // Owning user
	TokenID   string         `gorm:"size:64;not null;uniqueIndex:idx_preference_user_token" json:"token_id"`      // Judged token
	Kind      PreferenceKind `gorm:"column:preference;size:16;not null" json:"preference"`                        // liked or disliked
	CreatedAt int64          `gorm:"autoCreateTime:milli" json:"created_at"`                                      // First judgment in milliseconds
	UpdatedAt int64          `gorm:"autoUpdateTime:milli" json:"updated_at"`                                      // Last overwrite in milliseconds
}
