package store

import (
	"context" // Context for store calls
	"time"    // Purchase timestamps

	"github.com/google/uuid"        // User identifiers
	"github.com/shopspring/decimal" // Decimal amounts

	"token_swipe/internal/domain" // Domain models
)

// Gateway is the data-access boundary the ledger runs on.
// Implementations return raw errors; callers classify them.
type Gateway interface {
	// FetchTokens returns the catalog in source order.
	FetchTokens(ctx context.Context) ([]domain.Token, error)

	// FetchHoldings returns every open position of a user.
	FetchHoldings(ctx context.Context, userID uuid.UUID) ([]domain.Holding, error)

	// FetchPreferences returns every like/dislike recorded by a user.
	FetchPreferences(ctx context.Context, userID uuid.UUID) ([]domain.Preference, error)

	// UpsertHolding inserts or replaces the (user, token) position.
	UpsertHolding(ctx context.Context, userID uuid.UUID, tokenID string, amount, boughtAtPrice decimal.Decimal, boughtDate time.Time) error

	// DeleteHolding removes the (user, token) position. Deleting a missing row is not an error.
	DeleteHolding(ctx context.Context, userID uuid.UUID, tokenID string) error

	// UpsertPreference inserts or overwrites the (user, token) preference, last write wins.
	UpsertPreference(ctx context.Context, userID uuid.UUID, tokenID string, kind domain.PreferenceKind) error
}

// ProfileStore keeps the identity-owned user rows.
type ProfileStore interface {
	// CreateUser returns errs.ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUser returns errs.ErrNotFound when the user does not exist.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByEmail returns errs.ErrNotFound when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateDefaultBuyAmount returns errs.ErrNotFound when the user does not exist.
	UpdateDefaultBuyAmount(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error

	// ListUsers returns a page of users with their holdings count, plus the total user count.
	ListUsers(ctx context.Context, offset, limit int) ([]UserSummary, int64, error)
}

// CatalogWriter is used by the external catalog feed (admin endpoint, seed command).
type CatalogWriter interface {
	UpsertTokens(ctx context.Context, tokens []domain.Token) error
}

// UserSummary is a user row as shown to admins.
type UserSummary struct {
	ID               uuid.UUID       `json:"id"`
	Email            string          `json:"email"`
	Role             string          `json:"role"`
	DefaultBuyAmount decimal.Decimal `json:"default_buy_amount"`
	Holdings         int64           `json:"holdings"`
}
