// Package trading executes simulated buys and sells against the holdings ledger.
package trading

import (
	"context" // Context for store calls
	"fmt"     // Error wrapping
	"time"    // Trade clock

	"github.com/google/uuid"        // User identifiers
	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logging

	"token_swipe/internal/domain" // Domain models
	"token_swipe/internal/errs"   // Error taxonomy
)

// FallbackSpend is spent per buy when neither the user nor the engine configures an amount.
var FallbackSpend = decimal.RequireFromString("0.01")

// PriceBook resolves a token's current snapshot.
type PriceBook interface {
	GetByID(id string) (domain.Token, bool)
}

// HoldingWriter mutates holding rows.
type HoldingWriter interface {
	UpsertHolding(ctx context.Context, userID uuid.UUID, tokenID string, amount, boughtAtPrice decimal.Decimal, boughtDate time.Time) error
	DeleteHolding(ctx context.Context, userID uuid.UUID, tokenID string) error
}

// PreferenceSetter records likes and dislikes.
type PreferenceSetter interface {
	SetPreference(ctx context.Context, userID uuid.UUID, tokenID string, kind domain.PreferenceKind) error
}

// Engine runs buy, sell, like and dislike. Each call stops at its first failure;
// nothing is retried or rolled back.
type Engine struct {
	prices       PriceBook          // Current catalog prices
	holdings     HoldingWriter      // Holding persistence
	preferences  PreferenceSetter   // Like and dislike persistence
	defaultSpend decimal.Decimal    // Spend when the user has none set
	now          func() time.Time   // Purchase clock
	log          logrus.FieldLogger // Audit log
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultSpend sets the spend used when the user has no default buy amount.
func WithDefaultSpend(amount decimal.Decimal) Option {
	return func(e *Engine) {
		if amount.IsPositive() {
			e.defaultSpend = amount
		}
	}
}

// WithClock overrides the purchase timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the audit logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine wires the engine to its collaborators.
func NewEngine(prices PriceBook, holdings HoldingWriter, preferences PreferenceSetter, opts ...Option) *Engine {
	e := &Engine{
		prices:       prices,
		holdings:     holdings,
		preferences:  preferences,
		defaultSpend: FallbackSpend,
		now:          time.Now,
		log:          logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SpendFor returns the amount a default buy spends for user.
func (e *Engine) SpendFor(user domain.Identity) decimal.Decimal {
	if user.DefaultBuyAmount.IsPositive() {
		return user.DefaultBuyAmount
	}
	return e.defaultSpend
}

// Buy spends the user's default buy amount on tokenID.
func (e *Engine) Buy(ctx context.Context, user *domain.Identity, tokenID string) (*domain.Holding, error) {
	if user == nil {
		return nil, fmt.Errorf("buy %s: %w", tokenID, errs.ErrUnauthenticated)
	}
	return e.BuyAmount(ctx, user, tokenID, e.SpendFor(*user))
}

// BuyAmount spends spend on tokenID at the catalog's current price. The resulting
// holding replaces any earlier one for the same token.
func (e *Engine) BuyAmount(ctx context.Context, user *domain.Identity, tokenID string, spend decimal.Decimal) (*domain.Holding, error) {
	if user == nil {
		return nil, fmt.Errorf("buy %s: %w", tokenID, errs.ErrUnauthenticated)
	}
	if !spend.IsPositive() {
		return nil, fmt.Errorf("buy %s: %w: spend %s", tokenID, errs.ErrInvalidAmount, spend)
	}

	token, ok := e.prices.GetByID(tokenID)
	if !ok {
		return nil, fmt.Errorf("buy %s: %w", tokenID, errs.ErrTokenNotFound)
	}
	if !token.Price.IsPositive() {
		return nil, fmt.Errorf("buy %s: %w: price %s", tokenID, errs.ErrInvalidPrice, token.Price)
	}

	holding := domain.Holding{
		UserID:        user.UserID,
		TokenID:       tokenID,
		Amount:        spend.Div(token.Price), // Units bought
		BoughtAtPrice: token.Price,            // Cost basis per unit
		BoughtDate:    e.now().UTC(),
	}

	fields := logrus.Fields{
		"user_id":  user.UserID,
		"token_id": tokenID,
		"spend":    spend.String(),
		"price":    token.Price.String(),
		"amount":   holding.Amount.String(),
	}
	if err := e.holdings.UpsertHolding(ctx, holding.UserID, holding.TokenID, holding.Amount, holding.BoughtAtPrice, holding.BoughtDate); err != nil {
		e.log.WithFields(fields).WithError(err).Error("Buy failed") // Log the failed write
		return nil, fmt.Errorf("buy %s: %w: %w", tokenID, errs.ErrPersistenceWrite, err)
	}
	e.log.WithFields(fields).Info("Buy transaction")
	return &holding, nil
}

// Sell closes the whole position. Selling a token that is not held is a no-op.
func (e *Engine) Sell(ctx context.Context, user *domain.Identity, tokenID string) error {
	if user == nil {
		return fmt.Errorf("sell %s: %w", tokenID, errs.ErrUnauthenticated)
	}
	fields := logrus.Fields{"user_id": user.UserID, "token_id": tokenID}
	if err := e.holdings.DeleteHolding(ctx, user.UserID, tokenID); err != nil {
		e.log.WithFields(fields).WithError(err).Error("Sell failed")
		return fmt.Errorf("sell %s: %w: %w", tokenID, errs.ErrPersistenceWrite, err)
	}
	e.log.WithFields(fields).Info("Sell transaction")
	return nil
}

// Dislike records a disliked preference. No transaction is executed.
func (e *Engine) Dislike(ctx context.Context, user *domain.Identity, tokenID string) error {
	if user == nil {
		return fmt.Errorf("dislike %s: %w", tokenID, errs.ErrUnauthenticated)
	}
	if err := e.preferences.SetPreference(ctx, user.UserID, tokenID, domain.Disliked); err != nil {
		e.log.WithFields(logrus.Fields{"user_id": user.UserID, "token_id": tokenID}).WithError(err).Error("Dislike failed")
		return err
	}
	e.log.WithFields(logrus.Fields{"user_id": user.UserID, "token_id": tokenID}).Info("Token disliked")
	return nil
}
