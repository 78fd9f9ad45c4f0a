package gormstore

import (
	"context" // Context for store calls
	"errors"  // Error inspection
	"strings" // Email normalisation
	"time"    // Purchase timestamps

	"github.com/google/uuid"        // User identifiers
	"github.com/shopspring/decimal" // Decimal amounts
	"gorm.io/gorm"                  // ORM
	"gorm.io/gorm/clause"           // Upsert clauses

	"token_swipe/internal/domain" // Domain models
	"token_swipe/internal/errs"   // Error taxonomy
	"token_swipe/internal/store"  // Persistence contracts
)

// Store implements the persistence contracts on top of gorm.
type Store struct {
	db *gorm.DB
}

// Compile-time interface checks.
var (
	_ store.Gateway       = (*Store)(nil)
	_ store.ProfileStore  = (*Store)(nil)
	_ store.CatalogWriter = (*Store)(nil)
)

// New wraps an opened gorm connection. The connection must be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FetchTokens returns the catalog ordered by insertion.
func (s *Store) FetchTokens(ctx context.Context) ([]domain.Token, error) {
	var tokens []domain.Token
	if err := s.db.WithContext(ctx).Order("created_at asc").Order("id asc").Find(&tokens).Error; err != nil {
		return nil, err // Return error if query fails
	}
	return tokens, nil
}

// UpsertTokens inserts new catalog rows and refreshes existing ones in one transaction.
func (s *Store) UpsertTokens(ctx context.Context, tokens []domain.Token) error {
	for _, t := range tokens {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	if len(tokens) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "symbol", "price", "price_change_24h", "market_cap",
				"image_url", "category", "description", "risk_level", "updated_at",
			}),
		}).Create(&tokens).Error
	})
}

// FetchHoldings returns the user's open positions.
func (s *Store) FetchHoldings(ctx context.Context, userID uuid.UUID) ([]domain.Holding, error) {
	var holdings []domain.Holding
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("token_id asc").Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

// FetchPreferences returns the user's likes and dislikes.
func (s *Store) FetchPreferences(ctx context.Context, userID uuid.UUID) ([]domain.Preference, error) {
	var prefs []domain.Preference
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("token_id asc").Find(&prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}

// UpsertHolding replaces the (user, token) row, resetting amount, price and date.
func (s *Store) UpsertHolding(ctx context.Context, userID uuid.UUID, tokenID string, amount, boughtAtPrice decimal.Decimal, boughtDate time.Time) error {
	h := domain.Holding{
		UserID:        userID,
		TokenID:       tokenID,
		Amount:        amount,
		BoughtAtPrice: boughtAtPrice,
		BoughtDate:    boughtDate,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "bought_at", "bought_date"}), // Replace the whole position
	}).Create(&h).Error
}

// DeleteHolding removes the (user, token) row. No rows affected is not an error.
func (s *Store) DeleteHolding(ctx context.Context, userID uuid.UUID, tokenID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND token_id = ?", userID, tokenID).
		Delete(&domain.Holding{}).Error // Zero rows is fine
}

// UpsertPreference overwrites the (user, token) kind.
func (s *Store) UpsertPreference(ctx context.Context, userID uuid.UUID, tokenID string, kind domain.PreferenceKind) error {
	p := domain.Preference{
		UserID:  userID,
		TokenID: tokenID,
		Kind:    kind,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"preference", "updated_at"}), // Latest swipe wins
	}).Create(&p).Error
}

// CreateUser inserts a user, mapping unique violations to errs.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return errs.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail loads a user by (lower-cased) email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateDefaultBuyAmount sets the user's spend per buy.
func (s *Store) UpdateDefaultBuyAmount(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	result := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("default_buy_amount", amount)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListUsers pages users with their holdings count.
func (s *Store) ListUsers(ctx context.Context, offset, limit int) ([]store.UserSummary, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []store.UserSummary
	err := s.db.WithContext(ctx).Model(&domain.User{}).
		Select("users.id, users.email, users.role, users.default_buy_amount, " +
			"(SELECT COUNT(*) FROM holdings WHERE holdings.user_id = users.id) AS holdings").
		Order("users.created_at asc").
		Order("users.email asc").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// isDuplicate relies on the dialector translating unique violations
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
