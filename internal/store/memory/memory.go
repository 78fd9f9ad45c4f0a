package memory

import (
	"context" // Context for store calls
	"sort"    // Stable listing order
	"strings" // Email normalisation
	"sync"    // Map locking
	"time"    // Purchase timestamps

	"github.com/google/uuid"        // User identifiers
	"github.com/shopspring/decimal" // Decimal amounts

	"token_swipe/internal/domain" // Domain models
	"token_swipe/internal/errs"   // Error taxonomy
	"token_swipe/internal/store"  // Persistence contracts
)

type pairKey struct {
	userID  uuid.UUID
	tokenID string
}

// Store is an in-memory implementation of store.Gateway, store.ProfileStore
// and store.CatalogWriter.
type Store struct {
	mu          sync.RWMutex
	tokens      []domain.Token                // source order
	users       map[uuid.UUID]*domain.User    // Users by id
	holdings    map[pairKey]domain.Holding    // One row per (user, token)
	preferences map[pairKey]domain.Preference // One row per (user, token)
	nextID      uint                          // Row id sequence
}

// Compile-time interface checks.
var (
	_ store.Gateway       = (*Store)(nil)
	_ store.ProfileStore  = (*Store)(nil)
	_ store.CatalogWriter = (*Store)(nil)
)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:       make(map[uuid.UUID]*domain.User),
		holdings:    make(map[pairKey]domain.Holding),
		preferences: make(map[pairKey]domain.Preference),
	}
}

// FetchTokens returns a copy of the catalog in insertion order.
func (s *Store) FetchTokens(_ context.Context) ([]domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Token, len(s.tokens))
	copy(out, s.tokens)
	return out, nil
}

// UpsertTokens replaces tokens with a matching id in place and appends new ones.
func (s *Store) UpsertTokens(_ context.Context, tokens []domain.Token) error {
	for _, t := range tokens {
		if err := t.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	for _, t := range tokens {
		t.UpdatedAt = now
		replaced := false
		for i := range s.tokens {
			if s.tokens[i].ID == t.ID {
				t.CreatedAt = s.tokens[i].CreatedAt
				s.tokens[i] = t
				replaced = true
				break
			}
		}
		if !replaced {
			t.CreatedAt = now
			s.tokens = append(s.tokens, t)
		}
	}
	return nil
}

// FetchHoldings returns the user's holdings ordered by token id.
func (s *Store) FetchHoldings(_ context.Context, userID uuid.UUID) ([]domain.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Holding
	for k, h := range s.holdings {
		if k.userID == userID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TokenID < out[j].TokenID })
	return out, nil
}

// FetchPreferences returns the user's preferences ordered by token id.
func (s *Store) FetchPreferences(_ context.Context, userID uuid.UUID) ([]domain.Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Preference
	for k, p := range s.preferences {
		if k.userID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TokenID < out[j].TokenID })
	return out, nil
}

// UpsertHolding replaces any existing row for the pair.
func (s *Store) UpsertHolding(_ context.Context, userID uuid.UUID, tokenID string, amount, boughtAtPrice decimal.Decimal, boughtDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{userID: userID, tokenID: tokenID}
	h, exists := s.holdings[key]
	if !exists {
		s.nextID++
		h.ID = s.nextID
	}
	h.UserID = userID
	h.TokenID = tokenID
	h.Amount = amount
	h.BoughtAtPrice = boughtAtPrice
	h.BoughtDate = boughtDate
	s.holdings[key] = h
	return nil
}

// DeleteHolding removes the pair; a missing row is a no-op.
func (s *Store) DeleteHolding(_ context.Context, userID uuid.UUID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.holdings, pairKey{userID: userID, tokenID: tokenID})
	return nil
}

// UpsertPreference overwrites the kind for the pair.
func (s *Store) UpsertPreference(_ context.Context, userID uuid.UUID, tokenID string, kind domain.PreferenceKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	key := pairKey{userID: userID, tokenID: tokenID}
	p, exists := s.preferences[key]
	if !exists {
		s.nextID++
		p = domain.Preference{ID: s.nextID, UserID: userID, TokenID: tokenID, CreatedAt: now}
	}
	p.Kind = kind
	p.UpdatedAt = now
	s.preferences[key] = p
	return nil
}

// CreateUser stores a copy of user. Emails are unique, case-insensitively.
func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return errs.ErrAlreadyExists
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return errs.ErrAlreadyExists
		}
	}
	if user.Role == "" {
		user.Role = "user"
	}
	user.CreatedAt = time.Now().UnixMilli()
	userCopy := *user
	s.users[user.ID] = &userCopy
	return nil
}

// GetUser returns a copy of the user.
func (s *Store) GetUser(_ context.Context, userID uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[userID]
	if !exists {
		return nil, errs.ErrNotFound
	}
	userCopy := *u
	return &userCopy, nil
}

// GetUserByEmail returns a copy of the user with that email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			userCopy := *u
			return &userCopy, nil
		}
	}
	return nil, errs.ErrNotFound
}

// UpdateDefaultBuyAmount sets the user's spend per buy.
func (s *Store) UpdateDefaultBuyAmount(_ context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[userID]
	if !exists {
		return errs.ErrNotFound
	}
	u.DefaultBuyAmount = amount
	return nil
}

// ListUsers pages users ordered by creation time.
func (s *Store) ListUsers(_ context.Context, offset, limit int) ([]store.UserSummary, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt == users[j].CreatedAt {
			return users[i].Email < users[j].Email
		}
		return users[i].CreatedAt < users[j].CreatedAt
	})

	total := int64(len(users))
	if offset >= len(users) {
		return []store.UserSummary{}, total, nil
	}
	end := offset + limit
	if end > len(users) {
		end = len(users)
	}

	out := make([]store.UserSummary, 0, end-offset)
	for _, u := range users[offset:end] {
		var count int64
		for k := range s.holdings {
			if k.userID == u.ID {
				count++
			}
		}
		out = append(out, store.UserSummary{
			ID:               u.ID,
			Email:            u.Email,
			Role:             u.Role,
			DefaultBuyAmount: u.DefaultBuyAmount,
			Holdings:         count,
		})
	}
	return out, total, nil
}
