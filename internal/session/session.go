// Package session is the explicit per-user context the application drives:
// it owns the loaded catalog, the user's preferences and holdings, the current
// category and the swipe cursor, and re-fetches user data after every mutation.
//
// A Session is not safe for concurrent use; one user action runs at a time.
package session

import (
	"context" // Context for store calls
	"errors"  // Step error inspection
	"fmt"     // Error wrapping
	"strings" // Direction parsing
	"time"    // Trade clock

	"github.com/google/uuid"        // User identifiers
	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logging

	"token_swipe/internal/catalog"    // Token catalog
	"token_swipe/internal/domain"     // Domain models
	"token_swipe/internal/errs"       // Error taxonomy
	"token_swipe/internal/feed"       // Feed generation
	"token_swipe/internal/identity"   // Current user
	"token_swipe/internal/portfolio"  // Valuation
	"token_swipe/internal/preference" // Preference ledger
	"token_swipe/internal/store"      // Persistence contracts
	"token_swipe/internal/trading"    // Buy and sell engine
)

// Direction of a swipe.
type Direction string

// Swipe directions: left passes, right likes and buys.
const (
	Left  Direction = "left"
	Right Direction = "right"
)

// ParseDirection validates a swipe direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Left, Right:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", errs.ErrInvalidDirection, s)
}

// CursorStore persists the swipe cursor between sessions of the same user.
type CursorStore interface {
	LoadCursor(ctx context.Context, userID uuid.UUID) (int, error)
	SaveCursor(ctx context.Context, userID uuid.UUID, position int) error
}

// Config wires a Session.
type Config struct {
	Identity     identity.Provider
	Gateway      store.Gateway
	Catalog      catalog.Source // defaults to Gateway
	Cursors      CursorStore    // optional
	DefaultSpend decimal.Decimal
	Clock        func() time.Time
	Logger       logrus.FieldLogger
}

// FeedView is the feed for one category plus swipe progress.
type FeedView struct {
	Category  *domain.Category `json:"category"`
	Tokens    []domain.Token   `json:"tokens"`
	Position  int              `json:"position"`
	Remaining int              `json:"remaining"`
}

// SwipeResult describes what a swipe did.
type SwipeResult struct {
	Token              domain.Token    `json:"token"`
	Direction          Direction       `json:"direction"`
	PreferenceRecorded bool            `json:"preference_recorded"`
	Holding            *domain.Holding `json:"holding,omitempty"`
	FailedStep         trading.Step    `json:"failed_step,omitempty"`
	Position           int             `json:"position"`
}

// Session is the ledger context of one signed-in user.
type Session struct {
	identity identity.Provider  // Who is signed in
	gateway  store.Gateway      // Holdings and preferences
	catalog  *catalog.Store     // Token snapshot
	ledger   *preference.Ledger // Like and dislike writes
	engine   *trading.Engine    // Buy and sell
	cursors  CursorStore        // Optional cursor persistence
	log      logrus.FieldLogger // Logger

	user     *domain.Identity // Nil when signed out
	category *domain.Category // Nil means all categories
	cursor   feed.Cursor      // Position in the current feed
	prefs    preference.Sets  // Last fetched preferences
	pending  domain.IDSet     // judged here but not yet seen in a re-fetch
	holdings []domain.Holding
}

// New builds a session. Call Start before using it.
func New(cfg Config) *Session {
	source := cfg.Catalog
	if source == nil {
		source = cfg.Gateway
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	cat := catalog.New(source)
	ledger := preference.NewLedger(cfg.Gateway)

	opts := []trading.Option{trading.WithLogger(log), trading.WithDefaultSpend(cfg.DefaultSpend)}
	if cfg.Clock != nil {
		opts = append(opts, trading.WithClock(cfg.Clock))
	}

	return &Session{
		identity: cfg.Identity,
		gateway:  cfg.Gateway,
		catalog:  cat,
		ledger:   ledger,
		engine:   trading.NewEngine(cat, cfg.Gateway, ledger, opts...),
		cursors:  cfg.Cursors,
		log:      log,
		prefs:    emptySets(),
		pending:  domain.NewIDSet(),
	}
}

func emptySets() preference.Sets {
	return preference.Sets{Liked: domain.NewIDSet(), Disliked: domain.NewIDSet()}
}

// Start loads the catalog and, when someone is signed in, their holdings and preferences.
func (s *Session) Start(ctx context.Context) error {
	if _, err := s.catalog.Load(ctx); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// ReloadCatalog fetches a fresh catalog snapshot, keeping the old one on failure.
func (s *Session) ReloadCatalog(ctx context.Context) error {
	_, err := s.catalog.Load(ctx)
	return err
}

// Refresh resolves the current user again and re-fetches their holdings and preferences.
// Signed-out sessions are cleared.
func (s *Session) Refresh(ctx context.Context) error {
	user, err := s.identity.CurrentUser(ctx)
	if errors.Is(err, errs.ErrUnauthenticated) {
		s.clearUser()
		return nil
	}
	if err != nil {
		return err
	}
	if s.user == nil || s.user.UserID != user.UserID {
		s.switchUser(ctx, user)
	}
	s.user = &user
	return s.refreshUserData(ctx, user.UserID)
}

// OnAuthChange is the observer hook for identity push notifications.
func (s *Session) OnAuthChange(ctx context.Context, user *domain.Identity) error {
	if user == nil {
		s.clearUser()
		return nil
	}
	return s.Refresh(ctx)
}

func (s *Session) clearUser() {
	s.user = nil
	s.prefs = emptySets()
	s.pending = domain.NewIDSet()
	s.holdings = nil
	s.cursor = feed.NewCursor(0)
}

func (s *Session) switchUser(ctx context.Context, user domain.Identity) {
	s.clearUser()
	if s.cursors == nil {
		return
	}
	position, err := s.cursors.LoadCursor(ctx, user.UserID)
	if err != nil {
		s.log.WithField("user_id", user.UserID).WithError(err).Warn("failed to load swipe cursor, starting at zero")
		return
	}
	s.cursor = feed.NewCursor(position)
}

// refreshUserData replaces holdings and preferences only when both reads succeed.
func (s *Session) refreshUserData(ctx context.Context, userID uuid.UUID) error {
	holdings, err := s.gateway.FetchHoldings(ctx, userID)
	if err != nil {
		return fmt.Errorf("load holdings: %w: %w", errs.ErrFetchFailure, err)
	}
	prefs, err := s.ledger.Load(ctx, userID)
	if err != nil {
		return err
	}

	s.holdings = holdings
	s.prefs = prefs
	for _, id := range s.pending.Sorted() {
		if prefs.Judged(id) {
			s.pending.Remove(id)
		}
	}
	return nil
}

// currentUser asks the provider so the default buy amount is never stale.
func (s *Session) currentUser(ctx context.Context) (*domain.Identity, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if s.user == nil || s.user.UserID != user.UserID {
		s.switchUser(ctx, user)
	}
	s.user = &user
	return &user, nil
}

// User returns the identity resolved by the last refresh or action.
func (s *Session) User() *domain.Identity { return s.user }

// Catalog exposes the loaded catalog snapshot.
func (s *Session) Catalog() *catalog.Store { return s.catalog }

// Preferences returns the last fetched liked and disliked sets.
func (s *Session) Preferences() preference.Sets { return s.prefs }

// Holdings returns a copy of the last fetched holdings.
func (s *Session) Holdings() []domain.Holding {
	out := make([]domain.Holding, len(s.holdings))
	copy(out, s.holdings)
	return out
}

// Position is the number of resolved swipes.
func (s *Session) Position() int { return s.cursor.Position() }

// Category is the category the feed is currently filtered by, nil for all.
func (s *Session) Category() *domain.Category { return s.category }

// GetFeed selects category (nil for all) and returns the tokens left to swipe.
func (s *Session) GetFeed(category *domain.Category) FeedView {
	s.category = category
	tokens := s.feed()
	return FeedView{
		Category:  category,
		Tokens:    tokens,
		Position:  s.cursor.Position(),
		Remaining: len(tokens),
	}
}

func (s *Session) feed() []domain.Token {
	disliked := domain.NewIDSet()
	for id := range s.prefs.Disliked {
		disliked.Add(id)
	}
	for id := range s.pending {
		disliked.Add(id)
	}
	return feed.Generate(s.catalog.Snapshot(), s.category, s.prefs.Liked, disliked)
}

// Current returns the token at the head of the feed.
func (s *Session) Current() (domain.Token, bool) {
	tokens := s.feed()
	if len(tokens) == 0 {
		return domain.Token{}, false
	}
	return tokens[0], true
}

// Swipe resolves the head of the feed: left dislikes, right likes and buys.
// Once the preference is written the token leaves the feed and the cursor advances,
// even if the buy of a right swipe fails afterwards.
func (s *Session) Swipe(ctx context.Context, dir Direction) (SwipeResult, error) {
	dir, err := ParseDirection(string(dir))
	if err != nil {
		return SwipeResult{}, err
	}
	user, err := s.currentUser(ctx)
	if err != nil {
		return SwipeResult{}, fmt.Errorf("swipe: %w", err)
	}
	head, ok := s.Current()
	if !ok {
		return SwipeResult{}, errs.ErrFeedExhausted
	}

	result := SwipeResult{Token: head, Direction: dir, Position: s.cursor.Position()}
	var actionErr error
	switch dir {
	case Left:
		actionErr = s.engine.Dislike(ctx, user, head.ID)
		result.PreferenceRecorded = actionErr == nil
		if actionErr != nil {
			result.FailedStep = trading.StepPreference
		}
	case Right:
		outcome, err := s.engine.Like(ctx, user, head.ID)
		actionErr = err
		result.PreferenceRecorded = outcome.PreferenceRecorded()
		result.Holding = outcome.Holding
		result.FailedStep = outcome.FailedStep()
	}

	if !result.PreferenceRecorded {
		return result, actionErr
	}

	s.pending.Add(head.ID)
	result.Position = s.advance(ctx, user.UserID)
	return result, errors.Join(actionErr, s.refreshUserData(ctx, user.UserID))
}

func (s *Session) advance(ctx context.Context, userID uuid.UUID) int {
	position := s.cursor.Advance()
	if s.cursors != nil {
		if err := s.cursors.SaveCursor(ctx, userID, position); err != nil {
			s.log.WithField("user_id", userID).WithError(err).Warn("failed to save swipe cursor")
		}
	}
	return position
}

// Buy spends the user's default buy amount on tokenID.
func (s *Session) Buy(ctx context.Context, tokenID string) (*domain.Holding, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("buy %s: %w", tokenID, err)
	}
	holding, err := s.engine.Buy(ctx, user, tokenID)
	if err != nil {
		return nil, err
	}
	return holding, s.refreshUserData(ctx, user.UserID)
}

// BuyAmount spends spend on tokenID.
func (s *Session) BuyAmount(ctx context.Context, tokenID string, spend decimal.Decimal) (*domain.Holding, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("buy %s: %w", tokenID, err)
	}
	holding, err := s.engine.BuyAmount(ctx, user, tokenID, spend)
	if err != nil {
		return nil, err
	}
	return holding, s.refreshUserData(ctx, user.UserID)
}

// Sell closes the whole position in tokenID. sold reports whether the delete
// was written, so a re-fetch failure afterwards can be told apart.
func (s *Session) Sell(ctx context.Context, tokenID string) (sold bool, err error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return false, fmt.Errorf("sell %s: %w", tokenID, err)
	}
	if err := s.engine.Sell(ctx, user, tokenID); err != nil {
		return false, err
	}
	return true, s.refreshUserData(ctx, user.UserID)
}

// PortfolioSummary values the last fetched holdings against the loaded catalog.
func (s *Session) PortfolioSummary() portfolio.Summary {
	return portfolio.Summarize(s.holdings, s.catalog)
}

// SpendFor is the amount a default buy would spend for the current user.
func (s *Session) SpendFor() decimal.Decimal {
	if s.user == nil {
		return s.engine.SpendFor(domain.Identity{})
	}
	return s.engine.SpendFor(*s.user)
}
