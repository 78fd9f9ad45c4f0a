package gormstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"token_swipe/internal/db"
	"token_swipe/internal/domain"
	"token_swipe/internal/errs"
	"token_swipe/internal/store/gormstore"
)

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open sqlite")
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tok(id string, c domain.Category, price string) domain.Token {
	return domain.Token{ID: id, Name: "Token " + id, Symbol: id, Price: d(price), Category: c, RiskLevel: 4}
}

func TestStoreSQLite(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) *gormstore.Store {
		return gormstore.New(setupSQLite(t))
	})
}

// runStoreSuite exercises every contract method against a fresh store per subtest
func runStoreSuite(t *testing.T, newStore func(t *testing.T) *gormstore.Store) {
	ctx := context.Background()

	t.Run("upsert_tokens", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.UpsertTokens(ctx, []domain.Token{
			tok("a-pepe", domain.CategoryMeme, "100"),
			tok("b-agix", domain.CategoryAI, "2"),
		}))

		updated := tok("a-pepe", domain.CategoryMeme, "150")
		updated.PriceChange24h = d("12.5")
		require.NoError(t, s.UpsertTokens(ctx, []domain.Token{updated}))

		tokens, err := s.FetchTokens(ctx)
		require.NoError(t, err)
		require.Len(t, tokens, 2)
		assert.Equal(t, "a-pepe", tokens[0].ID)
		assert.True(t, tokens[0].Price.Equal(d("150")), "price = %s", tokens[0].Price)
		assert.True(t, tokens[0].PriceChange24h.Equal(d("12.5")))
		assert.Equal(t, domain.CategoryAI, tokens[1].Category)
	})

	t.Run("upsert_tokens_rejects_invalid", func(t *testing.T) {
		s := newStore(t)
		err := s.UpsertTokens(ctx, []domain.Token{tok("bad", domain.CategoryMeme, "0")})
		assert.ErrorIs(t, err, errs.ErrInvalidPrice)

		tokens, err := s.FetchTokens(ctx)
		require.NoError(t, err)
		assert.Empty(t, tokens)
	})

	t.Run("upsert_holding_replaces", func(t *testing.T) {
		s := newStore(t)
		user := uuid.New()
		bought := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

		require.NoError(t, s.UpsertHolding(ctx, user, "a-pepe", d("0.0001"), d("100"), bought))
		require.NoError(t, s.UpsertHolding(ctx, user, "a-pepe", d("0.0002"), d("100"), bought.Add(time.Hour)))
		require.NoError(t, s.UpsertHolding(ctx, uuid.New(), "a-pepe", d("1"), d("100"), bought))

		holdings, err := s.FetchHoldings(ctx, user)
		require.NoError(t, err)
		require.Len(t, holdings, 1)
		assert.True(t, holdings[0].Amount.Equal(d("0.0002")), "amount = %s", holdings[0].Amount)
		assert.True(t, holdings[0].BoughtAtPrice.Equal(d("100")))
		assert.Equal(t, user, holdings[0].UserID)
	})

	t.Run("delete_holding", func(t *testing.T) {
		s := newStore(t)
		user := uuid.New()

		require.NoError(t, s.DeleteHolding(ctx, user, "missing"), "deleting a missing row is not an error")
		require.NoError(t, s.UpsertHolding(ctx, user, "a-pepe", d("1"), d("1"), time.Now()))
		require.NoError(t, s.DeleteHolding(ctx, user, "a-pepe"))

		holdings, err := s.FetchHoldings(ctx, user)
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})

	t.Run("upsert_preference_overwrites", func(t *testing.T) {
		s := newStore(t)
		user := uuid.New()

		require.NoError(t, s.UpsertPreference(ctx, user, "a-pepe", domain.Liked))
		require.NoError(t, s.UpsertPreference(ctx, user, "a-pepe", domain.Disliked))
		require.NoError(t, s.UpsertPreference(ctx, user, "b-agix", domain.Liked))

		prefs, err := s.FetchPreferences(ctx, user)
		require.NoError(t, err)
		require.Len(t, prefs, 2)
		assert.Equal(t, domain.Disliked, prefs[0].Kind)
		assert.Equal(t, domain.Liked, prefs[1].Kind)
	})

	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		alice := &domain.User{ID: uuid.New(), Email: "alice@example.com", Password: "hash", Role: "user"}
		require.NoError(t, s.CreateUser(ctx, alice))

		dup := &domain.User{ID: uuid.New(), Email: "alice@example.com", Password: "hash", Role: "user"}
		assert.ErrorIs(t, s.CreateUser(ctx, dup), errs.ErrAlreadyExists)

		got, err := s.GetUserByEmail(ctx, "Alice@Example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)

		_, err = s.GetUser(ctx, uuid.New())
		assert.ErrorIs(t, err, errs.ErrNotFound)
		_, err = s.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, errs.ErrNotFound)

		require.NoError(t, s.UpdateDefaultBuyAmount(ctx, alice.ID, d("0.05")))
		got, err = s.GetUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, got.DefaultBuyAmount.Equal(d("0.05")), "amount = %s", got.DefaultBuyAmount)
		assert.True(t, got.Identity().DefaultBuyAmount.Equal(d("0.05")))

		assert.ErrorIs(t, s.UpdateDefaultBuyAmount(ctx, uuid.New(), d("1")), errs.ErrNotFound)
	})

	t.Run("list_users", func(t *testing.T) {
		s := newStore(t)
		alice := &domain.User{ID: uuid.New(), Email: "alice@example.com", Password: "hash", Role: "admin"}
		require.NoError(t, s.CreateUser(ctx, alice))
		bob := &domain.User{ID: uuid.New(), Email: "bob@example.com", Password: "hash", Role: "user"}
		require.NoError(t, s.CreateUser(ctx, bob))

		require.NoError(t, s.UpsertHolding(ctx, bob.ID, "a-pepe", d("1"), d("1"), time.Now()))
		require.NoError(t, s.UpsertHolding(ctx, bob.ID, "b-agix", d("1"), d("1"), time.Now()))

		users, total, err := s.ListUsers(ctx, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, users, 2)

		counts := map[string]int64{}
		for _, u := range users {
			counts[u.Email] = u.Holdings
		}
		assert.Equal(t, map[string]int64{"alice@example.com": 0, "bob@example.com": 2}, counts)

		page, total, err := s.ListUsers(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, page, 1)
	})
}

func TestDuplicateDetectionNeedsTranslatedErrors(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	raw, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(raw))
	t.Cleanup(func() { _ = db.Close(raw) })

	s := gormstore.New(raw)
	require.NoError(t, s.CreateUser(ctx, &domain.User{ID: uuid.New(), Email: "alice@example.com", Password: "hash", Role: "user"}))

	// Untranslated driver errors are not matched by message text
	err = s.CreateUser(ctx, &domain.User{ID: uuid.New(), Email: "alice@example.com", Password: "hash", Role: "user"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "UNIQUE")
}
