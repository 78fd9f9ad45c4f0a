package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token_swipe/internal/domain"
	"token_swipe/internal/errs"
	"token_swipe/internal/identity"
	"token_swipe/internal/store/memory"
	"token_swipe/internal/trading"
)

type staticCatalog []domain.Token

func (c staticCatalog) FetchTokens(context.Context) ([]domain.Token, error) {
	out := make([]domain.Token, len(c))
	copy(out, c)
	return out, nil
}

// flakyGateway fails selected calls of the in-memory store on demand
type flakyGateway struct {
	*memory.Store
	failPreferenceReads  bool
	failPreferenceWrites bool
}

func (g *flakyGateway) FetchPreferences(ctx context.Context, userID uuid.UUID) ([]domain.Preference, error) {
	if g.failPreferenceReads {
		return nil, errors.New("read timeout")
	}
	return g.Store.FetchPreferences(ctx, userID)
}

func (g *flakyGateway) UpsertPreference(ctx context.Context, userID uuid.UUID, tokenID string, kind domain.PreferenceKind) error {
	if g.failPreferenceWrites {
		return errors.New("write timeout")
	}
	return g.Store.UpsertPreference(ctx, userID, tokenID, kind)
}

type memoryCursors map[uuid.UUID]int

func (m memoryCursors) LoadCursor(_ context.Context, userID uuid.UUID) (int, error) {
	return m[userID], nil
}

func (m memoryCursors) SaveCursor(_ context.Context, userID uuid.UUID, position int) error {
	m[userID] = position
	return nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tok(id string, c domain.Category, price string) domain.Token {
	return domain.Token{ID: id, Name: id, Symbol: id, Price: d(price), Category: c, RiskLevel: 5}
}

var testCatalog = staticCatalog{
	tok("pepe", domain.CategoryMeme, "100"),
	tok("agix", domain.CategoryAI, "2"),
	tok("doge", domain.CategoryMeme, "50"),
	tok("rug", domain.CategoryRisky, "0"),
}

type harness struct {
	session  *Session
	gateway  *flakyGateway
	identity *identity.Static
	user     domain.Identity
	cursors  memoryCursors
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	h := &harness{
		gateway:  &flakyGateway{Store: memory.New()},
		identity: identity.NewStatic(),
		user:     domain.Identity{UserID: uuid.New(), DefaultBuyAmount: d("0.01")},
		cursors:  memoryCursors{},
	}
	logger, _ := test.NewNullLogger()
	h.session = New(Config{
		Identity:     h.identity,
		Gateway:      h.gateway,
		Catalog:      testCatalog,
		Cursors:      h.cursors,
		DefaultSpend: d("0.01"),
		Logger:       logger,
	})
	require.NoError(t, h.identity.SignIn(ctx, h.user))
	require.NoError(t, h.session.Start(ctx))
	return h
}

func feedIDs(view FeedView) []string {
	out := make([]string, 0, len(view.Tokens))
	for _, t := range view.Tokens {
		out = append(out, t.ID)
	}
	return out
}

func meme() *domain.Category {
	c := domain.CategoryMeme
	return &c
}

func TestParseDirection(t *testing.T) {
	dir, err := ParseDirection(" Right ")
	require.NoError(t, err)
	assert.Equal(t, Right, dir)

	_, err = ParseDirection("up")
	assert.ErrorIs(t, err, errs.ErrInvalidDirection)
}

func TestGetFeed(t *testing.T) {
	h := newHarness(t)

	all := h.session.GetFeed(nil)
	assert.Equal(t, []string{"pepe", "agix", "doge", "rug"}, feedIDs(all))
	assert.Equal(t, 4, all.Remaining)
	assert.Equal(t, 0, all.Position)

	memes := h.session.GetFeed(meme())
	assert.Equal(t, []string{"pepe", "doge"}, feedIDs(memes))
	assert.Equal(t, domain.CategoryMeme, *h.session.Category())
}

func TestSwipeRightLikesAndBuys(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.session.Swipe(ctx, Right)
	require.NoError(t, err)
	assert.Equal(t, "pepe", res.Token.ID)
	assert.True(t, res.PreferenceRecorded)
	require.NotNil(t, res.Holding)
	assert.True(t, res.Holding.Amount.Equal(d("0.0001")))
	assert.Equal(t, 1, res.Position)

	assert.True(t, h.session.Preferences().Liked.Has("pepe"))
	require.Len(t, h.session.Holdings(), 1)
	assert.Equal(t, []string{"agix", "doge", "rug"}, feedIDs(h.session.GetFeed(nil)))
	assert.Equal(t, 1, h.cursors[h.user.UserID])
}

func TestSwipeLeftDislikes(t *testing.T) {
	h := newHarness(t)
	h.session.GetFeed(meme())

	res, err := h.session.Swipe(context.Background(), Left)
	require.NoError(t, err)
	assert.Equal(t, "pepe", res.Token.ID)
	assert.Nil(t, res.Holding)
	assert.Empty(t, h.session.Holdings())
	assert.True(t, h.session.Preferences().Disliked.Has("pepe"))

	head, ok := h.session.Current()
	require.True(t, ok)
	assert.Equal(t, "doge", head.ID)
}

func TestSwipeRightWithFailedBuyStillAdvances(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.session.GetFeed(nil)
	for i := 0; i < 3; i++ {
		_, err := h.session.Swipe(ctx, Left)
		require.NoError(t, err)
	}

	res, err := h.session.Swipe(ctx, Right)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidPrice)
	assert.Equal(t, "rug", res.Token.ID)
	assert.True(t, res.PreferenceRecorded)
	assert.Equal(t, trading.StepBuy, res.FailedStep)
	assert.Equal(t, 4, res.Position)
	assert.Empty(t, h.session.Holdings())

	_, err = h.session.Swipe(ctx, Left)
	assert.ErrorIs(t, err, errs.ErrFeedExhausted)
}

func TestSwipeWithFailedPreferenceKeepsHead(t *testing.T) {
	h := newHarness(t)
	h.gateway.failPreferenceWrites = true

	res, err := h.session.Swipe(context.Background(), Right)
	assert.ErrorIs(t, err, errs.ErrPersistenceWrite)
	assert.False(t, res.PreferenceRecorded)
	assert.Equal(t, trading.StepPreference, res.FailedStep)
	assert.Equal(t, 0, h.session.Position())

	head, ok := h.session.Current()
	require.True(t, ok)
	assert.Equal(t, "pepe", head.ID)
}

func TestSwipedTokenStaysOutWhenRefreshFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.gateway.failPreferenceReads = true
	res, err := h.session.Swipe(ctx, Left)
	assert.ErrorIs(t, err, errs.ErrFetchFailure)
	assert.True(t, res.PreferenceRecorded)

	head, ok := h.session.Current()
	require.True(t, ok)
	assert.Equal(t, "agix", head.ID, "judged token must not come back before the re-fetch succeeds")

	h.gateway.failPreferenceReads = false
	require.NoError(t, h.session.Refresh(ctx))
	assert.True(t, h.session.Preferences().Disliked.Has("pepe"))
	assert.Equal(t, []string{"agix", "doge", "rug"}, feedIDs(h.session.GetFeed(nil)))
}

func TestSwipeRequiresUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.identity.SignOut(ctx))

	_, err := h.session.Swipe(ctx, Right)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = h.session.Swipe(ctx, "diagonal")
	assert.ErrorIs(t, err, errs.ErrInvalidDirection)
}

func TestBuyAndSell(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	holding, err := h.session.Buy(ctx, "agix")
	require.NoError(t, err)
	assert.True(t, holding.Amount.Equal(d("0.005")))

	holding, err = h.session.BuyAmount(ctx, "agix", d("1"))
	require.NoError(t, err)
	assert.True(t, holding.Amount.Equal(d("0.5")))
	require.Len(t, h.session.Holdings(), 1, "a second buy replaces the position")

	summary := h.session.PortfolioSummary()
	require.Len(t, summary.Positions, 1)
	assert.True(t, summary.TotalValue.Equal(d("1")))

	sold, err := h.session.Sell(ctx, "agix")
	require.NoError(t, err)
	assert.True(t, sold)
	assert.Empty(t, h.session.Holdings())

	_, err = h.session.Buy(ctx, "unknown")
	assert.ErrorIs(t, err, errs.ErrTokenNotFound)
}

func TestSpendForFallsBack(t *testing.T) {
	h := newHarness(t)
	assert.True(t, h.session.SpendFor().Equal(d("0.01")))

	require.NoError(t, h.identity.SignIn(context.Background(), domain.Identity{UserID: h.user.UserID, DefaultBuyAmount: d("0.5")}))
	require.NoError(t, h.session.Refresh(context.Background()))
	assert.True(t, h.session.SpendFor().Equal(d("0.5")))
}

func TestAuthChangeSwitchesUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	unsubscribe := h.identity.Subscribe(h.session.OnAuthChange)
	defer unsubscribe()

	_, err := h.session.Swipe(ctx, Right)
	require.NoError(t, err)

	other := domain.Identity{UserID: uuid.New()}
	h.cursors[other.UserID] = 7
	require.NoError(t, h.identity.SignIn(ctx, other))

	assert.Equal(t, other.UserID, h.session.User().UserID)
	assert.Empty(t, h.session.Holdings())
	assert.Equal(t, 7, h.session.Position())
	assert.Equal(t, []string{"pepe", "agix", "doge", "rug"}, feedIDs(h.session.GetFeed(nil)))

	require.NoError(t, h.identity.SignOut(ctx))
	assert.Nil(t, h.session.User())
	assert.Equal(t, 0, h.session.Position())
}

func TestStartResumesSavedCursor(t *testing.T) {
	cursors := memoryCursors{}
	user := domain.Identity{UserID: uuid.New()}
	cursors[user.UserID] = 3

	id := identity.NewStatic()
	require.NoError(t, id.SignIn(context.Background(), user))
	s := New(Config{Identity: id, Gateway: memory.New(), Catalog: testCatalog, Cursors: cursors})
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 3, s.Position())
}
