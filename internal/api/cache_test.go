package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"token_swipe/internal/cache"
	"token_swipe/internal/domain"
	"token_swipe/internal/store/memory"
)

// setupRedis starts a Redis container, skipping when no container runtime is available.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

// newCachedTestServer wires the server the way cmd/server does, with Redis in front of the store
func newCachedTestServer(t *testing.T) *testServer {
	t.Helper()
	rdb := setupRedis(t)
	return newTestServerWith(t, func(env *Env, mem *memory.Store) {
		source := cache.NewCatalogSource(rdb, mem, time.Minute)
		env.Redis = rdb
		env.CatalogSource = source
		env.Invalidator = source
		env.Cursors = cache.NewCursorStore(rdb)
	})
}

// portfolio fetches the caller's portfolio and reports whether it came from Redis
func (s *testServer) portfolio(t *testing.T, token string) PortfolioResponse {
	t.Helper()
	w := s.do(t, http.MethodGet, "/api/portfolio", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[PortfolioResponse](t, w)
}

func TestPortfolioCacheInvalidatedByWrites(t *testing.T) {
	s := newCachedTestServer(t)
	token := s.signUp(t, "alice@example.com")

	assert.False(t, s.portfolio(t, token).Cached)
	assert.True(t, s.portfolio(t, token).Cached, "second read is served from redis")

	writes := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"buy", http.MethodPost, "/api/portfolio/buy", gin.H{"token_id": "wbtc", "amount": "1"}, http.StatusCreated},
		{"sell", http.MethodDelete, "/api/portfolio/wbtc", nil, http.StatusOK},
		{"swipe", http.MethodPost, "/api/feed/swipe", gin.H{"direction": "right", "category": "meme"}, http.StatusOK},
		{"default_buy_amount", http.MethodPut, "/api/profile/default-buy-amount", gin.H{"amount": "0.5"}, http.StatusOK},
	}
	for _, tt := range writes {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, s.portfolio(t, token).Cached, "cache is warm before the write")

			w := s.do(t, tt.method, tt.path, token, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())

			assert.False(t, s.portfolio(t, token).Cached, "write drops the cached summary")
		})
	}

	resp := s.portfolio(t, token)
	require.Len(t, resp.Summary.Positions, 1)
	assert.Equal(t, "pepe", resp.Summary.Positions[0].Token.ID)
	assert.True(t, resp.DefaultBuyAmount.Equal(decimal.RequireFromString("0.5")))
}

func TestCatalogUpsertRevaluesCachedPortfolios(t *testing.T) {
	s := newCachedTestServer(t)
	token := s.signUp(t, "alice@example.com")
	adminToken := s.signUp(t, "admin@example.com")

	w := s.do(t, http.MethodPost, "/api/portfolio/buy", token, gin.H{"token_id": "wbtc", "amount": "1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	before := s.portfolio(t, token)
	assert.True(t, before.Summary.TotalValue.Equal(decimal.NewFromInt(1)), "value = %s", before.Summary.TotalValue)
	require.True(t, s.portfolio(t, token).Cached)

	w = s.do(t, http.MethodPut, "/api/admin/tokens", adminToken, []gin.H{
		{"id": "wbtc", "name": "Wrapped Bitcoin", "symbol": "WBTC", "price": "30", "category": "bluechip", "risk_level": 2},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	after := s.portfolio(t, token)
	assert.False(t, after.Cached, "catalog upsert drops cached portfolios")
	assert.True(t, after.Summary.TotalValue.Equal(decimal.RequireFromString("1.5")), "value = %s", after.Summary.TotalValue)
	assert.True(t, after.Summary.TotalProfitLossPercent.Equal(decimal.NewFromInt(50)), "pl%% = %s", after.Summary.TotalProfitLossPercent)

	w = s.do(t, http.MethodGet, "/api/tokens/wbtc", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[domain.Token](t, w).Price.Equal(decimal.NewFromInt(30)), "catalog snapshot was refreshed")
}

func TestAdminUserListCached(t *testing.T) {
	s := newCachedTestServer(t)
	s.signUp(t, "alice@example.com")
	adminToken := s.signUp(t, "admin@example.com")

	w := s.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[UserListResponse](t, w)
	assert.False(t, first.Cached)

	w = s.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[UserListResponse](t, w)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Total, second.Total)
}
