package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	base := DBConfig{User: "root", Password: "secret", Host: "db", Port: "3306", Name: "token_swipe", SQLitePath: "ledger.db"}

	tests := []struct {
		driver  string
		want    string
		wantErr bool
	}{
		{driver: "mysql", want: "root:secret@tcp(db:3306)/token_swipe?parseTime=true"},
		{driver: "postgres", want: "host=db user=root password=secret dbname=token_swipe port=3306 sslmode=disable"},
		{driver: "sqlite", want: "ledger.db"},
		{driver: "oracle", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := base
			cfg.Driver = tt.driver
			got, err := cfg.DSN()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultSpend(t *testing.T) {
	amount, err := (&Config{DefaultBuyAmount: "0.01"}).DefaultSpend()
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("0.01")))

	for _, bad := range []string{"0", "-1", "lots"} {
		_, err := (&Config{DefaultBuyAmount: bad}).DefaultSpend()
		assert.Error(t, err, bad)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CATALOG_CACHE_TTL", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.CatalogCacheTTL)
	assert.Equal(t, "0.01", cfg.DefaultBuyAmount)
	assert.Equal(t, 30*time.Second, cfg.DB.ConnectTimeout)
}

func TestLoadConfigRejectsBadSpend(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DEFAULT_BUY_AMOUNT", "-0.5")

	_, err := LoadConfig()
	assert.Error(t, err)
}
