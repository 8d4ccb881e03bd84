package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("COMMISSION_STOCK_POLICY", "reserve")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "reserve", cfg.CommissionStockPolicy)
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL())
	assert.Contains(t, cfg.DSN(), "host=db")
	assert.Contains(t, cfg.DSN(), "password=secret")
}

func TestDatabaseURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@h:5432/padaria")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h:5432/padaria", cfg.DSN())
}

func TestRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("COMMISSION_STOCK_POLICY", "sometimes")

	_, err := Load()
	assert.Error(t, err)
}
