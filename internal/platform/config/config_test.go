package config

import (
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "IDR", cfg.DefaultCurrency)
	assert.Equal(t, "auto", cfg.Statement.DefaultFormat)
	assert.Equal(t, int64(10<<20), cfg.Statement.MaxUploadBytes)
	assert.Equal(t, 20, cfg.Statement.MinTextLength)
	assert.Equal(t, 255, cfg.Statement.DescriptionMaxLength)
	assert.Equal(t, int64(80<<20), cfg.Statement.MaxInflatedBytes)
	assert.Equal(t, 5, cfg.Posting.MaxAttempts)
	assert.Equal(t, 3, cfg.Reconcile.DateToleranceDays)
	assert.Equal(t, 4, cfg.Reconcile.Workers)
	assert.Equal(t, 500, cfg.Reconcile.BatchSize)
	assert.Equal(t, "20-M", cfg.UploadRateLimit)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadConfig_EnvOverridesAndNormalization(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("POSTING_MAX_ATTEMPTS", "0")
	t.Setenv("RECONCILE_WORKERS", "8")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("DEFAULT_CURRENCY", "usd")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, 5, cfg.Posting.MaxAttempts)
	assert.Equal(t, 8, cfg.Reconcile.Workers)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
}
