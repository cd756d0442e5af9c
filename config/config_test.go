package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("DB_NAME", "storefront_test")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30*time.Minute, cfg.OrderTTL)
	assert.Equal(t, "*/5 * * * *", cfg.SweepSpec)
	assert.False(t, cfg.SweepOff)
	assert.InDelta(t, 5, cfg.ShippingFee, 1e-9)
	assert.Equal(t, "USD", cfg.Currency)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9999")
	t.Setenv("ORDER_TTL", "15m")
	t.Setenv("SWEEP_DISABLED", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.OrderTTL)
	assert.True(t, cfg.SweepOff)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadMissingRequired(t *testing.T) {
	for _, key := range []string{"MONGO_URI", "DB_NAME", "JWT_SECRET"} {
		t.Setenv(key, "x") // register restore, then genuinely unset
		os.Unsetenv(key)
	}

	_, err := Load()
	assert.Error(t, err)
}
