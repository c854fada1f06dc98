package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CHAPA_SECRET_KEY", "")
	t.Setenv("CHAPA_BASE_URL", "")
	t.Setenv("CHAPA_CURRENCY", "")
	t.Setenv("CHAPA_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, "https://api.chapa.co/v1", cfg.Chapa.BaseURL)
	assert.Equal(t, "ETB", cfg.Chapa.Currency)
	assert.Equal(t, 30*time.Second, cfg.Chapa.Timeout)
	assert.ErrorIs(t, cfg.Chapa.Validate(), ErrGatewayNotConfigured)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CHAPA_SECRET_KEY", "CHASECK-123")
	t.Setenv("CHAPA_CURRENCY", "USD")
	t.Setenv("CHAPA_TIMEOUT", "5s")
	t.Setenv("PAYMENT_RATE_LIMIT_RPS", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := Load()

	assert.NoError(t, cfg.Chapa.Validate())
	assert.Equal(t, "USD", cfg.Chapa.Currency)
	assert.Equal(t, 5*time.Second, cfg.Chapa.Timeout)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("NEW_RELIC_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.NewRelic.Enabled)
}
