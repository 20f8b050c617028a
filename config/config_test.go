package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAppKey, "12345")
	t.Setenv(EnvAppSecret, "s3cret")
	t.Setenv(EnvAppSignature, "sig")
	t.Setenv(EnvTrackingID, "track")
}

func TestLoadFromEnv(t *testing.T) {
	setCredentials(t)
	t.Setenv("STOREFRONT_CURRENCY", "EUR")
	t.Setenv("STOREFRONT_MAX_RETRIES", "2")
	t.Setenv("STOREFRONT_HTTP_TIMEOUT", "5s")
	t.Setenv("STOREFRONT_RATE_BURST", "not-a-number")
	t.Setenv("PORT", "9090")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, "12345", cfg.AppKey)
	assert.Equal(t, "s3cret", cfg.AppSecret)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, "EN", cfg.Language)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5, cfg.RateBurst, "unparsable values keep the default")
	assert.Equal(t, "9090", cfg.HTTPPort)
	require.NoError(t, cfg.Validate())
}

func TestValidateNamesMissingVariables(t *testing.T) {
	setCredentials(t)
	t.Setenv(EnvAppSecret, "")
	t.Setenv(EnvTrackingID, "  ")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredential))

	var missing *MissingEnvError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{EnvAppSecret, EnvTrackingID}, missing.Names)
	assert.EqualError(t, err, "missing required environment variable(s): AE_APP_SECRET, AE_TRACKING_ID")
}

func TestValidateCustomProxyNeedsFile(t *testing.T) {
	setCredentials(t)
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	cfg.ProxyMode = "custom"

	assert.Error(t, cfg.Validate())

	cfg.ProxyFile = "proxies.txt"
	assert.NoError(t, cfg.Validate())
}
