package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.buffett-code.com", cfg.BuffettCode.BaseURL)
	assert.Empty(t, cfg.BuffettCode.APIKey)
	assert.Equal(t, 30*time.Second, cfg.BuffettCode.TimeoutDuration())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Redaction)
	assert.Equal(t, 8080, cfg.Gateway.Port)
	assert.Equal(t, "0.0.0.0", cfg.Gateway.Host)
	assert.Zero(t, cfg.Gateway.RequestsPerMinute)
	assert.Zero(t, cfg.Gateway.MaxConcurrent)
	assert.Equal(t, "buffetcode-mcp-server", cfg.Server.Name)
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BuffettCode.APIKey = "super-secret-key"
	cfg.Gateway.SharedSecret = "gateway-secret"

	out := cfg.String()
	assert.NotContains(t, out, "super-secret-key")
	assert.NotContains(t, out, "gateway-secret")
	assert.Contains(t, out, "********")
	assert.Equal(t, "super-secret-key", cfg.BuffettCode.APIKey)
}

func TestConfigValidateFor(t *testing.T) {
	t.Run("stdio ignores gateway port", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.BuffettCode.APIKey = "key"
		cfg.Gateway.Port = 0

		assert.NoError(t, cfg.ValidateFor(false))
		assert.Error(t, cfg.ValidateFor(true))
	})

	t.Run("missing key is a configuration error", func(t *testing.T) {
		assert.ErrorIs(t, DefaultConfig().ValidateFor(false), ErrMissingAPIKey)
	})

	t.Run("bad timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.BuffettCode.APIKey = "key"
		cfg.BuffettCode.Timeout = -1
		assert.Error(t, cfg.ValidateFor(false))
	})

	t.Run("negative gateway limits", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.BuffettCode.APIKey = "key"
		cfg.Gateway.MaxConcurrent = -1

		assert.NoError(t, cfg.ValidateFor(false))
		assert.Error(t, cfg.ValidateFor(true))
	})
}
