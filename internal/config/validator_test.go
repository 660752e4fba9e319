package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAPIKey(t *testing.T) {
	v := NewValidator()

	t.Run("valid key", func(t *testing.T) {
		assert.NoError(t, v.ValidateAPIKey("abc123"))
	})

	t.Run("empty key", func(t *testing.T) {
		assert.ErrorIs(t, v.ValidateAPIKey(""), ErrMissingAPIKey)
		assert.ErrorIs(t, v.ValidateAPIKey("   "), ErrMissingAPIKey)
	})
}

func TestValidateBaseURL(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{"https", "https://api.buffett-code.com", true},
		{"http with port", "http://localhost:8080", true},
		{"empty", "", false},
		{"relative", "/api", false},
		{"no host", "https://", false},
		{"ftp", "ftp://example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBaseURL(tt.url)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidatePort(1))
	assert.NoError(t, v.ValidatePort(65535))
	assert.Error(t, v.ValidatePort(0))
	assert.Error(t, v.ValidatePort(65536))
}

func TestValidateLogLevel(t *testing.T) {
	v := NewValidator()

	for _, level := range []string{"debug", "info", "warn", "error"} {
		assert.NoError(t, v.ValidateLogLevel(level))
	}
	assert.Error(t, v.ValidateLogLevel("verbose"))
}

func TestValidateConfig(t *testing.T) {
	v := NewValidator()

	t.Run("defaults only miss the api key", func(t *testing.T) {
		errs := v.ValidateConfig(DefaultConfig())
		assert.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], ErrMissingAPIKey)
	})

	t.Run("collect every problem", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.BuffettCode.BaseURL = "nope"
		cfg.BuffettCode.Timeout = 0
		cfg.Gateway.Port = -1
		cfg.Logging.Level = "loud"
		cfg.Server.Name = ""

		errs := v.ValidateConfig(cfg)
		assert.Len(t, errs, 6)
	})
}
