package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harun/buffettcode-mcp/pkg/buffettcode"
)

// ErrMissingAPIKey is the startup configuration error: the server never
// starts without a Buffett Code API key.
var ErrMissingAPIKey = errors.New("BUFFETT_CODE_API_KEY environment variable is required")

// Config represents the server configuration
type Config struct {
	// Upstream API
	BuffettCode BuffettCodeConfig `json:"buffett_code" mapstructure:"buffett_code"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Gateway configuration
	Gateway GatewayConfig `json:"gateway" mapstructure:"gateway"`

	// MCP server identity
	Server ServerConfig `json:"server" mapstructure:"server"`
}

// BuffettCodeConfig holds the upstream API settings
type BuffettCodeConfig struct {
	BaseURL string `json:"base_url" mapstructure:"base_url"`
	APIKey  string `json:"api_key" mapstructure:"api_key"`
	Timeout int    `json:"timeout" mapstructure:"timeout"` // seconds
}

// TimeoutDuration returns the request timeout
func (c BuffettCodeConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// GatewayConfig holds gateway server configuration
type GatewayConfig struct {
	Port         int    `json:"port" mapstructure:"port"`
	Host         string `json:"host" mapstructure:"host"`
	SharedSecret string `json:"shared_secret" mapstructure:"shared_secret"`
	// Optional per websocket connection limits; zero means unlimited.
	RequestsPerMinute int `json:"requests_per_minute" mapstructure:"requests_per_minute"`
	MaxConcurrent     int `json:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig holds the identity reported to MCP clients
type ServerConfig struct {
	Name    string `json:"name" mapstructure:"name"`
	Version string `json:"version" mapstructure:"version"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		BuffettCode: BuffettCodeConfig{
			BaseURL: buffettcode.DefaultBaseURL,
			Timeout: 30,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Redaction: true,
		},
		Gateway: GatewayConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Server: ServerConfig{
			Name:    "buffetcode-mcp-server",
			Version: "0.1.0",
		},
	}
}

// String returns a JSON representation of the config with secrets masked
func (c *Config) String() string {
	masked := *c
	if masked.BuffettCode.APIKey != "" {
		masked.BuffettCode.APIKey = "********"
	}
	if masked.Gateway.SharedSecret != "" {
		masked.Gateway.SharedSecret = "********"
	}
	data, _ := json.MarshalIndent(masked, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid. A missing API key is
// reported as ErrMissingAPIKey so callers can match it.
func (c *Config) Validate() error {
	errs := NewValidator().ValidateConfig(c)
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// ValidateFor checks only what the given mode needs; the gateway section is
// skipped for stdio.
func (c *Config) ValidateFor(gateway bool) error {
	v := NewValidator()
	if err := v.ValidateAPIKey(c.BuffettCode.APIKey); err != nil {
		return err
	}
	if err := v.ValidateBaseURL(c.BuffettCode.BaseURL); err != nil {
		return err
	}
	if c.BuffettCode.Timeout <= 0 {
		return fmt.Errorf("buffett_code.timeout must be > 0")
	}
	if err := v.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if gateway {
		if err := v.ValidatePort(c.Gateway.Port); err != nil {
			return err
		}
		if c.Gateway.RequestsPerMinute < 0 || c.Gateway.MaxConcurrent < 0 {
			return fmt.Errorf("gateway limits cannot be negative")
		}
	}
	return nil
}
