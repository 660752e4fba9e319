package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAPIKey checks that an API key is present
func (v *Validator) ValidateAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// ValidateBaseURL requires an absolute http(s) URL
func (v *Validator) ValidateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("base url cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base url %q: host is required", raw)
	}
	return nil
}

// ValidatePort validates a TCP port
func (v *Validator) ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", port)
	}
	return nil
}

// ValidateLogLevel validates log level
func (v *Validator) ValidateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	for _, valid := range validLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid log level: %s (must be one of: %s)", level, strings.Join(validLevels, ", "))
}

// ValidateConfig performs comprehensive validation
func (v *Validator) ValidateConfig(cfg *Config) []error {
	var errors []error

	if err := v.ValidateAPIKey(cfg.BuffettCode.APIKey); err != nil {
		errors = append(errors, err)
	}
	if err := v.ValidateBaseURL(cfg.BuffettCode.BaseURL); err != nil {
		errors = append(errors, err)
	}
	if cfg.BuffettCode.Timeout <= 0 {
		errors = append(errors, fmt.Errorf("buffett_code.timeout must be > 0"))
	}

	if err := v.ValidatePort(cfg.Gateway.Port); err != nil {
		errors = append(errors, err)
	}

	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		errors = append(errors, err)
	}

	if strings.TrimSpace(cfg.Server.Name) == "" {
		errors = append(errors, fmt.Errorf("server.name cannot be empty"))
	}

	return errors
}
