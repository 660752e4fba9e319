package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. BUFFETTCODE_GATEWAY_PORT.
const EnvPrefix = "BUFFETTCODE"

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// Environment variable names kept for compatibility with existing setups.
const (
	EnvAPIKey  = "BUFFETT_CODE_API_KEY"
	EnvBaseURL = "BUFFETT_CODE_BASE_URL"
)

// aliases maps config keys to extra environment variable names.
var aliases = map[string][]string{
	"buffett_code.api_key":  {EnvAPIKey},
	"buffett_code.base_url": {EnvBaseURL},
}

// Loader handles configuration loading
type Loader struct {
	configPath string
	envFile    string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
		envFile:    DefaultEnvFile,
	}
}

// WithEnvFile sets the dotenv file; an empty path disables it.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load builds the configuration. Precedence, highest first: process
// environment, dotenv file, config file, defaults. A missing config file is
// not an error.
func (l *Loader) Load() (*Config, error) {
	configPath := l.GetConfigPath()

	v := viper.New()
	v.SetConfigType("json")
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range aliases {
		if err := v.BindEnv(append([]string{key, envName(key)}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if err := l.applyEnvFile(v); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.BuffettCode.APIKey = strings.TrimSpace(cfg.BuffettCode.APIKey)
	cfg.BuffettCode.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BuffettCode.BaseURL), "/")

	return cfg, nil
}

// applyEnvFile loads dotenv entries as if they were environment variables
// that are not already set.
func (l *Loader) applyEnvFile(v *viper.Viper) error {
	if l.envFile == "" {
		return nil
	}
	if _, err := os.Stat(l.envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}

	dotenv := viper.New()
	dotenv.SetConfigFile(l.envFile)
	dotenv.SetConfigType("env")
	if err := dotenv.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}

	for _, key := range v.AllKeys() {
		names := append([]string{envName(key)}, aliases[key]...)
		if anyEnvSet(names) {
			continue
		}
		for _, name := range names {
			if value := dotenv.GetString(strings.ToLower(name)); value != "" {
				v.Set(key, value)
				break
			}
		}
	}
	return nil
}

// Save saves the configuration to file
func (l *Loader) Save(cfg *Config) error {
	configPath := l.GetConfigPath()
	if configPath == "" {
		return fmt.Errorf("failed to determine config path")
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	v.Set("buffett_code", cfg.BuffettCode)
	v.Set("logging", cfg.Logging)
	v.Set("gateway", cfg.Gateway)
	v.Set("server", cfg.Server)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	// The file holds the API key.
	if err := os.Chmod(configPath, 0600); err != nil {
		return fmt.Errorf("failed to restrict config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the config file path
func (l *Loader) GetConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".buffettcode-mcp", "config.json")
}

// Load is a convenience function that creates a loader and loads the config
func Load(configPath string) (*Config, error) {
	return NewLoader(configPath).Load()
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("buffett_code.base_url", cfg.BuffettCode.BaseURL)
	v.SetDefault("buffett_code.api_key", cfg.BuffettCode.APIKey)
	v.SetDefault("buffett_code.timeout", cfg.BuffettCode.Timeout)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.pretty", cfg.Logging.Pretty)
	v.SetDefault("logging.redaction", cfg.Logging.Redaction)
	v.SetDefault("gateway.host", cfg.Gateway.Host)
	v.SetDefault("gateway.port", cfg.Gateway.Port)
	v.SetDefault("gateway.shared_secret", cfg.Gateway.SharedSecret)
	v.SetDefault("gateway.requests_per_minute", cfg.Gateway.RequestsPerMinute)
	v.SetDefault("gateway.max_concurrent", cfg.Gateway.MaxConcurrent)
	v.SetDefault("server.name", cfg.Server.Name)
	v.SetDefault("server.version", cfg.Server.Version)
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func anyEnvSet(names []string) bool {
	for _, name := range names {
		if _, ok := os.LookupEnv(name); ok {
			return true
		}
	}
	return false
}
