package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/harun/buffettcode-mcp/internal/config"
	"github.com/harun/buffettcode-mcp/internal/logger"
	"github.com/harun/buffettcode-mcp/internal/metrics"
	"github.com/harun/buffettcode-mcp/pkg/buffettcode"
	"github.com/harun/buffettcode-mcp/pkg/catalog"
	"github.com/harun/buffettcode-mcp/pkg/dispatcher"
)

// app is the wired server shared by every command that calls tools.
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	metrics    *metrics.Metrics
	dispatcher *dispatcher.Dispatcher
}

// loadConfig reads configuration and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = version
	}
	return cfg, nil
}

// newApp validates cfg and wires logger, metrics, catalog, client and
// dispatcher. Console logs go to logOut, never stdout in stdio mode.
func newApp(cfg *config.Config, gatewayMode bool, logOut io.Writer) (*app, error) {
	if err := cfg.ValidateFor(gatewayMode); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if logOut == nil {
		logOut = os.Stderr
	}
	log, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   true,
		Output:    logOut,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
		Secrets:   []string{cfg.BuffettCode.APIKey, cfg.Gateway.SharedSecret},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	c, err := catalog.Default()
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("tool catalog self-check failed: %w", err)
	}

	m := metrics.NewMetrics()
	client, err := buffettcode.New(cfg.BuffettCode.BaseURL, cfg.BuffettCode.APIKey,
		buffettcode.WithTimeout(cfg.BuffettCode.TimeoutDuration()),
		buffettcode.WithObserver(m),
		buffettcode.WithLogger(log.Component("buffettcode")),
	)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	d := dispatcher.New(c, client,
		dispatcher.WithObserver(m),
		dispatcher.WithLogger(log.Component("dispatcher")),
	)

	log.Zerolog().Debug().
		Int("tools", c.Len()).
		Str("base_url", client.BaseURL()).
		Msg("Server wired")

	return &app{cfg: cfg, log: log, metrics: m, dispatcher: d}, nil
}

func (a *app) Close() error {
	return a.log.Close()
}
