package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("create logger with console output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger, err := New(Config{Level: "info", Console: true, Output: buf})
		require.NoError(t, err)
		defer logger.Close()

		logger.Zerolog().Info().Msg("hello")
		logger.Zerolog().Debug().Msg("hidden")

		assert.Contains(t, buf.String(), `"message":"hello"`)
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("create logger with file output", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "test.log")

		logger, err := New(Config{Level: "debug", File: logFile})
		require.NoError(t, err)

		logger.Zerolog().Debug().Msg("test message")
		require.NoError(t, logger.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "test message")
	})

	t.Run("create logger with redaction", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger, err := New(Config{
			Level:     "info",
			Console:   true,
			Output:    buf,
			Redaction: true,
			Secrets:   []string{"plain-key-value"},
		})
		require.NoError(t, err)
		defer logger.Close()
		assert.NotNil(t, logger.redactor)

		logger.Zerolog().Info().Str("x-api-key", "abc123").Msg("calling with plain-key-value")

		out := buf.String()
		assert.NotContains(t, out, "abc123")
		assert.NotContains(t, out, "plain-key-value")
		assert.Contains(t, out, redacted)
	})

	t.Run("fall back to info on bad level", func(t *testing.T) {
		logger, err := New(Config{Level: "loud"})
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, logger.Zerolog().GetLevel())
	})

	t.Run("install global logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		_, err := New(Config{Level: "info", Console: true, Output: buf})
		require.NoError(t, err)

		log.Info().Msg("global")
		assert.Contains(t, buf.String(), "global")
	})

	t.Run("fail on unwritable log file", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0600))

		_, err := New(Config{File: filepath.Join(blocker, "test.log")})
		assert.Error(t, err)
	})
}

func TestComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Console: true, Output: buf})
	require.NoError(t, err)

	child := logger.Component("gateway")
	child.Info().Msg("started")
	assert.Contains(t, buf.String(), `"component":"gateway"`)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.Console)
	assert.False(t, cfg.Pretty)
	assert.True(t, cfg.Redaction)
	assert.Nil(t, cfg.Output)
}
