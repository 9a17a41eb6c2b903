package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/reel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("Error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}

func TestSetupLoggerWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "reel.log")
	logger, err := SetupLogger(&config.LoggingConfig{File: path, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("cache miss", "path", "/index.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"cache miss"`)
	assert.Contains(t, string(data), `"path":"/index.json"`)
}

func TestConsoleLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := ConsoleLogger(&buf, slog.LevelWarn)

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	logger.Warn("degraded listing", "path", "/videos/date/page-9.json")
	assert.Contains(t, buf.String(), "degraded listing")
}

func TestNullLogger(t *testing.T) {
	NullLogger().Error("dropped")
}
