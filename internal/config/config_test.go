package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, SourceAuto, cfg.Content.Source)
	assert.Equal(t, 100, cfg.Cache.Capacity)
	assert.Equal(t, 24, cfg.Catalog.PageSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
content:
  source: file
  root: /srv/site/data
  timeout: 3s
cache:
  capacity: 10
catalog:
  default_playlist_name: Misc
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, SourceFile, cfg.Content.Source)
	assert.Equal(t, "/srv/site/data", cfg.Content.Root)
	assert.Equal(t, 3*time.Second, cfg.Content.Timeout)
	assert.Equal(t, 10, cfg.Cache.Capacity)
	assert.Equal(t, "Misc", cfg.Catalog.DefaultPlaylistName)
	// untouched keys keep their defaults
	assert.Equal(t, 24, cfg.Catalog.PageSize)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "cache:\n  capacity: 10\n")
	t.Setenv("REEL_CACHE_CAPACITY", "7")
	t.Setenv("REEL_CONTENT_BASE_URL", "https://example.org/data")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Cache.Capacity)
	assert.Equal(t, "https://example.org/data", cfg.Content.BaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown source", func(c *Config) { c.Content.Source = "ftp" }},
		{"zero capacity", func(c *Config) { c.Cache.Capacity = 0 }},
		{"zero page size", func(c *Config) { c.Catalog.PageSize = 0 }},
		{"negative rate", func(c *Config) { c.Content.RateLimit = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigFileRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "content:\n  source: carrier-pigeon\n")
	_, err := LoadConfigFile(path)
	assert.Error(t, err)
}
