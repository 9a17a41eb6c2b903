package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SourceType selects how resource paths are resolved
type SourceType string

const (
	SourceAuto   SourceType = "auto"   // Pick from the hosting context
	SourceFile   SourceType = "file"   // Local content root
	SourceHTTP   SourceType = "http"   // Network fetch against the data endpoint
	SourceBundle SourceType = "bundle" // Packed BoltDB snapshot
)

// Config holds all application configuration
type Config struct {
	Content ContentConfig `mapstructure:"content"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ContentConfig describes where the generated JSON fragments live
type ContentConfig struct {
	Source    SourceType    `mapstructure:"source"`     // "auto", "file", "http" or "bundle"
	Root      string        `mapstructure:"root"`       // Content root for file reads
	BaseURL   string        `mapstructure:"base_url"`   // Data endpoint for network reads
	Bundle    string        `mapstructure:"bundle"`     // Packed bundle path
	Timeout   time.Duration `mapstructure:"timeout"`    // Per-request timeout for network reads
	RateLimit float64       `mapstructure:"rate_limit"` // Network requests per second, 0 = unlimited
}

// CacheConfig holds fragment cache configuration
type CacheConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// CatalogConfig holds listing and view model configuration
type CatalogConfig struct {
	PageSize            int    `mapstructure:"page_size"`
	DefaultPlaylistName string `mapstructure:"default_playlist_name"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"` // Empty logs to stderr
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			Source:  SourceAuto,
			Root:    "public/data",
			BaseURL: "http://127.0.0.1:8080/data",
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Capacity: 100,
		},
		Catalog: CatalogConfig{
			PageSize:            24,
			DefaultPlaylistName: "Other Videos",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			File:  "",
			Level: "INFO",
		},
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "reel")
	}
}

// LoadConfig loads configuration from .env, the config file and environment
func LoadConfig() (*Config, error) {
	// A missing .env is fine; anything else is worth reporting
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	return load(viper.New(), defaultConfigPath(), ".")
}

// LoadConfigFile loads configuration from an explicit file plus environment
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper, searchPaths ...string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if len(searchPaths) > 0 {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	// Environment variable overrides (REEL_CONTENT_ROOT, REEL_CACHE_CAPACITY, ...)
	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the config file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("content.source", string(cfg.Content.Source))
	v.SetDefault("content.root", cfg.Content.Root)
	v.SetDefault("content.base_url", cfg.Content.BaseURL)
	v.SetDefault("content.bundle", cfg.Content.Bundle)
	v.SetDefault("content.timeout", cfg.Content.Timeout)
	v.SetDefault("content.rate_limit", cfg.Content.RateLimit)
	v.SetDefault("cache.capacity", cfg.Cache.Capacity)
	v.SetDefault("catalog.page_size", cfg.Catalog.PageSize)
	v.SetDefault("catalog.default_playlist_name", cfg.Catalog.DefaultPlaylistName)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate reports configuration values the rest of the program cannot use
func (c *Config) Validate() error {
	switch c.Content.Source {
	case SourceAuto, SourceFile, SourceHTTP, SourceBundle:
	default:
		return fmt.Errorf("unknown content source: %q", c.Content.Source)
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("cache capacity must be at least 1, got %d", c.Cache.Capacity)
	}
	if c.Catalog.PageSize < 1 {
		return fmt.Errorf("catalog page size must be at least 1, got %d", c.Catalog.PageSize)
	}
	if c.Content.RateLimit < 0 {
		return fmt.Errorf("content rate limit must not be negative")
	}
	return nil
}
