package transport

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/store"
)

// Source is the loader chosen for this process together with how it was chosen
type Source struct {
	domain.Loader
	Kind   config.SourceType
	closer io.Closer
}

// Close releases resources held by the loader, if any
func (s *Source) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// New creates the loader for the hosting context. With SourceAuto the
// choice is made from what the process can see: a packed bundle if one is
// configured and present, else the content root if it exists (server or
// build context), else the network data endpoint (client context).
func New(cfg *config.ContentConfig, logger *slog.Logger) (*Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("content config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	kind := cfg.Source
	if kind == config.SourceAuto || kind == "" {
		kind = Detect(cfg)
		logger.Debug("detected content source", "source", kind)
	}

	switch kind {
	case config.SourceBundle:
		if cfg.Bundle == "" {
			return nil, fmt.Errorf("bundle source requires content.bundle")
		}
		b, err := store.OpenBundle(cfg.Bundle)
		if err != nil {
			return nil, fmt.Errorf("failed to open bundle: %w", err)
		}
		loader := NewBundleLoader(b)
		return &Source{Loader: loader, Kind: kind, closer: loader}, nil

	case config.SourceFile:
		if cfg.Root == "" {
			return nil, fmt.Errorf("file source requires content.root")
		}
		return &Source{Loader: NewFileLoader(cfg.Root), Kind: kind}, nil

	case config.SourceHTTP:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("http source requires content.base_url")
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		loader := NewHTTPLoader(cfg.BaseURL, logger,
			WithHTTPClient(&http.Client{Timeout: timeout}),
			WithRateLimit(cfg.RateLimit),
		)
		return &Source{Loader: loader, Kind: kind}, nil

	default:
		return nil, fmt.Errorf("unknown content source: %s", kind)
	}
}

// Detect picks a concrete source type for SourceAuto
func Detect(cfg *config.ContentConfig) config.SourceType {
	if cfg.Bundle != "" {
		if fi, err := os.Stat(cfg.Bundle); err == nil && !fi.IsDir() {
			return config.SourceBundle
		}
	}
	if cfg.Root != "" {
		if fi, err := os.Stat(cfg.Root); err == nil && fi.IsDir() {
			return config.SourceFile
		}
	}
	return config.SourceHTTP
}
