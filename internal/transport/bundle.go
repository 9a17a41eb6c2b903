package transport

import (
	"context"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/store"
)

// BundleLoader serves fragments out of a packed BoltDB bundle
type BundleLoader struct {
	bundle *store.Bundle
}

// NewBundleLoader wraps an open bundle
func NewBundleLoader(b *store.Bundle) *BundleLoader {
	return &BundleLoader{bundle: b}
}

// Fetch looks up path in the bundle
func (l *BundleLoader) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.FetchError{Path: path, Err: err}
	}

	key, err := resolve(path)
	if err != nil {
		return nil, &domain.FetchError{Path: path, Err: err}
	}

	data, ok := l.bundle.Get(key)
	if !ok {
		return nil, &domain.FetchError{Path: path, Err: domain.ErrNotFound}
	}
	return data, nil
}

// Close closes the underlying bundle
func (l *BundleLoader) Close() error {
	return l.bundle.Close()
}
