package domain

import (
	"context"
	"encoding/json"
)

// Loader fetches the raw bytes of a resource path.
// Implementations exist for the local content root, the HTTP data endpoint
// and packed bundles; the hosting process picks one at startup.
type Loader interface {
	// Fetch returns the body for path or a *FetchError
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// JSONLoader resolves a resource path to its parsed JSON payload.
// The fetch layer implements this with memoization; search and catalog
// depend only on this interface.
type JSONLoader interface {
	Load(ctx context.Context, path string) (json.RawMessage, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(ctx context.Context, path string) ([]byte, error)

// Fetch calls f(ctx, path)
func (f LoaderFunc) Fetch(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}
