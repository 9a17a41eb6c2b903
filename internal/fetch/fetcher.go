package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Stats is a snapshot of fetcher counters
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Entries   int   `json:"entries"`
	Capacity  int   `json:"capacity"`
}

// Fetcher resolves resource paths to JSON through a Loader and memoizes the
// results in a bounded Cache. Concurrent loads of the same path share one
// underlying fetch.
type Fetcher struct {
	loader domain.Loader
	cache  *Cache
	group  singleflight.Group
	logger *slog.Logger

	flightTimeout time.Duration

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// DefaultFlightTimeout bounds one shared fetch
const DefaultFlightTimeout = 30 * time.Second

// NewFetcher creates a fetcher over loader with a cache of the given capacity
func NewFetcher(loader domain.Loader, capacity int, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		loader:        loader,
		cache:         NewCache(capacity),
		logger:        logger,
		flightTimeout: DefaultFlightTimeout,
	}
}

// SetFlightTimeout changes the bound on one shared fetch
func (f *Fetcher) SetFlightTimeout(d time.Duration) {
	if d > 0 {
		f.flightTimeout = d
	}
}

// Load returns the JSON payload for path. Errors are always *domain.FetchError
// and are never cached, so a later call retries the fetch.
//
// Concurrent loads of one path share a single fetch. The shared fetch is
// detached from every caller's cancellation and bounded by the flight
// timeout; each caller stops waiting when its own ctx is done.
func (f *Fetcher) Load(ctx context.Context, path string) (json.RawMessage, error) {
	if data, ok := f.cache.Get(path); ok {
		f.hits.Add(1)
		f.logger.Debug("cache hit", "path", path)
		return data, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, &domain.FetchError{Path: path, Err: err}
	}

	ch := f.group.DoChan(path, func() (any, error) {
		// a flight that finished while we waited may have filled the slot
		if data, ok := f.cache.Get(path); ok {
			f.hits.Add(1)
			return data, nil
		}

		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.flightTimeout)
		defer cancel()

		f.misses.Add(1)
		body, err := f.loader.Fetch(flightCtx, path)
		if err != nil {
			f.logger.Debug("fetch failed", "path", path, "error", err)
			return nil, domain.NewFetchError(path, err)
		}
		if !json.Valid(body) {
			return nil, &domain.FetchError{Path: path, Err: fmt.Errorf("response is not valid JSON")}
		}

		data := json.RawMessage(body)
		if evicted, ok := f.cache.Put(path, data); ok {
			f.evictions.Add(1)
			f.logger.Debug("cache evict", "path", evicted)
		}
		return data, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	case <-ctx.Done():
		return nil, &domain.FetchError{Path: path, Err: ctx.Err()}
	}
}

// Stats returns the current counters
func (f *Fetcher) Stats() Stats {
	return Stats{
		Hits:      f.hits.Load(),
		Misses:    f.misses.Load(),
		Evictions: f.evictions.Load(),
		Entries:   f.cache.Len(),
		Capacity:  f.cache.Capacity(),
	}
}

// Cache exposes the underlying cache for inspection
func (f *Fetcher) Cache() *Cache { return f.cache }

// Clear empties the cache and resets counters
func (f *Fetcher) Clear() {
	f.cache.Clear()
	f.hits.Store(0)
	f.misses.Store(0)
	f.evictions.Store(0)
}

// Decode loads path through l and unmarshals it into a T.
// Decode failures are reported as *domain.FetchError for path.
func Decode[T any](ctx context.Context, l domain.JSONLoader, path string) (T, error) {
	var out T
	data, err := l.Load(ctx, path)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &domain.FetchError{Path: path, Err: fmt.Errorf("failed to decode: %w", err)}
	}
	return out, nil
}
