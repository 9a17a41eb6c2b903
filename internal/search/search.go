package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/fetch"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
)

// GlobalScope is the scope key of the catalog-wide index
const GlobalScope = "__all__"

// DefaultPageSize is used when Options.PageSize is not positive
const DefaultPageSize = 24

// scopeLoadTimeout bounds loading one scope, including every global chunk
const scopeLoadTimeout = 2 * time.Minute

// Options selects the scope and page of a search
type Options struct {
	Category string // Search one category
	Playlist string // Search one playlist; wins over Category
	Page     int    // 1-based, defaults to 1
	PageSize int    // defaults to DefaultPageSize
}

// ScopeKey returns the cache key of the scope selected by o
func (o Options) ScopeKey() string {
	switch {
	case o.Playlist != "":
		return "playlist/" + o.Playlist
	case o.Category != "":
		return "category/" + o.Category
	default:
		return GlobalScope
	}
}

func (o Options) scopePath() string {
	switch {
	case o.Playlist != "":
		return domain.SearchPlaylistPath(o.Playlist)
	case o.Category != "":
		return domain.SearchCategoryPath(o.Category)
	default:
		return ""
	}
}

// scopeIndex is a fully materialized scope with pre-folded titles
type scopeIndex struct {
	entries []domain.SearchEntry
	folded  []string
}

func newScopeIndex(entries []domain.SearchEntry) *scopeIndex {
	folder := cases.Fold()
	folded := make([]string, len(entries))
	for i, e := range entries {
		folded[i] = folder.String(e.Title)
	}
	return &scopeIndex{entries: entries, folded: folded}
}

// Aggregator lazily loads search entries per scope and filters them by title.
// A scope, once loaded, is kept for the life of the Aggregator.
type Aggregator struct {
	loader domain.JSONLoader
	logger *slog.Logger

	mu     sync.RWMutex
	scopes map[string]*scopeIndex
	group  singleflight.Group
}

// NewAggregator creates an aggregator reading through loader
func NewAggregator(loader domain.JSONLoader, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		loader: loader,
		logger: logger,
		scopes: make(map[string]*scopeIndex),
	}
}

// Search returns the page of entries in the selected scope whose title
// contains query, ignoring case. Match order follows the index order.
// A blank query returns an empty page without loading anything. Only a
// failure to load the global scope, or the caller's own cancellation, is
// returned as an error.
func (a *Aggregator) Search(ctx context.Context, query string, opts Options) (domain.VideoPage, error) {
	page, pageSize := normalizePage(opts.Page, opts.PageSize)

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.EmptyPage(page, pageSize), nil
	}

	idx, err := a.scope(ctx, opts)
	if err != nil {
		return domain.VideoPage{}, err
	}

	needle := cases.Fold().String(query)
	var matches []int
	for i, title := range idx.folded {
		if strings.Contains(title, needle) {
			matches = append(matches, i)
		}
	}

	result := domain.EmptyPage(page, pageSize)
	result.Total = len(matches)
	result.TotalPages = domain.TotalPages(len(matches), pageSize)

	// checked before multiplying so huge page values cannot overflow
	if len(matches) == 0 || page-1 > (len(matches)-1)/pageSize {
		return result, nil
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, len(matches)-start)

	result.Items = make([]domain.VideoSummary, 0, end-start)
	for _, i := range matches[start:end] {
		result.Items = append(result.Items, idx.entries[i].Summary())
	}

	a.logger.Debug("search complete", "query", query, "scope", opts.ScopeKey(), "total", result.Total)
	return result, nil
}

// Entries returns the materialized entries of the selected scope
func (a *Aggregator) Entries(ctx context.Context, opts Options) ([]domain.SearchEntry, error) {
	idx, err := a.scope(ctx, opts)
	if err != nil {
		return nil, err
	}
	return idx.entries, nil
}

// Loaded reports whether the scope with the given key is cached
func (a *Aggregator) Loaded(scopeKey string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.scopes[scopeKey]
	return ok
}

// Clear drops every loaded scope
func (a *Aggregator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scopes = make(map[string]*scopeIndex)
	a.logger.Debug("cleared search scopes")
}

// scope returns the cached index for the selected scope, loading it on first use
func (a *Aggregator) scope(ctx context.Context, opts Options) (*scopeIndex, error) {
	key := opts.ScopeKey()

	a.mu.RLock()
	idx, ok := a.scopes[key]
	a.mu.RUnlock()
	if ok {
		return idx, nil
	}

	// the shared load outlives any single caller's cancellation
	ch := a.group.DoChan(key, func() (any, error) {
		a.mu.RLock()
		idx, ok := a.scopes[key]
		a.mu.RUnlock()
		if ok {
			return idx, nil
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), scopeLoadTimeout)
		defer cancel()

		if key == GlobalScope {
			entries, err := a.loadGlobal(ctx)
			if err != nil {
				a.logger.Error("failed to load search index", "error", err)
				return nil, err
			}
			return a.store(key, entries), nil
		}

		entries, err := fetch.Decode[[]domain.SearchEntry](ctx, a.loader, opts.scopePath())
		if err != nil {
			// not cached: the next query for this scope tries again
			a.logger.Warn("failed to load search scope", "scope", key, "error", err)
			return newScopeIndex(nil), nil
		}
		return a.store(key, entries), nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*scopeIndex), nil
	case <-ctx.Done():
		path := opts.scopePath()
		if path == "" {
			path = domain.SearchManifestPath
		}
		return nil, &domain.FetchError{Path: path, Err: ctx.Err()}
	}
}

func (a *Aggregator) store(key string, entries []domain.SearchEntry) *scopeIndex {
	idx := newScopeIndex(entries)
	a.mu.Lock()
	a.scopes[key] = idx
	a.mu.Unlock()
	a.logger.Debug("loaded search scope", "scope", key, "entries", len(entries))
	return idx
}

// loadGlobal reads the manifest and then every chunk in ascending order
func (a *Aggregator) loadGlobal(ctx context.Context) ([]domain.SearchEntry, error) {
	manifest, err := fetch.Decode[domain.SearchManifest](ctx, a.loader, domain.SearchManifestPath)
	if err != nil {
		return nil, err
	}

	var all []domain.SearchEntry
	for i := 1; i <= manifest.TotalChunks; i++ {
		chunk, err := fetch.Decode[domain.SearchChunk](ctx, a.loader, domain.SearchChunkPath(i))
		if err != nil {
			return nil, err
		}
		all = append(all, chunk.Entries...)
	}
	return all, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}
