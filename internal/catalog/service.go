package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/fetch"
	"github.com/mmcdole/reel/internal/search"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPageSize     = 24
	defaultPlaylistName = "Other Videos"
)

// ListOptions selects one page of a video listing
type ListOptions struct {
	Page     int             // 1-based, defaults to 1
	Sort     domain.SortMode // defaults to domain.SortDate
	Category string          // optional category selector
	Playlist string          // optional playlist selector, wins over Category
}

// Service answers catalog queries from the generated content tree.
type Service struct {
	loader   domain.JSONLoader
	searcher *search.Aggregator
	logger   *slog.Logger

	pageSize            int
	defaultPlaylistName string

	// single-slot memo, independent of the fragment cache
	indexMu    sync.Mutex
	index      *domain.SiteIndex
	indexGroup singleflight.Group
}

// NewService creates a new catalog service.
func NewService(loader domain.JSONLoader, searcher *search.Aggregator, cfg config.CatalogConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if searcher == nil {
		searcher = search.NewAggregator(loader, logger)
	}
	s := &Service{
		loader:              loader,
		searcher:            searcher,
		logger:              logger,
		pageSize:            cfg.PageSize,
		defaultPlaylistName: cfg.DefaultPlaylistName,
	}
	if s.pageSize <= 0 {
		s.pageSize = defaultPageSize
	}
	if s.defaultPlaylistName == "" {
		s.defaultPlaylistName = defaultPlaylistName
	}
	return s
}

// GetIndex returns the site index, loading it on first use. Once loaded
// the index is kept for the life of the service. Load failures are
// returned and not remembered. Concurrent first calls share one load, and
// each caller stops waiting when its own ctx is done.
func (s *Service) GetIndex(ctx context.Context) (*domain.SiteIndex, error) {
	if idx := s.memoizedIndex(); idx != nil {
		return idx, nil
	}

	ch := s.indexGroup.DoChan(domain.IndexPath, func() (any, error) {
		if idx := s.memoizedIndex(); idx != nil {
			return idx, nil
		}

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetch.DefaultFlightTimeout)
		defer cancel()

		idx, err := fetch.Decode[domain.SiteIndex](loadCtx, s.loader, domain.IndexPath)
		if err != nil {
			s.logger.Error("failed to load site index", "error", err)
			return nil, err
		}

		s.indexMu.Lock()
		s.index = &idx
		s.indexMu.Unlock()
		s.logger.Debug("loaded site index", "videos", idx.Stats.TotalVideos, "playlists", len(idx.Playlists))
		return &idx, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.SiteIndex), nil
	case <-ctx.Done():
		return nil, &domain.FetchError{Path: domain.IndexPath, Err: ctx.Err()}
	}
}

func (s *Service) memoizedIndex() *domain.SiteIndex {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	return s.index
}

// ClearIndex forgets the memoized site index
func (s *Service) ClearIndex() {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	s.index = nil
}

// GetVideos returns one page of a listing. A listing that cannot be loaded
// yields an empty page echoing the requested page and page size.
func (s *Service) GetVideos(ctx context.Context, opts ListOptions) domain.VideoPage {
	page := max(opts.Page, 1)
	sort := domain.ParseSortMode(string(opts.Sort))
	path := domain.ListingPath(sort, opts.Category, opts.Playlist, page)

	result, err := fetch.Decode[domain.VideoPage](ctx, s.loader, path)
	if err != nil {
		s.logger.Warn("listing unavailable", "path", path, "error", err)
		return domain.EmptyPage(page, s.pageSize)
	}

	if result.Items == nil {
		result.Items = []domain.VideoSummary{}
	}
	return result
}

// GetVideo returns the detail document for id. Missing videos and load
// failures both report false.
func (s *Service) GetVideo(ctx context.Context, id string) (*domain.VideoDetail, bool) {
	if id == "" {
		return nil, false
	}

	path := domain.VideoPath(id)
	video, err := fetch.Decode[domain.VideoDetail](ctx, s.loader, path)
	if err != nil {
		s.logger.Debug("video unavailable", "id", id, "error", err)
		return nil, false
	}
	return &video, true
}

// Search runs a title search in the selected scope
func (s *Service) Search(ctx context.Context, query string, opts search.Options) (domain.VideoPage, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = s.pageSize
	}
	return s.searcher.Search(ctx, query, opts)
}

// Suggest returns fuzzy title suggestions from the global index
func (s *Service) Suggest(ctx context.Context, query string, limit int) ([]search.Suggestion, error) {
	return s.searcher.Suggest(ctx, query, limit)
}

// PageSize returns the page size used for degraded listings and searches
func (s *Service) PageSize() int { return s.pageSize }
