// Package httpapi exposes the catalog over a small JSON API.
package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/fetch"
	"github.com/mmcdole/reel/internal/search"
)

const defaultSuggestLimit = 10

type server struct {
	catalog *catalog.Service
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

// NewServer creates an HTTP handler for the catalog API. When dataRoot is
// not empty the raw fragments under it are served at /data/.
func NewServer(svc *catalog.Service, fetcher *fetch.Fetcher, dataRoot string, logger *slog.Logger) nethttp.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &server{catalog: svc, fetcher: fetcher, logger: logger}

	mux := nethttp.NewServeMux()
	mux.Handle("GET /health", HealthHandler())
	mux.HandleFunc("GET /api/index", s.handleIndex)
	mux.HandleFunc("GET /api/home", s.handleHome)
	mux.HandleFunc("GET /api/videos", s.handleVideos)
	mux.HandleFunc("GET /api/videos/{id}", s.handleVideo)
	mux.HandleFunc("GET /api/video-page/{id}", s.handleVideoPage)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/suggest", s.handleSuggest)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	if dataRoot != "" {
		mux.Handle("GET /data/", nethttp.StripPrefix("/data", nethttp.FileServer(nethttp.Dir(dataRoot))))
	}

	return s.logRequests(mux)
}

// HealthHandler returns a simple health check endpoint.
func HealthHandler() nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(nethttp.StatusOK)
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
}

func (s *server) handleIndex(w nethttp.ResponseWriter, r *nethttp.Request) {
	idx, err := s.catalog.GetIndex(r.Context())
	if err != nil {
		httpError(w, nethttp.StatusServiceUnavailable, "site index unavailable")
		return
	}
	writeJSON(w, nethttp.StatusOK, idx)
}

func (s *server) handleHome(w nethttp.ResponseWriter, r *nethttp.Request) {
	home, err := s.catalog.LoadHome(r.Context(), listOptions(r))
	if err != nil {
		httpError(w, nethttp.StatusServiceUnavailable, "site index unavailable")
		return
	}
	writeJSON(w, nethttp.StatusOK, home)
}

func (s *server) handleVideos(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, s.catalog.GetVideos(r.Context(), listOptions(r)))
}

func (s *server) handleVideo(w nethttp.ResponseWriter, r *nethttp.Request) {
	video, ok := s.catalog.GetVideo(r.Context(), r.PathValue("id"))
	if !ok {
		httpError(w, nethttp.StatusNotFound, "video not found")
		return
	}
	writeJSON(w, nethttp.StatusOK, video)
}

func (s *server) handleVideoPage(w nethttp.ResponseWriter, r *nethttp.Request) {
	view, ok := s.catalog.LoadVideoPage(r.Context(), r.PathValue("id"))
	if !ok {
		httpError(w, nethttp.StatusNotFound, "video not found")
		return
	}
	writeJSON(w, nethttp.StatusOK, view)
}

func (s *server) handleSearch(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	opts := search.Options{
		Category: q.Get("category"),
		Playlist: q.Get("playlist"),
		Page:     intParam(q.Get("page")),
		PageSize: intParam(q.Get("pageSize")),
	}

	page, err := s.catalog.Search(r.Context(), q.Get("q"), opts)
	if err != nil {
		httpError(w, nethttp.StatusServiceUnavailable, "search index unavailable")
		return
	}
	writeJSON(w, nethttp.StatusOK, page)
}

func (s *server) handleSuggest(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	limit := intParam(q.Get("limit"))
	if limit <= 0 {
		limit = defaultSuggestLimit
	}

	suggestions, err := s.catalog.Suggest(r.Context(), q.Get("q"), limit)
	if err != nil {
		httpError(w, nethttp.StatusServiceUnavailable, "search index unavailable")
		return
	}

	videos := make([]domain.VideoSummary, 0, len(suggestions))
	for _, sg := range suggestions {
		videos = append(videos, sg.Video)
	}
	writeJSON(w, nethttp.StatusOK, videos)
}

func (s *server) handleStats(w nethttp.ResponseWriter, r *nethttp.Request) {
	if s.fetcher == nil {
		writeJSON(w, nethttp.StatusOK, fetch.Stats{})
		return
	}
	writeJSON(w, nethttp.StatusOK, s.fetcher.Stats())
}

func (s *server) logRequests(next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: nethttp.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type statusRecorder struct {
	nethttp.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func listOptions(r *nethttp.Request) catalog.ListOptions {
	q := r.URL.Query()
	return catalog.ListOptions{
		Page:     intParam(q.Get("page")),
		Sort:     domain.ParseSortMode(q.Get("sort")),
		Category: q.Get("category"),
		Playlist: q.Get("playlist"),
	}
}

// intParam parses a query value, treating junk as unset
func intParam(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w nethttp.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w nethttp.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
