package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/fetch"
	"github.com/mmcdole/reel/internal/fetch/fetchtest"
	"github.com/mmcdole/reel/internal/log"
	"github.com/mmcdole/reel/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(loader *fetchtest.MapLoader, dataRoot string) (http.Handler, *fetch.Fetcher) {
	logger := log.NullLogger()
	f := fetch.NewFetcher(loader, 100, logger)
	svc := catalog.NewService(f, search.NewAggregator(f, logger), config.DefaultConfig().Catalog, logger)
	return NewServer(svc, f, dataRoot, logger), f
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func catalogLoader() *fetchtest.MapLoader {
	next := "v2"
	return fetchtest.NewMapLoader().
		SetJSON(domain.IndexPath, domain.SiteIndex{
			Stats:      domain.SiteStats{TotalVideos: 2},
			Categories: []string{"Tafsir"},
		}).
		SetJSON("/videos/views/page-1.json", domain.VideoPage{
			Items: []domain.VideoSummary{{ID: "v1", Title: "Tafsir Al-Fatiha"}},
			Total: 1, Page: 1, PageSize: 24, TotalPages: 1,
		}).
		SetJSON(domain.VideoPath("v1"), domain.VideoDetail{
			VideoSummary: domain.VideoSummary{ID: "v1", Title: "Tafsir Al-Fatiha"},
			Navigation:   domain.Navigation{NextID: &next, Position: 1, Total: 2},
		}).
		SetJSON(domain.VideoPath("v2"), domain.VideoDetail{
			VideoSummary: domain.VideoSummary{ID: "v2", Title: "Tafsir Al-Baqarah"},
		}).
		SetJSON(domain.SearchManifestPath, domain.SearchManifest{TotalChunks: 1}).
		SetJSON(domain.SearchChunkPath(1), domain.SearchChunk{Entries: []domain.SearchEntry{
			{ID: "v1", Title: "Tafsir Al-Fatiha"},
			{ID: "v2", Title: "Tafsir Al-Baqarah"},
		}})
}

func TestHealthHandler_OK(t *testing.T) {
	rr := get(t, HealthHandler(), "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestIndex(t *testing.T) {
	h, _ := newTestServer(catalogLoader(), "")
	rr := get(t, h, "/api/index")
	require.Equal(t, http.StatusOK, rr.Code)
	idx := decode[domain.SiteIndex](t, rr)
	assert.Equal(t, 2, idx.Stats.TotalVideos)
}

func TestIndexUnavailable(t *testing.T) {
	h, _ := newTestServer(fetchtest.NewMapLoader(), "")
	rr := get(t, h, "/api/index")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHome(t *testing.T) {
	h, _ := newTestServer(catalogLoader(), "")
	rr := get(t, h, "/api/home?sort=views")
	require.Equal(t, http.StatusOK, rr.Code)
	home := decode[catalog.HomeData](t, rr)
	assert.Equal(t, []string{"Tafsir"}, home.Index.Categories)
	require.Len(t, home.Videos.Items, 1)
}

func TestVideosDegradesToEmptyPage(t *testing.T) {
	h, _ := newTestServer(catalogLoader(), "")
	rr := get(t, h, "/api/videos?page=999")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"items":[],"total":0,"page":999,"pageSize":24,"totalPages":0}`, rr.Body.String())
}

func TestVideo(t *testing.T) {
	h, _ := newTestServer(catalogLoader(), "")

	rr := get(t, h, "/api/videos/v1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "v1", decode[domain.VideoDetail](t, rr).ID)

	rr = get(t, h, "/api/videos/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVideoPage(t *testing.T) {
	h, _ := newTestServer(catalogLoader(), "")
	rr := get(t, h, "/api/video-page/v1")
	require.Equal(t, http.StatusOK, rr.Code)

	view := decode[catalog.VideoPageView](t, rr)
	assert.Equal(t, "Other Videos", view.PlaylistName)
	assert.Nil(t, view.PrevVideo)
	require.NotNil(t, view.NextVideo)
	assert.Equal(t, "v2", view.NextVideo.ID)
}

func TestSearch(t *testing.T) {
	h, _ := newTestServer(catalogLoader(), "")
	rr := get(t, h, "/api/search?q=baqarah")
	require.Equal(t, http.StatusOK, rr.Code)

	page := decode[domain.VideoPage](t, rr)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "v2", page.Items[0].ID)
}

func TestSearchUnavailable(t *testing.T) {
	h, _ := newTestServer(fetchtest.NewMapLoader(), "")
	rr := get(t, h, "/api/search?q=tafsir")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestSuggest(t *testing.T) {
	h, _ := newTestServer(catalogLoader(), "")
	rr := get(t, h, "/api/suggest?q=fatiha&limit=5")
	require.Equal(t, http.StatusOK, rr.Code)

	videos := decode[[]domain.VideoSummary](t, rr)
	require.NotEmpty(t, videos)
	assert.Equal(t, "v1", videos[0].ID)
}

func TestStats(t *testing.T) {
	h, _ := newTestServer(catalogLoader(), "")
	get(t, h, "/api/videos/v1")
	get(t, h, "/api/videos/v1")

	rr := get(t, h, "/api/stats")
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[fetch.Stats](t, rr)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 100, stats.Capacity)
}

func TestDataFragments(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "categories", "Fiqh & Usul", "date")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page-1.json"), []byte(`{"items":[]}`), 0o644))

	h, _ := newTestServer(fetchtest.NewMapLoader(), root)

	rr := get(t, h, "/data"+domain.ListingPath(domain.SortDate, "Fiqh & Usul", "", 1))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"items":[]}`, rr.Body.String())

	rr = get(t, h, "/data/missing.json")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDataDisabledWithoutRoot(t *testing.T) {
	h, _ := newTestServer(fetchtest.NewMapLoader(), "")
	rr := get(t, h, "/data/index.json")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
