package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
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

func testLoader() *fetchtest.MapLoader {
	next := "v2"
	prev := "v1"
	return fetchtest.NewMapLoader().
		SetJSON(domain.IndexPath, domain.SiteIndex{Stats: domain.SiteStats{TotalVideos: 2}}).
		SetJSON("/videos/date/page-1.json", domain.VideoPage{
			Items: []domain.VideoSummary{{ID: "v1", Title: "Tafsir Al-Fatiha"}, {ID: "v2", Title: "Tafsir Al-Baqarah"}},
			Total: 2, Page: 1, PageSize: 24, TotalPages: 1,
		}).
		SetJSON("/videos/views/page-1.json", domain.VideoPage{
			Items: []domain.VideoSummary{{ID: "v2", Title: "Tafsir Al-Baqarah"}},
			Total: 1, Page: 1, PageSize: 24, TotalPages: 1,
		}).
		SetJSON(domain.VideoPath("v1"), domain.VideoDetail{
			VideoSummary: domain.VideoSummary{ID: "v1", Title: "Tafsir Al-Fatiha"},
			Navigation:   domain.Navigation{NextID: &next, Position: 1, Total: 2},
		}).
		SetJSON(domain.VideoPath("v2"), domain.VideoDetail{
			VideoSummary: domain.VideoSummary{ID: "v2", Title: "Tafsir Al-Baqarah"},
			Navigation:   domain.Navigation{PrevID: &prev, Position: 2, Total: 2},
		}).
		SetJSON(domain.SearchManifestPath, domain.SearchManifest{TotalChunks: 1}).
		SetJSON(domain.SearchChunkPath(1), domain.SearchChunk{Entries: []domain.SearchEntry{
			{ID: "v1", Title: "Tafsir Al-Fatiha"},
			{ID: "v2", Title: "Tafsir Al-Baqarah"},
		}})
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	logger := log.NullLogger()
	f := fetch.NewFetcher(testLoader(), 100, logger)
	svc := catalog.NewService(f, search.NewAggregator(f, logger), config.DefaultConfig().Catalog, logger)
	m := NewModel(svc, catalog.ListOptions{}, time.Second, logger)
	return run(t, m, m.Init())
}

// run executes cmd synchronously and feeds its message back into m
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

func press(t *testing.T, m Model, keys string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestInitLoadsHome(t *testing.T) {
	m := newTestModel(t)
	assert.False(t, m.Loading)
	require.NotNil(t, m.Index)
	assert.Equal(t, 2, m.Index.Stats.TotalVideos)
	assert.Len(t, m.Page.Items, 2)
	assert.Contains(t, m.View(), "Tafsir Al-Fatiha")
}

func TestCursorMovement(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "j")
	assert.Equal(t, 1, m.Cursor)
	m, _ = press(t, m, "j")
	assert.Equal(t, 1, m.Cursor)
	m, _ = press(t, m, "k")
	m, _ = press(t, m, "k")
	assert.Equal(t, 0, m.Cursor)
}

func TestOpenVideoAndNavigate(t *testing.T) {
	m := newTestModel(t)

	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)
	require.Equal(t, StateVideo, m.State)
	assert.Equal(t, "v1", m.Video.Video.ID)
	require.NotNil(t, m.Video.NextVideo)

	m, cmd = press(t, m, "]")
	m = run(t, m, cmd)
	assert.Equal(t, "v2", m.Video.Video.ID)
	assert.Nil(t, m.Video.NextVideo)

	m, _ = press(t, m, "esc")
	assert.Equal(t, StateBrowsing, m.State)
	assert.Nil(t, m.Video)
}

func TestSortCycles(t *testing.T) {
	m := newTestModel(t)
	m, cmd := press(t, m, "s")
	assert.Equal(t, domain.SortOldest, m.Opts.Sort)
	m = run(t, m, cmd)
	// no oldest listing in the fixture: the page degrades
	assert.Empty(t, m.Page.Items)

	m, cmd = press(t, m, "s")
	m = run(t, m, cmd)
	assert.Equal(t, domain.SortViews, m.Opts.Sort)
	require.Len(t, m.Page.Items, 1)
	assert.Equal(t, "v2", m.Page.Items[0].ID)
}

func TestSearchFlow(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(t, m, "/")
	require.Equal(t, StateSearching, m.State)
	for _, r := range "baqarah" {
		m, _ = press(t, m, string(r))
	}
	assert.Equal(t, "baqarah", m.SearchBar.Query())

	m, cmd := press(t, m, "enter")
	assert.Equal(t, StateBrowsing, m.State)
	m = run(t, m, cmd)
	assert.Equal(t, "baqarah", m.Query)
	require.Len(t, m.Page.Items, 1)
	assert.Equal(t, "v2", m.Page.Items[0].ID)

	// back clears the search and reloads the listing
	m, cmd = press(t, m, "esc")
	m = run(t, m, cmd)
	assert.Empty(t, m.Query)
	assert.Len(t, m.Page.Items, 2)
}

func TestSearchCancel(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "/")
	m, _ = press(t, m, "x")
	m, cmd := press(t, m, "esc")
	assert.Nil(t, cmd)
	assert.Equal(t, StateBrowsing, m.State)
	assert.Empty(t, m.Query)
}

func TestVideoNotFound(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(VideoNotFoundMsg{ID: "gone"})
	m = next.(Model)
	require.Error(t, m.Err)
	assert.Contains(t, m.View(), "gone")
}
