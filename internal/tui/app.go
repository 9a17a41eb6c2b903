package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/tui/components"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// ApplicationState represents the current screen
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching
	StateVideo
)

var sortCycle = []domain.SortMode{domain.SortDate, domain.SortOldest, domain.SortViews}

// Model is the main application model
type Model struct {
	State ApplicationState

	svc     *catalog.Service
	timeout time.Duration
	keys    KeyMap
	logger  *slog.Logger

	SearchBar components.SearchBar

	Width  int
	Height int

	Index *domain.SiteIndex
	Page  domain.VideoPage
	Opts  catalog.ListOptions
	Query string // active search; empty shows the listing
	// Cursor indexes Page.Items
	Cursor int
	Video  *catalog.VideoPageView

	Loading bool
	Err     error
}

// NewModel creates a new application model
func NewModel(svc *catalog.Service, opts catalog.ListOptions, timeout time.Duration, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	opts.Page = max(opts.Page, 1)
	opts.Sort = domain.ParseSortMode(string(opts.Sort))

	return Model{
		State:     StateBrowsing,
		svc:       svc,
		timeout:   timeout,
		keys:      DefaultKeyMap(),
		logger:    logger,
		SearchBar: components.NewSearchBar(),
		Opts:      opts,
		Loading:   true,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return LoadHomeCmd(m.svc, m.Opts, m.timeout)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.SearchBar.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case HomeLoadedMsg:
		m.Loading = false
		m.Err = nil
		m.Index = msg.Home.Index
		m.setPage(msg.Home.Videos)
		return m, nil

	case VideosLoadedMsg:
		m.Loading = false
		m.Opts = msg.Opts
		m.setPage(msg.Page)
		return m, nil

	case SearchResultsMsg:
		m.Loading = false
		m.Err = nil
		m.Query = msg.Query
		m.setPage(msg.Page)
		return m, nil

	case VideoPageLoadedMsg:
		m.Loading = false
		m.Err = nil
		m.Video = msg.View
		m.State = StateVideo
		return m, nil

	case VideoNotFoundMsg:
		m.Loading = false
		m.Err = fmt.Errorf("video %s not found", msg.ID)
		return m, nil

	case ErrMsg:
		m.Loading = false
		m.Err = msg
		m.logger.Error("tui error", "context", msg.Context, "error", msg.Err)
		return m, nil
	}

	if m.State == StateSearching {
		var cmd tea.Cmd
		m.SearchBar, cmd, _ = m.SearchBar.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.State {
	case StateSearching:
		return m.handleSearchKeys(msg)
	case StateVideo:
		return m.handleVideoKeys(msg)
	default:
		return m.handleBrowseKeys(msg)
	}
}

func (m Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.Cursor < len(m.Page.Items)-1 {
			m.Cursor++
		}

	case key.Matches(msg, m.keys.Enter):
		if m.Cursor < len(m.Page.Items) {
			m.Loading = true
			return m, LoadVideoPageCmd(m.svc, m.Page.Items[m.Cursor].ID, m.timeout)
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.Page.Page < m.Page.TotalPages {
			return m.gotoPage(m.Page.Page + 1)
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.Page.Page > 1 {
			return m.gotoPage(m.Page.Page - 1)
		}

	case key.Matches(msg, m.keys.Sort):
		if m.Query != "" {
			return m, nil
		}
		m.Opts.Sort = nextSort(m.Opts.Sort)
		return m.gotoPage(1)

	case key.Matches(msg, m.keys.Search):
		m.State = StateSearching
		m.SearchBar.Show()

	case key.Matches(msg, m.keys.Back):
		// leave search results for the listing
		if m.Query != "" {
			m.Query = ""
			m.SearchBar.SetQuery("")
			return m.gotoPage(1)
		}
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd       tea.Cmd
		submitted bool
	)
	m.SearchBar, cmd, submitted = m.SearchBar.Update(msg)
	if m.SearchBar.IsVisible() {
		return m, cmd
	}

	m.State = StateBrowsing
	if !submitted {
		return m, nil
	}

	query := strings.TrimSpace(m.SearchBar.Query())
	if query == "" {
		m.Query = ""
		return m.gotoPage(1)
	}
	m.Loading = true
	return m, SearchCmd(m.svc, query, m.searchOptions(1), m.timeout)
}

func (m Model) handleVideoKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.State = StateBrowsing
		m.Video = nil

	case key.Matches(msg, m.keys.PrevItem):
		if m.Video != nil && m.Video.PrevVideo != nil {
			m.Loading = true
			return m, LoadVideoPageCmd(m.svc, m.Video.PrevVideo.ID, m.timeout)
		}

	case key.Matches(msg, m.keys.NextItem):
		if m.Video != nil && m.Video.NextVideo != nil {
			m.Loading = true
			return m, LoadVideoPageCmd(m.svc, m.Video.NextVideo.ID, m.timeout)
		}
	}
	return m, nil
}

func (m Model) gotoPage(page int) (tea.Model, tea.Cmd) {
	m.Loading = true
	if m.Query != "" {
		return m, SearchCmd(m.svc, m.Query, m.searchOptions(page), m.timeout)
	}
	opts := m.Opts
	opts.Page = page
	return m, LoadVideosCmd(m.svc, opts, m.timeout)
}

func (m Model) searchOptions(page int) search.Options {
	return search.Options{
		Category: m.Opts.Category,
		Playlist: m.Opts.Playlist,
		Page:     page,
	}
}

func (m *Model) setPage(page domain.VideoPage) {
	m.Page = page
	m.Cursor = 0
}

func nextSort(current domain.SortMode) domain.SortMode {
	for i, s := range sortCycle {
		if s == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return domain.SortDate
}

// View renders the application
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.State == StateVideo && m.Video != nil {
		b.WriteString(m.renderVideo())
	} else {
		if m.SearchBar.IsVisible() {
			b.WriteString(m.SearchBar.View())
			b.WriteString("\n")
		}
		b.WriteString(m.renderList())
	}

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(m.Err.Error()))
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())
	return styles.BrowserStyle.Render(b.String())
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("reel")
	var info string
	if m.Index != nil {
		info = styles.SubtitleStyle.Render(fmt.Sprintf("%d videos · %d playlists · %d categories",
			m.Index.Stats.TotalVideos, m.Index.Stats.TotalPlaylists, m.Index.Stats.TotalCategories))
	}

	scope := string(m.Opts.Sort)
	if m.Query != "" {
		scope = fmt.Sprintf("search %q", m.Query)
	}
	if m.Opts.Playlist != "" {
		scope += " · playlist " + m.Opts.Playlist
	} else if m.Opts.Category != "" {
		scope += " · " + m.Opts.Category
	}

	parts := []string{title, styles.BadgeStyle.Render(scope)}
	if info != "" {
		parts = append(parts, info)
	}
	if m.Loading {
		parts = append(parts, styles.SpinnerStyle.Render("loading..."))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderList() string {
	if len(m.Page.Items) == 0 {
		if m.Loading {
			return ""
		}
		return styles.DimStyle.Render("No videos")
	}

	titleWidth := max(m.Width-36, 20)
	var b strings.Builder
	for i, v := range m.Page.Items {
		selected := i == m.Cursor
		title := styles.Truncate(v.Title, titleWidth)

		var matched []int
		if m.Query != "" {
			matched = search.Highlight(m.Query, title)
		}

		marker := "  "
		if selected {
			marker = styles.AccentStyle.Render("▸ ")
		}
		b.WriteString(marker)
		b.WriteString(styles.Highlight(title, matched, selected))
		b.WriteString("  ")
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%s · %s", v.Duration, v.FormattedViews())))
		b.WriteString("\n")
	}

	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("page %d of %d · %d videos",
		m.Page.Page, max(m.Page.TotalPages, 1), m.Page.Total)))
	return b.String()
}

func (m Model) renderVideo() string {
	v := m.Video
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(v.Video.Title))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("%s · %s · %s",
		v.Video.Duration, v.Video.FormattedViews(), v.Video.PublishedAt)))
	b.WriteString("\n")
	b.WriteString(styles.AccentStyle.Render(v.PlaylistName))
	if v.PlaylistVideoCount > 0 {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %d of %d", v.CurrentIndex, v.PlaylistVideoCount)))
	}
	b.WriteString("\n\n")

	if v.Video.Description != "" {
		width := max(m.Width-12, 30)
		b.WriteString(lipgloss.NewStyle().Width(width).Render(v.Video.Description))
		b.WriteString("\n\n")
	}

	if v.PrevVideo != nil {
		b.WriteString(styles.DimStyle.Render("[ prev: "))
		b.WriteString(v.PrevVideo.Title)
		b.WriteString("\n")
	}
	if v.NextVideo != nil {
		b.WriteString(styles.DimStyle.Render("] next: "))
		b.WriteString(v.NextVideo.Title)
		b.WriteString("\n")
	}

	return styles.InspectorStyle.Render(b.String())
}

func (m Model) renderHelp() string {
	bindings := m.keys.ListHelp()
	if m.State == StateVideo {
		bindings = m.keys.DetailHelp()
	}

	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
