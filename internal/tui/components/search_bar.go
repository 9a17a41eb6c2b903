package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// searchBarKeys are the keys the search bar handles itself
var searchBarKeys = struct {
	Submit key.Binding
	Cancel key.Binding
}{
	Submit: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc")),
}

// SearchBar is the title search input
type SearchBar struct {
	input   textinput.Model
	visible bool
	width   int
}

// NewSearchBar creates a new search bar
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBar{input: ti}
}

// Show makes the search bar visible and focuses the input, keeping the
// previous query for editing
func (s *SearchBar) Show() {
	s.visible = true
	s.input.Focus()
	s.input.CursorEnd()
}

// Hide hides the search bar
func (s *SearchBar) Hide() {
	s.visible = false
	s.input.Blur()
}

// IsVisible returns true if the search bar is visible
func (s SearchBar) IsVisible() bool {
	return s.visible
}

// Query returns the current query
func (s SearchBar) Query() string {
	return s.input.Value()
}

// SetQuery replaces the current query
func (s *SearchBar) SetQuery(q string) {
	s.input.SetValue(q)
}

// SetWidth updates the component width
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	s.input.Width = max(width-8, 10)
}

// Update handles messages. submitted is true when the user pressed enter.
func (s SearchBar) Update(msg tea.Msg) (bar SearchBar, cmd tea.Cmd, submitted bool) {
	if !s.visible {
		return s, nil, false
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, searchBarKeys.Cancel):
			s.Hide()
			return s, nil, false
		case key.Matches(msg, searchBarKeys.Submit):
			s.Hide()
			return s, nil, true
		}
	}

	s.input, cmd = s.input.Update(msg)
	return s, cmd, false
}

// View renders the component
func (s SearchBar) View() string {
	if !s.visible {
		return ""
	}
	return styles.SearchBarStyle.Width(max(s.width-4, 20)).Render(s.input.View())
}
