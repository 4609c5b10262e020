package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/anicrunch/anicrunch/internal/tui/styles"
)

// SearchBar is the always-visible title search input
type SearchBar struct {
	input     textinput.Model
	prevQuery string // Track query changes for live search
	width     int
}

// NewSearchBar creates a new search bar component
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search anime... (3+ letters)"
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBar{input: ti}
}

// Focus puts the cursor in the input
func (s *SearchBar) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur leaves the input
func (s *SearchBar) Blur() {
	s.input.Blur()
}

// Focused reports whether keys go to the input
func (s SearchBar) Focused() bool {
	return s.input.Focused()
}

// Reset empties the input without reporting a change
func (s *SearchBar) Reset() {
	s.input.SetValue("")
	s.prevQuery = ""
}

// SetWidth updates the input width
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	s.input.Width = max(width-4, 10)
}

// Query returns the current search query
func (s SearchBar) Query() string {
	return s.input.Value()
}

// QueryChanged returns true if the query changed since last check and updates prevQuery
func (s *SearchBar) QueryChanged() bool {
	current := s.input.Value()
	if current != s.prevQuery {
		s.prevQuery = current
		return true
	}
	return false
}

// Init initializes the component
func (s SearchBar) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes input while focused
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	if !s.input.Focused() {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// View renders the component
func (s SearchBar) View() string {
	return s.input.View()
}
