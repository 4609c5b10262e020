package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/search"
	"github.com/anicrunch/anicrunch/internal/tui/styles"
	"github.com/anicrunch/anicrunch/internal/view"
)

// Layout constants for grid
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Padding inside the border (Padding(0,1) = 1 left + 1 right)
	HorizontalPadding = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Title line and load-more line
	TitleLines    = 1
	LoadMoreLines = 1

	// Extra safety margin for item width calculations
	ItemWidthMargin = 2
)

// Grid is the results area: search hits, genre pages, schedules and the
// watchlist. It can be narrowed locally with a fuzzy title filter.
type Grid struct {
	shelf Shelf
	title string

	// Pagination affordance
	loadMore    view.LoadMoreStatus
	loadMoreErr error

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	matches      []search.Match // nil when unfiltered

	saved map[int]bool
}

// NewGrid creates a new grid component
func NewGrid() Grid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return Grid{
		filterInput: ti,
		maxVisible:  1,
	}
}

// SetTitle sets the heading shown above the results
func (g *Grid) SetTitle(title string) {
	g.title = title
}

// Shelf returns the current content
func (g Grid) Shelf() Shelf {
	return g.shelf
}

// SetLoading shows skeleton rows and resets selection
func (g *Grid) SetLoading(n int) {
	g.shelf.SetLoading(n)
	g.reset()
}

// SetCards replaces or extends the cards. Appending keeps the cursor.
func (g *Grid) SetCards(items []domain.Anime, appendItems bool) {
	keep := appendItems && g.shelf.Status == ShelfCards
	g.shelf.SetCards(items, appendItems)
	if !keep {
		g.reset()
		return
	}
	if g.filterActive {
		g.applyFilter()
	}
}

// SetEmpty shows message in place of cards
func (g *Grid) SetEmpty(message string) {
	g.shelf.SetEmpty(message)
	g.reset()
}

// SetFailed shows err with a retry hint
func (g *Grid) SetFailed(err error) {
	g.shelf.SetFailed(err)
	g.reset()
}

// SetLoadMore updates the pagination footer
func (g *Grid) SetLoadMore(status view.LoadMoreStatus, err error) {
	g.loadMore = status
	g.loadMoreErr = err
}

// LoadMoreStatus returns the pagination footer state
func (g Grid) LoadMoreStatus() view.LoadMoreStatus {
	return g.loadMore
}

// SetSaved marks which ids are on the watchlist
func (g *Grid) SetSaved(saved map[int]bool) {
	g.saved = saved
}

func (g *Grid) reset() {
	g.cursor = 0
	g.offset = 0
	g.clearFilter()
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.recalcMaxVisible()
}

// recalcMaxVisible calculates maxVisible accounting for title, footer and filter bar
func (g *Grid) recalcMaxVisible() {
	interiorHeight := g.height - BorderHeight
	g.maxVisible = interiorHeight - ScrollIndicatorLines - TitleLines - LoadMoreLines
	if g.filterActive {
		g.maxVisible--
	}
	if g.maxVisible < 1 {
		g.maxVisible = 1
	}
	g.ensureVisible()
}

// SetFocused sets the focus state
func (g *Grid) SetFocused(focused bool) {
	g.focused = focused
}

// IsFocused returns the focus state
func (g Grid) IsFocused() bool {
	return g.focused
}

// Cursor returns the current cursor position
func (g Grid) Cursor() int {
	return g.cursor
}

// SetCursor sets the cursor position
func (g *Grid) SetCursor(pos int) {
	max := g.itemCount() - 1
	if max < 0 {
		g.cursor = 0
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > max {
		pos = max
	}
	g.cursor = pos
	g.ensureVisible()
}

// itemCount returns the number of items (accounting for filter)
func (g Grid) itemCount() int {
	if g.matches != nil {
		return len(g.matches)
	}
	return len(g.shelf.Items)
}

// Selected returns the anime under the cursor, or nil
func (g Grid) Selected() *domain.Anime {
	if g.itemCount() == 0 {
		return nil
	}
	item := g.shelf.Items[g.mapIndex(g.cursor)]
	return &item
}

// AtEnd reports whether the cursor sits on the last visible card
func (g Grid) AtEnd() bool {
	return g.itemCount() > 0 && g.cursor == g.itemCount()-1
}

func (g *Grid) ensureVisible() {
	if g.cursor < g.offset {
		g.offset = g.cursor
	}
	if g.cursor >= g.offset+g.maxVisible {
		g.offset = g.cursor - g.maxVisible + 1
	}
}

// ToggleFilter activates the filter input
func (g *Grid) ToggleFilter() {
	if g.shelf.Status != ShelfCards {
		return
	}
	g.filterActive = true
	g.filterInput.Focus()
	g.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active (showing filtered results)
func (g Grid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused (typing mode)
func (g Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (g *Grid) ClearFilter() {
	g.clearFilter()
}

func (g *Grid) clearFilter() {
	g.filterActive = false
	g.filterQuery = ""
	g.matches = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.recalcMaxVisible()
}

// applyFilter narrows the cards to fuzzy title matches
func (g *Grid) applyFilter() {
	query := g.filterInput.Value()
	g.filterQuery = query

	if strings.TrimSpace(query) == "" {
		g.matches = nil
		return
	}

	g.matches = search.Filter(g.shelf.Items, query)
	g.cursor = 0
	g.offset = 0
}

// mapIndex maps a cursor position to the actual index in the data
func (g Grid) mapIndex(i int) int {
	if g.matches != nil && i < len(g.matches) {
		return g.matches[i].Index
	}
	return i
}

func (g Grid) matchedIndexes(i int) []int {
	if g.matches != nil && i < len(g.matches) {
		return g.matches[i].MatchedIndexes
	}
	return nil
}

// Init initializes the component
func (g Grid) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (g Grid) Update(msg tea.Msg) (Grid, tea.Cmd) {
	if !g.focused {
		return g, nil
	}

	// Handle filter input when active AND focused (typing mode)
	if g.filterActive && g.filterInput.Focused() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "enter":
				// Accept filter, blur input to allow navigation
				g.filterInput.Blur()
				return g, nil
			case "backspace":
				if g.filterInput.Value() == "" {
					g.clearFilter()
					return g, nil
				}
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		return g, cmd
	}

	// Filter accepted: esc clears, / edits again
	if g.filterActive {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "/":
				g.filterInput.Focus()
				return g, nil
			}
		}
	}

	count := g.itemCount()
	if count == 0 {
		return g, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			if g.cursor < count-1 {
				g.cursor++
				g.ensureVisible()
			}
		case "k", "up":
			if g.cursor > 0 {
				g.cursor--
				g.ensureVisible()
			}
		case "g", "home":
			g.cursor = 0
			g.offset = 0
		case "G", "end":
			g.cursor = count - 1
			g.ensureVisible()
		case "ctrl+d":
			g.SetCursor(g.cursor + g.maxVisible/2)
		case "ctrl+u":
			g.SetCursor(g.cursor - g.maxVisible/2)
		}
	}

	return g, nil
}

// View renders the component
func (g Grid) View() string {
	style := styles.InactiveBorder
	if g.focused {
		style = styles.ActiveBorder
	}

	content := g.renderList()

	// Subtract frame (border) size so total rendered size equals g.width x g.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(g.width-frameW, 0)).
		Height(max(g.height-frameH, 0)).
		Render(content)
}

func (g Grid) renderList() string {
	itemWidth := g.width - BorderWidth - HorizontalPadding - ItemWidthMargin

	titleLine := styles.AccentStyle.Render(styles.Truncate(g.title, itemWidth))
	if g.title == "" {
		titleLine = " "
	}

	var body string
	switch g.shelf.Status {
	case ShelfLoading:
		body = g.renderSkeletons(itemWidth)
	case ShelfEmpty:
		body = " \n" + styles.DimStyle.Render(g.shelf.Message) + "\n "
	case ShelfFailed:
		body = " \n" + styles.ErrorStyle.Render(FailureText(g.shelf.Err)) + "\n" +
			styles.DimStyle.Render("r: retry")
	case ShelfCards:
		body = g.renderCards(itemWidth)
	default:
		body = " \n \n "
	}

	content := titleLine + "\n" + body + "\n" + g.renderLoadMore()
	if g.filterActive {
		content += "\n" + g.renderFilterBar()
	}
	return content
}

func (g Grid) renderSkeletons(width int) string {
	n := min(g.shelf.Skeletons, g.maxVisible)
	lines := []string{" "}
	bar := strings.Repeat("░", max(min(width, 40), 1))
	for i := 0; i < n; i++ {
		lines = append(lines, " "+styles.SkeletonStyle.Render(bar))
	}
	lines = append(lines, " ")
	return strings.Join(lines, "\n")
}

func (g Grid) renderCards(width int) string {
	count := g.itemCount()
	if count == 0 {
		return " \n" + styles.DimStyle.Render("No matches") + "\n "
	}

	end := min(g.offset+g.maxVisible, count)

	var lines []string
	for i := g.offset; i < end; i++ {
		item := g.shelf.Items[g.mapIndex(i)]
		lines = append(lines, g.renderItem(item, g.matchedIndexes(i), i == g.cursor, width))
	}

	// Always reserve the scroll indicator lines to prevent layout shifts
	header := " "
	if g.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	return header + "\n" + strings.Join(lines, "\n") + "\n" + footer
}

// renderItem renders one anime as a list row: marker, title, year/type, score
func (g Grid) renderItem(item domain.Anime, matched []int, selected bool, width int) string {
	marker := "  "
	var markerFg *lipgloss.Color
	if g.saved[item.ID] {
		marker = "♥ "
		c := styles.Crimson
		markerFg = &c
	}

	score := item.ScoreLabel()
	meta := item.Subtitle()
	if item.Broadcast != "" {
		meta = item.Broadcast + " • " + meta
	}

	titleWidth := width - len(marker) - lipgloss.Width(meta) - len(score) - 6
	if titleWidth < 10 {
		titleWidth = max(width-len(marker)-len(score)-4, 1)
		meta = ""
	}
	title := styles.Pad(styles.Truncate(item.Title, titleWidth), titleWidth)

	amber := styles.Amber
	parts := []styles.RowPart{{Text: marker, Foreground: markerFg}}
	if len(matched) > 0 {
		parts = append(parts, styles.RowPart{Text: highlightMatches(title, matched, selected)})
	} else {
		parts = append(parts, styles.RowPart{Text: title})
	}
	if meta != "" {
		dim := styles.DimGray
		parts = append(parts, styles.RowPart{Text: "  " + meta, Foreground: &dim})
	}
	parts = append(parts, styles.RowPart{Text: "  ★ " + score, Foreground: &amber})

	return styles.RenderListRow(parts, selected, width)
}

// highlightMatches renders matched rune positions in the accent color
func highlightMatches(title string, matched []int, selected bool) string {
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	style := styles.MatchHighlightStyle
	if selected {
		style = styles.MatchHighlightSelectedStyle
	}
	var b strings.Builder
	for i, r := range []rune(title) {
		if hit[i] {
			b.WriteString(style.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (g Grid) renderLoadMore() string {
	switch g.loadMore {
	case view.LoadMoreReady:
		return styles.DimStyle.Render("L: load more")
	case view.LoadMoreLoading:
		return styles.DimStyle.Render("Loading more...")
	case view.LoadMoreFailed:
		return styles.ErrorStyle.Render("Couldn't load more. L: try again")
	default:
		return " "
	}
}

// IsEmpty returns true if there are no items
func (g Grid) IsEmpty() bool {
	return g.itemCount() == 0
}

// renderFilterBar renders the filter input bar
func (g Grid) renderFilterBar() string {
	input := g.filterInput.View()

	countStr := ""
	if g.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.itemCount(), len(g.shelf.Items)))
	}

	return input + countStr
}
