package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Inspector displays details for the selected or randomly picked anime
type Inspector struct {
	item       *domain.Anime
	label      string // Title line, e.g. "Info" or "Random pick"
	saved      bool
	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible lines
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{label: "Info"}
}

// SetItem sets the anime to display under label
func (i *Inspector) SetItem(item *domain.Anime, label string) {
	if item == nil || i.item == nil || item.ID != i.item.ID {
		i.offset = 0
	}
	i.item = item
	i.label = label
}

// Item returns the displayed anime, or nil
func (i Inspector) Item() *domain.Anime {
	return i.item
}

// SetSaved marks whether the item is on the watchlist
func (i *Inspector) SetSaved(saved bool) {
	i.saved = saved
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Reserve border, scroll indicators, title and a blank line
	i.maxVisible = height - InspectorBorderHeight - InspectorScrollIndicators - 2
	if i.maxVisible < 1 {
		i.maxVisible = 1
	}
}

// Scroll moves the synopsis by delta lines
func (i *Inspector) Scroll(delta int) {
	i.offset = max(i.offset+delta, 0)
}

// HasItem returns true if there is an item to display
func (i Inspector) HasItem() bool {
	return i.item != nil
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder

	// Border takes 2 chars (1 each side), leave 1 char safety margin
	contentWidth := i.width - 3
	if contentWidth < 10 {
		contentWidth = 10
	}
	content := i.render(contentWidth)

	titleLine := styles.AccentStyle.Render(styles.Truncate(i.label, contentWidth))

	// Three-zone layout: header is fixed, body scrolls, footer is fixed
	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := i.maxVisible - len(headerLines) - len(footerLines)
	if availableForBody < 1 {
		availableForBody = 1
	}

	totalBodyLines := len(bodyLines)
	maxOffset := max(totalBodyLines-availableForBody, 0)
	offset := min(i.offset, maxOffset)

	end := min(offset+availableForBody, totalBodyLines)
	visibleBody := bodyLines[offset:end]

	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < totalBodyLines {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if len(headerLines) > 0 {
		parts = append(parts, headerLines...)
	}
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	if len(footerLines) > 0 {
		parts = append(parts, footerLines...)
	}

	// Subtract frame (border) size so total rendered size equals i.width x i.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(i.width-frameW, 0)).
		Height(max(i.height-frameH, 0)).
		Render(strings.Join(parts, "\n"))
}

func (i Inspector) render(width int) inspectorContent {
	if i.item == nil {
		return inspectorContent{body: styles.DimStyle.Render("No anime selected")}
	}
	item := *i.item
	return inspectorContent{
		header: renderAnimeHeader(item, i.saved, width),
		body:   renderAnimeBody(item, width),
		footer: renderAnimeFooter(item, width),
	}
}

func renderAnimeHeader(item domain.Anime, saved bool, width int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(styles.Truncate(item.Title, width)))
	b.WriteString("\n")

	if meta := item.Subtitle(); meta != "" {
		b.WriteString(styles.DimStyle.Render(styles.Truncate(meta, width)))
		b.WriteString("\n")
	}

	var statusParts []string
	if item.Score > 0 {
		var ratingStyle lipgloss.Style
		switch {
		case item.Score >= 8:
			ratingStyle = lipgloss.NewStyle().Foreground(styles.Green)
		case item.Score >= 6:
			ratingStyle = styles.ScoreStyle
		default:
			ratingStyle = lipgloss.NewStyle().Foreground(styles.Red)
		}
		statusParts = append(statusParts, ratingStyle.Render(fmt.Sprintf("★ %s", item.ScoreLabel())))
	} else {
		statusParts = append(statusParts, styles.DimStyle.Render("★ N/A"))
	}
	if saved {
		statusParts = append(statusParts, styles.AccentStyle.Render("♥ On watchlist"))
	}
	b.WriteString(strings.Join(statusParts, "   "))

	if len(item.Genres) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.SubtitleStyle.Render(wordWrap(strings.Join(item.Genres, " · "), width)))
	}

	return b.String()
}

func renderAnimeBody(item domain.Anime, width int) string {
	bodyWidth := min(width-2, 80)
	synopsis := item.Synopsis
	if synopsis == "" {
		synopsis = item.Excerpt(0)
	}
	return styles.SubtitleStyle.Render(wordWrap(synopsis, bodyWidth))
}

func renderAnimeFooter(item domain.Anime, width int) string {
	var lines []string
	lines = append(lines, styles.DimStyle.Render(strings.Repeat("─", width)))
	if item.Broadcast != "" {
		lines = append(lines, styles.DimStyle.Render("Airs "+item.Broadcast))
	}
	if item.URL != "" {
		lines = append(lines, styles.DimStyle.Render(styles.Truncate(item.URL, width)))
	}
	lines = append(lines, styles.DimStyle.Render("o: open  w: watchlist"))
	return strings.Join(lines, "\n")
}

// splitLines splits a string into lines, returning empty slice for empty string
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
