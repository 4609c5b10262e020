package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anicrunch/anicrunch/internal/tui/styles"
)

// Chips is a single-line picker used for genres and schedule days. The
// cursor moves while focused; the active chip is the one last applied.
type Chips struct {
	labels []string
	cursor int
	active int // -1 when none
}

// NewChips creates a picker with nothing active
func NewChips(labels []string) Chips {
	return Chips{labels: labels, active: -1}
}

// Move shifts the cursor, clamped to the ends
func (c *Chips) Move(delta int) {
	c.cursor = min(max(c.cursor+delta, 0), len(c.labels)-1)
}

// Cursor returns the chip under the cursor
func (c Chips) Cursor() int {
	return c.cursor
}

// SetActive highlights chip i; -1 clears it
func (c *Chips) SetActive(i int) {
	if i < -1 || i >= len(c.labels) {
		i = -1
	}
	c.active = i
	if i >= 0 {
		c.cursor = i
	}
}

// Active returns the highlighted chip, or -1
func (c Chips) Active() int {
	return c.active
}

// View renders the chips, scrolled so the cursor stays in width
func (c Chips) View(width int, focused bool) string {
	rendered := make([]string, len(c.labels))
	for i, label := range c.labels {
		switch {
		case i == c.active:
			rendered[i] = styles.ChipActiveStyle.Render(label)
		case focused && i == c.cursor:
			rendered[i] = styles.ChipCursorStyle.Render(label)
		default:
			rendered[i] = styles.ChipStyle.Render(label)
		}
	}

	start := 0
	for start < c.cursor && visibleWidth(rendered[start:c.cursor+1]) > width {
		start++
	}
	line := strings.Join(rendered[start:], " ")
	if start > 0 {
		line = styles.DimStyle.Render("‹ ") + line
	}
	return line
}

func visibleWidth(parts []string) int {
	n := 0
	for _, p := range parts {
		n += lipgloss.Width(p) + 1
	}
	return n
}
