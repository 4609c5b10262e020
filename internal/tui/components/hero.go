package components

import (
	"strings"

	"github.com/anicrunch/anicrunch/internal/tui/styles"
	"github.com/anicrunch/anicrunch/internal/view"
)

// HeroExcerptLength is how much synopsis the banner shows
const HeroExcerptLength = 180

// Hero is the featured banner at the top of home
type Hero struct {
	shelf Shelf
	slide view.HeroSlide
	shown bool
}

// NewHero creates an empty banner
func NewHero() Hero {
	return Hero{}
}

// Shelf returns the load state
func (h Hero) Shelf() Shelf {
	return h.shelf
}

// SetLoading shows a placeholder banner
func (h *Hero) SetLoading(n int) {
	h.shelf.SetLoading(n)
	h.shown = false
}

// SetEmpty shows message instead of a slide
func (h *Hero) SetEmpty(message string) {
	h.shelf.SetEmpty(message)
	h.shown = false
}

// SetFailed shows a retry hint
func (h *Hero) SetFailed(err error) {
	h.shelf.SetFailed(err)
	h.shown = false
}

// SetSlide shows slide
func (h *Hero) SetSlide(slide view.HeroSlide) {
	h.slide = slide
	h.shown = true
	h.shelf.Status = ShelfCards
}

// Slide returns the visible slide
func (h Hero) Slide() (view.HeroSlide, bool) {
	return h.slide, h.shown
}

// View renders the banner
func (h Hero) View(width int, focused bool) string {
	style := styles.InactiveBorder
	if focused {
		style = styles.ActiveBorder
	}
	frameW, _ := style.GetFrameSize()
	inner := max(width-frameW-2, 10)

	var body string
	switch {
	case h.shown:
		body = h.renderSlide(inner)
	case h.shelf.Status == ShelfFailed:
		body = styles.ErrorStyle.Render(FailureText(h.shelf.Err)) + "\n" + styles.DimStyle.Render("r: retry")
	case h.shelf.Status == ShelfEmpty:
		body = styles.DimStyle.Render(h.shelf.Message)
	default:
		body = styles.SkeletonStyle.Render(strings.Repeat("░", min(inner, 40))) + "\n" +
			styles.SkeletonStyle.Render(strings.Repeat("░", min(inner, 24)))
	}

	return style.Width(max(width-frameW, 0)).Padding(0, 1).Render(body)
}

func (h Hero) renderSlide(width int) string {
	item := h.slide.Item

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(item.Title, width)))
	b.WriteString("\n")

	meta := item.Subtitle()
	if meta != "" {
		meta += "   "
	}
	b.WriteString(styles.DimStyle.Render(meta) + styles.ScoreStyle.Render("★ "+item.ScoreLabel()))
	b.WriteString("\n")

	b.WriteString(styles.SubtitleStyle.Render(wordWrap(item.Excerpt(HeroExcerptLength), width)))
	b.WriteString("\n")

	b.WriteString(h.renderDots())
	return b.String()
}

// renderDots draws one dot per slide with the current one highlighted
func (h Hero) renderDots() string {
	dots := make([]string, h.slide.Total)
	for i := range dots {
		if i == h.slide.Index {
			dots[i] = styles.AccentStyle.Render("●")
		} else {
			dots[i] = styles.DimStyle.Render("○")
		}
	}
	line := strings.Join(dots, " ")
	if h.slide.Paused {
		line += styles.DimStyle.Render("  paused")
	}
	return line
}
