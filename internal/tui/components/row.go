package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/tui/styles"
	"github.com/anicrunch/anicrunch/internal/view"
)

// minCardWidth keeps titles readable on narrow terminals
const minCardWidth = 14

// Row is a horizontally paged home carousel. The page comes from the
// controller; the cursor picks a card within the visible page.
type Row struct {
	title    string
	shelf    Shelf
	carousel view.CarouselState
	cursor   int
	saved    map[int]bool
}

// NewRow creates an empty row
func NewRow(title string) Row {
	return Row{title: title}
}

// Title returns the row heading
func (r Row) Title() string {
	return r.title
}

// Shelf returns the current content
func (r Row) Shelf() Shelf {
	return r.shelf
}

// SetLoading shows n skeleton cards
func (r *Row) SetLoading(n int) {
	r.shelf.SetLoading(n)
	r.cursor = 0
}

// SetCards replaces the cards
func (r *Row) SetCards(items []domain.Anime, appendItems bool) {
	r.shelf.SetCards(items, appendItems)
	r.clampCursor()
}

// SetEmpty shows an empty state
func (r *Row) SetEmpty(message string) {
	r.shelf.SetEmpty(message)
	r.cursor = 0
}

// SetFailed shows a retry hint
func (r *Row) SetFailed(err error) {
	r.shelf.SetFailed(err)
	r.cursor = 0
}

// SetCarousel applies a page change
func (r *Row) SetCarousel(cs view.CarouselState) {
	if cs.Page != r.carousel.Page {
		r.cursor = 0
	}
	r.carousel = cs
	r.clampCursor()
}

// Carousel returns the page position
func (r Row) Carousel() view.CarouselState {
	return r.carousel
}

// SetSaved marks which ids are on the watchlist
func (r *Row) SetSaved(saved map[int]bool) {
	r.saved = saved
}

// visible returns the cards on the current page
func (r Row) visible() []domain.Anime {
	if r.shelf.Status != ShelfCards {
		return nil
	}
	if r.carousel.PageSize == 0 {
		return r.shelf.Items
	}
	start, end := r.carousel.Window()
	if end > len(r.shelf.Items) {
		end = len(r.shelf.Items)
	}
	if start > end {
		return nil
	}
	return r.shelf.Items[start:end]
}

func (r *Row) clampCursor() {
	n := len(r.visible())
	if r.cursor >= n {
		r.cursor = max(n-1, 0)
	}
}

// MoveCursor moves within the page. It reports false at either edge so the
// caller can page the carousel instead.
func (r *Row) MoveCursor(delta int) bool {
	next := r.cursor + delta
	if next < 0 || next >= len(r.visible()) {
		return false
	}
	r.cursor = next
	return true
}

// CursorToEnd puts the cursor on the last card of the page
func (r *Row) CursorToEnd() {
	r.cursor = max(len(r.visible())-1, 0)
}

// Selected returns the card under the cursor, or nil
func (r Row) Selected() *domain.Anime {
	items := r.visible()
	if r.cursor < 0 || r.cursor >= len(items) {
		return nil
	}
	item := items[r.cursor]
	return &item
}

// View renders the heading and one page of cards
func (r Row) View(width int, focused bool) string {
	heading := styles.TitleStyle.Render(r.title)
	if r.shelf.Status == ShelfCards && r.carousel.Total > 0 {
		prev, next := "‹", "›"
		prevStyle, nextStyle := styles.DimStyle, styles.DimStyle
		if r.carousel.CanPrev() {
			prevStyle = styles.AccentStyle
		}
		if r.carousel.CanNext() {
			nextStyle = styles.AccentStyle
		}
		pager := fmt.Sprintf(" %s %d/%d %s",
			prevStyle.Render(prev), r.carousel.Page+1, r.carousel.LastPage()+1, nextStyle.Render(next))
		heading += styles.DimStyle.Render(pager)
	}

	perPage := r.carousel.PageSize
	if perPage <= 0 {
		perPage = view.DefaultCarouselPageSize
	}
	cardWidth := max((width/perPage)-4, minCardWidth)

	var body string
	switch r.shelf.Status {
	case ShelfLoading:
		cards := make([]string, 0, r.shelf.Skeletons)
		for i := 0; i < r.shelf.Skeletons; i++ {
			cards = append(cards, skeletonCard(cardWidth))
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	case ShelfEmpty:
		body = styles.DimStyle.Render(r.shelf.Message)
	case ShelfFailed:
		body = styles.ErrorStyle.Render(FailureText(r.shelf.Err)) + styles.DimStyle.Render("  r: retry")
	case ShelfCards:
		items := r.visible()
		cards := make([]string, 0, len(items))
		for i, item := range items {
			cards = append(cards, Card(item, cardWidth, focused && i == r.cursor, r.saved[item.ID]))
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	default:
		body = " "
	}

	return heading + "\n" + body
}

// Card renders one anime as a bordered tile: title, subtitle and score
func Card(item domain.Anime, width int, selected, saved bool) string {
	style := styles.CardStyle
	if selected {
		style = styles.CardSelectedStyle
	}
	inner := width - 2

	title := styles.Truncate(item.Title, inner)
	if saved {
		title = styles.Truncate(item.Title, inner-2)
		title = styles.AccentStyle.Render("♥ ") + title
	}
	lines := []string{
		styles.TitleStyle.Render(title),
		styles.DimStyle.Render(styles.Truncate(item.Subtitle(), inner)),
		styles.ScoreStyle.Render("★ " + item.ScoreLabel()),
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func skeletonCard(width int) string {
	bar := styles.SkeletonStyle.Render(strings.Repeat("░", max(width-2, 1)))
	short := styles.SkeletonStyle.Render(strings.Repeat("░", max(width/2, 1)))
	return styles.CardStyle.Width(width).Render(bar + "\n" + short + "\n" + short)
}
