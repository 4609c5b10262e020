package components

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/view"
)

func animeList(titles ...string) []domain.Anime {
	out := make([]domain.Anime, len(titles))
	for i, t := range titles {
		out[i] = domain.Anime{ID: i + 1, Title: t}
	}
	return out
}

func numbered(n int) []domain.Anime {
	out := make([]domain.Anime, n)
	for i := range out {
		out[i] = domain.Anime{ID: i + 1, Title: fmt.Sprintf("Show %02d", i+1)}
	}
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestGrid() Grid {
	g := NewGrid()
	g.SetSize(80, 20)
	g.SetFocused(true)
	return g
}

func TestGridFilter(t *testing.T) {
	g := newTestGrid()
	g.SetCards(animeList("Cowboy Bebop", "Trigun", "Samurai Champloo"), false)

	g.ToggleFilter()
	for _, r := range "bep" {
		g, _ = g.Update(runes(string(r)))
	}

	if got := g.itemCount(); got != 1 {
		t.Fatalf("itemCount = %d, want 1", got)
	}
	if sel := g.Selected(); sel == nil || sel.Title != "Cowboy Bebop" {
		t.Errorf("Selected = %v, want Cowboy Bebop", sel)
	}

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if g.IsFiltering() {
		t.Error("esc left the filter active")
	}
	if got := g.itemCount(); got != 3 {
		t.Errorf("itemCount = %d, want 3", got)
	}
}

func TestGridFilterNeedsCards(t *testing.T) {
	g := newTestGrid()
	g.SetLoading(12)
	g.ToggleFilter()
	if g.IsFiltering() {
		t.Error("filter opened while loading")
	}
}

func TestGridAppendKeepsCursor(t *testing.T) {
	g := newTestGrid()
	g.SetCards(numbered(24), false)
	g.SetCursor(23)

	g.SetCards(numbered(24), true)
	if got := g.Cursor(); got != 23 {
		t.Errorf("Cursor = %d, want 23", got)
	}
	if got := len(g.Shelf().Items); got != 48 {
		t.Errorf("items = %d, want 48", got)
	}
	if g.AtEnd() {
		t.Error("AtEnd after append")
	}

	g.SetCards(numbered(3), false)
	if got := g.Cursor(); got != 0 {
		t.Errorf("Cursor after replace = %d, want 0", got)
	}
}

func TestGridNavigation(t *testing.T) {
	g := newTestGrid()
	g.SetCards(numbered(30), false)

	g, _ = g.Update(runes("G"))
	if !g.AtEnd() {
		t.Errorf("Cursor = %d, want last", g.Cursor())
	}
	g, _ = g.Update(runes("g"))
	if got := g.Cursor(); got != 0 {
		t.Errorf("Cursor = %d, want 0", got)
	}
	g, _ = g.Update(runes("k"))
	if got := g.Cursor(); got != 0 {
		t.Errorf("Cursor = %d, want 0", got)
	}

	g.SetFocused(false)
	g, _ = g.Update(runes("j"))
	if got := g.Cursor(); got != 0 {
		t.Errorf("unfocused grid moved to %d", got)
	}
}

func TestGridViewStates(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g *Grid)
		want  string
	}{
		{"empty", func(g *Grid) { g.SetEmpty("Nothing airs on Monday.") }, "Nothing airs on Monday."},
		{"failed", func(g *Grid) { g.SetFailed(domain.ErrRetriesExhausted) }, "r: retry"},
		{"auth", func(g *Grid) { g.SetFailed(domain.ErrAuthRequired) }, "anicrunch login"},
		{"load more", func(g *Grid) {
			g.SetCards(numbered(2), false)
			g.SetLoadMore(view.LoadMoreReady, nil)
		}, "L: load more"},
		{"load more failed", func(g *Grid) {
			g.SetCards(numbered(2), false)
			g.SetLoadMore(view.LoadMoreFailed, errors.New("boom"))
		}, "try again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid()
			tt.setup(&g)
			if out := g.View(); !strings.Contains(out, tt.want) {
				t.Errorf("View() missing %q:\n%s", tt.want, out)
			}
		})
	}
}
