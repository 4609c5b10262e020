package components

import (
	"strings"
	"testing"

	"github.com/anicrunch/anicrunch/internal/view"
)

func TestRowPaging(t *testing.T) {
	r := NewRow("Trending Now")
	r.SetCards(numbered(8), false)
	r.SetCarousel(view.NewCarousel(8, 6))

	for i := 0; i < 5; i++ {
		if !r.MoveCursor(1) {
			t.Fatalf("MoveCursor(1) #%d failed", i)
		}
	}
	if r.MoveCursor(1) {
		t.Error("MoveCursor past the page edge succeeded")
	}
	if sel := r.Selected(); sel == nil || sel.ID != 6 {
		t.Errorf("Selected = %v, want id 6", sel)
	}

	r.SetCarousel(r.Carousel().Next())
	if sel := r.Selected(); sel == nil || sel.ID != 7 {
		t.Errorf("Selected = %v, want id 7", sel)
	}

	r.CursorToEnd()
	if sel := r.Selected(); sel == nil || sel.ID != 8 {
		t.Errorf("Selected = %v, want id 8", sel)
	}
	if r.MoveCursor(-2) {
		t.Error("MoveCursor(-2) from index 1 succeeded")
	}
}

func TestRowView(t *testing.T) {
	r := NewRow("Top Rated")
	r.SetLoading(6)
	if out := r.View(120, false); !strings.Contains(out, "Top Rated") {
		t.Errorf("View() missing title:\n%s", out)
	}
	if r.Selected() != nil {
		t.Error("Selected while loading")
	}

	r.SetCards(numbered(8), false)
	r.SetCarousel(view.NewCarousel(8, 6))
	if out := r.View(120, true); !strings.Contains(out, "1/2") {
		t.Errorf("View() missing pager:\n%s", out)
	}

	r.SetEmpty("Nothing here right now.")
	if out := r.View(120, false); !strings.Contains(out, "Nothing here right now.") {
		t.Errorf("View() missing empty message:\n%s", out)
	}
}

func TestChips(t *testing.T) {
	c := NewChips([]string{"Action", "Adventure", "Comedy"})
	if c.Active() != -1 {
		t.Errorf("Active = %d, want -1", c.Active())
	}

	c.Move(-1)
	if c.Cursor() != 0 {
		t.Errorf("Cursor = %d, want 0", c.Cursor())
	}
	c.Move(5)
	if c.Cursor() != 2 {
		t.Errorf("Cursor = %d, want 2", c.Cursor())
	}

	c.SetActive(1)
	if c.Active() != 1 || c.Cursor() != 1 {
		t.Errorf("Active/Cursor = %d/%d, want 1/1", c.Active(), c.Cursor())
	}
	c.SetActive(9)
	if c.Active() != -1 {
		t.Errorf("Active = %d, want -1", c.Active())
	}
	if out := c.View(80, true); !strings.Contains(out, "Comedy") {
		t.Errorf("View() missing label:\n%s", out)
	}
}

func TestHeroView(t *testing.T) {
	h := NewHero()
	if _, ok := h.Slide(); ok {
		t.Error("new hero has a slide")
	}

	h.SetSlide(view.HeroSlide{Index: 1, Total: 3, Paused: true})
	if _, ok := h.Slide(); !ok {
		t.Fatal("slide not shown")
	}
	out := h.View(100, true)
	if !strings.Contains(out, "paused") {
		t.Errorf("View() missing paused marker:\n%s", out)
	}

	h.SetLoading(1)
	if _, ok := h.Slide(); ok {
		t.Error("slide still shown while loading")
	}
}
