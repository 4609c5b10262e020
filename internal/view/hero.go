package view

import (
	"sync"
	"time"

	"github.com/anicrunch/anicrunch/internal/domain"
)

// HeroSlide is the visible hero banner entry
type HeroSlide struct {
	Item   domain.Anime
	Index  int
	Total  int
	Paused bool
}

// Hero rotates the featured banner. It auto-advances every interval, pauses
// while hovered and restarts its timer after any manual navigation.
type Hero struct {
	mu       sync.Mutex
	slides   []domain.Anime
	index    int
	paused   bool
	stopped  bool
	interval time.Duration
	timer    *time.Timer
	gen      uint64
	onChange func(HeroSlide)
}

func newHero(interval time.Duration, onChange func(HeroSlide)) *Hero {
	return &Hero{interval: interval, onChange: onChange}
}

// SetSlides replaces the rotation and shows the first entry
func (h *Hero) SetSlides(items []domain.Anime) {
	h.mu.Lock()
	h.slides = append([]domain.Anime(nil), items...)
	h.index = 0
	h.resetLocked()
	slide, ok := h.slideLocked()
	h.mu.Unlock()

	if ok {
		h.onChange(slide)
	}
}

// Next, Prev and GoTo navigate manually and restart the autoplay timer
func (h *Hero) Next() { h.move(func(i, n int) int { return (i + 1) % n }) }
func (h *Hero) Prev() { h.move(func(i, n int) int { return (i - 1 + n) % n }) }

func (h *Hero) GoTo(index int) {
	h.move(func(i, n int) int {
		if index < 0 || index >= n {
			return i
		}
		return index
	})
}

func (h *Hero) move(step func(i, n int) int) {
	h.mu.Lock()
	if len(h.slides) == 0 || h.stopped {
		h.mu.Unlock()
		return
	}
	h.index = step(h.index, len(h.slides))
	h.resetLocked()
	slide, _ := h.slideLocked()
	h.mu.Unlock()

	h.onChange(slide)
}

// Hover pauses autoplay while on is true
func (h *Hero) Hover(on bool) {
	h.mu.Lock()
	if h.paused == on || h.stopped {
		h.mu.Unlock()
		return
	}
	h.paused = on
	h.resetLocked()
	slide, ok := h.slideLocked()
	h.mu.Unlock()

	if ok {
		h.onChange(slide)
	}
}

// Current returns the visible slide
func (h *Hero) Current() (HeroSlide, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.slideLocked()
}

// Stop cancels autoplay for good
func (h *Hero) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	h.gen++
	if h.timer != nil {
		h.timer.Stop()
	}
}

func (h *Hero) advance(gen uint64) {
	h.mu.Lock()
	if gen != h.gen || h.paused || h.stopped || len(h.slides) == 0 {
		h.mu.Unlock()
		return
	}
	h.index = (h.index + 1) % len(h.slides)
	h.resetLocked()
	slide, _ := h.slideLocked()
	h.mu.Unlock()

	h.onChange(slide)
}

// resetLocked restarts the autoplay timer, or leaves it stopped while paused
func (h *Hero) resetLocked() {
	h.gen++
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	if h.paused || h.stopped || len(h.slides) < 2 {
		return
	}
	gen := h.gen
	h.timer = time.AfterFunc(h.interval, func() { h.advance(gen) })
}

func (h *Hero) slideLocked() (HeroSlide, bool) {
	if len(h.slides) == 0 {
		return HeroSlide{}, false
	}
	return HeroSlide{
		Item:   h.slides[h.index],
		Index:  h.index,
		Total:  len(h.slides),
		Paused: h.paused,
	}, true
}
