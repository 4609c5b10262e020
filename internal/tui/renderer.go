package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/view"
)

// Renderer adapts view.Renderer to Bubble Tea messages. Calls never block:
// events queue in order and Wait delivers them one at a time to Update.
type Renderer struct {
	mu     sync.Mutex
	queue  []tea.Msg
	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewRenderer creates an empty mailbox
func NewRenderer() *Renderer {
	return &Renderer{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (r *Renderer) push(msg tea.Msg) {
	r.mu.Lock()
	r.queue = append(r.queue, msg)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default: // A wakeup is already pending
	}
}

// Wait returns a command that yields the next queued event. The model
// re-issues it after handling each event. It yields nil once closed.
func (r *Renderer) Wait() tea.Cmd {
	return func() tea.Msg {
		for {
			r.mu.Lock()
			if len(r.queue) > 0 {
				msg := r.queue[0]
				r.queue[0] = nil
				r.queue = r.queue[1:]
				r.mu.Unlock()
				return msg
			}
			r.mu.Unlock()

			select {
			case <-r.notify:
			case <-r.done:
				return nil
			}
		}
	}
}

// Close releases any pending Wait
func (r *Renderer) Close() {
	r.once.Do(func() { close(r.done) })
}

func (r *Renderer) StateChanged(state view.ViewState) {
	r.push(StateChangedMsg{State: state})
}

func (r *Renderer) Loading(section view.Section, n int) {
	r.push(SectionLoadingMsg{Section: section, Count: n})
}

func (r *Renderer) Cards(section view.Section, items []domain.Anime, appendItems bool) {
	r.push(CardsMsg{Section: section, Items: append([]domain.Anime(nil), items...), Append: appendItems})
}

func (r *Renderer) Empty(section view.Section, message string) {
	r.push(SectionEmptyMsg{Section: section, Message: message})
}

func (r *Renderer) Failed(section view.Section, err error) {
	r.push(SectionFailedMsg{Section: section, Err: err})
}

func (r *Renderer) LoadMore(status view.LoadMoreStatus, err error) {
	r.push(LoadMoreMsg{Status: status, Err: err})
}

func (r *Renderer) Carousel(section view.Section, state view.CarouselState) {
	r.push(CarouselMsg{Section: section, State: state})
}

func (r *Renderer) Hero(slide view.HeroSlide) {
	r.push(HeroMsg{Slide: slide})
}
