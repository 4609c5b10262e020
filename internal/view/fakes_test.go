package view

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/anicrunch/anicrunch/internal/domain"
)

type event struct {
	kind    string
	section Section
	items   []domain.Anime
	append  bool
	status  LoadMoreStatus
	err     error
	state   ViewState
	slide   HeroSlide
	page    CarouselState
}

// recorder is a Renderer that keeps every call
type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) add(e event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) StateChanged(s ViewState)     { r.add(event{kind: "state", state: s}) }
func (r *recorder) Loading(s Section, n int)     { r.add(event{kind: "loading", section: s}) }
func (r *recorder) Empty(s Section, msg string)  { r.add(event{kind: "empty", section: s}) }
func (r *recorder) Failed(s Section, err error)  { r.add(event{kind: "failed", section: s, err: err}) }
func (r *recorder) Hero(slide HeroSlide)         { r.add(event{kind: "hero", slide: slide}) }
func (r *recorder) Carousel(s Section, c CarouselState) {
	r.add(event{kind: "carousel", section: s, page: c})
}
func (r *recorder) LoadMore(st LoadMoreStatus, err error) {
	r.add(event{kind: "loadmore", status: st, err: err})
}
func (r *recorder) Cards(s Section, items []domain.Anime, appendItems bool) {
	r.add(event{kind: "cards", section: s, items: items, append: appendItems})
}

// shown returns the cards currently displayed in section
func (r *recorder) shown(s Section) []domain.Anime {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Anime
	for _, e := range r.events {
		if e.section != s {
			continue
		}
		switch e.kind {
		case "loading", "empty", "failed":
			out = nil
		case "cards":
			if !e.append {
				out = nil
			}
			out = append(out, e.items...)
		}
	}
	return out
}

func (r *recorder) count(kind string, s Section) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.kind == kind && (s == "" || e.section == s) {
			n++
		}
	}
	return n
}

func (r *recorder) last(kind string) (event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].kind == kind {
			return r.events[i], true
		}
	}
	return event{}, false
}

func (r *recorder) loadMore() LoadMoreStatus {
	e, _ := r.last("loadmore")
	return e.status
}

type call struct {
	method   string
	arg      string
	priority domain.Priority
}

// fakeCatalog serves scripted responses; unset methods return empty lists
type fakeCatalog struct {
	mu    sync.Mutex
	calls []call

	search   func(ctx context.Context, q string) ([]domain.Anime, error)
	genre    func(ctx context.Context, id, page int) ([]domain.Anime, error)
	rows     map[string]func() ([]domain.Anime, error)
	schedule func(day domain.Weekday) ([]domain.Anime, error)
}

func (f *fakeCatalog) record(method, arg string, p domain.Priority) {
	f.mu.Lock()
	f.calls = append(f.calls, call{method, arg, p})
	f.mu.Unlock()
}

func (f *fakeCatalog) callsTo(method string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeCatalog) row(name string) ([]domain.Anime, error) {
	if fn, ok := f.rows[name]; ok {
		return fn()
	}
	return nil, nil
}

func (f *fakeCatalog) Search(ctx context.Context, q string, p domain.Priority) ([]domain.Anime, error) {
	f.record("Search", q, p)
	if f.search != nil {
		return f.search(ctx, q)
	}
	return nil, nil
}

func (f *fakeCatalog) GenrePage(ctx context.Context, id, page int, p domain.Priority) ([]domain.Anime, error) {
	f.record("GenrePage", fmt.Sprintf("%d/%d", id, page), p)
	if f.genre != nil {
		return f.genre(ctx, id, page)
	}
	return nil, nil
}

func (f *fakeCatalog) Seasonal(ctx context.Context, p domain.Priority) ([]domain.Anime, error) {
	f.record("Seasonal", "", p)
	return f.row("seasonal")
}

func (f *fakeCatalog) Trending(ctx context.Context, p domain.Priority) ([]domain.Anime, error) {
	f.record("Trending", "", p)
	return f.row("trending")
}

func (f *fakeCatalog) TopRated(ctx context.Context, p domain.Priority) ([]domain.Anime, error) {
	f.record("TopRated", "", p)
	return f.row("top")
}

func (f *fakeCatalog) Featured(ctx context.Context, p domain.Priority) ([]domain.Anime, error) {
	f.record("Featured", "", p)
	return f.row("hero")
}

func (f *fakeCatalog) Schedule(ctx context.Context, day domain.Weekday, p domain.Priority) ([]domain.Anime, error) {
	f.record("Schedule", string(day), p)
	if f.schedule != nil {
		return f.schedule(day)
	}
	return nil, nil
}

func (f *fakeCatalog) Random(ctx context.Context, p domain.Priority) (*domain.Anime, error) {
	return nil, domain.ErrEmptyResult
}

func (f *fakeCatalog) Anime(ctx context.Context, id int, p domain.Priority) (*domain.Anime, error) {
	return nil, domain.ErrNotFound
}

// fakeBackend is the backend search proxy
type fakeBackend struct {
	mu      sync.Mutex
	queries []string
	search  func(ctx context.Context, q string) ([]domain.Anime, error)
}

func (f *fakeBackend) Search(ctx context.Context, q string) ([]domain.Anime, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.search != nil {
		return f.search(ctx, q)
	}
	return nil, nil
}

func (f *fakeBackend) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func makeAnime(prefix string, n int) []domain.Anime {
	out := make([]domain.Anime, n)
	for i := range out {
		out[i] = domain.Anime{ID: i + 1, Title: fmt.Sprintf("%s %d", prefix, i+1)}
	}
	return out
}

func testConfig() Config {
	return Config{
		Debounce:     30 * time.Millisecond,
		HeroInterval: time.Hour,
	}
}

func newTestController(t *testing.T, catalog *fakeCatalog, backend *fakeBackend, cfg Config) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	var b domain.SearchRepository
	if backend != nil {
		b = backend
	}
	c := NewController(catalog, b, nil, rec, cfg, nil)
	t.Cleanup(c.Close)
	return c, rec
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}
