package view

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/search"
)

// Config tunes controller timing and page sizes
type Config struct {
	Debounce         time.Duration
	MinQueryLength   int
	PageSize         int // Items per genre page; a full page means more may follow
	CarouselPageSize int
	HeroInterval     time.Duration
	HeroSlides       int
	Skeletons        int
}

// DefaultConfig returns the stock controller tuning
func DefaultConfig() Config {
	return Config{
		Debounce:         300 * time.Millisecond,
		MinQueryLength:   3,
		PageSize:         24,
		CarouselPageSize: DefaultCarouselPageSize,
		HeroInterval:     8000 * time.Millisecond,
		HeroSlides:       7,
		Skeletons:        12,
	}
}

// WatchlistResolver loads the user's watchlist as catalog entries
type WatchlistResolver interface {
	Resolve(ctx context.Context) ([]domain.Anime, error)
}

type sectionStatus int

const (
	sectionIdle sectionStatus = iota
	sectionLoading
	sectionLoaded
)

// Controller owns the ViewState and turns user actions into queued catalog
// loads. Each search, genre, schedule or watchlist session runs under its own
// abort scope; starting a new one cancels the previous scope, and results are
// applied only while their scope is still live.
type Controller struct {
	catalog   domain.CatalogRepository
	backend   domain.SearchRepository
	watchlist WatchlistResolver
	render    Renderer
	cfg       Config
	logger    *slog.Logger

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	debounce *Debouncer
	hero     *Hero

	mu          sync.Mutex
	state       ViewState
	scopeCtx    context.Context
	scopeCancel context.CancelFunc
	reissue     func()
	results     []domain.Anime
	rows        map[Section][]domain.Anime
	carousels   map[Section]CarouselState
	home        map[Section]sectionStatus
	retries     map[Section]func()
}

// NewController creates a controller. backend and watchlist may be nil when no
// backend is configured; search then goes straight to the catalog.
func NewController(
	catalog domain.CatalogRepository,
	backend domain.SearchRepository,
	watchlist WatchlistResolver,
	render Renderer,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = def.MinQueryLength
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.CarouselPageSize <= 0 {
		cfg.CarouselPageSize = def.CarouselPageSize
	}
	if cfg.HeroInterval <= 0 {
		cfg.HeroInterval = def.HeroInterval
	}
	if cfg.HeroSlides <= 0 {
		cfg.HeroSlides = def.HeroSlides
	}
	if cfg.Skeletons <= 0 {
		cfg.Skeletons = def.Skeletons
	}

	base, cancel := context.WithCancel(context.Background())
	c := &Controller{
		catalog:   catalog,
		backend:   backend,
		watchlist: watchlist,
		render:    render,
		cfg:       cfg,
		logger:    logger,
		base:      base,
		cancel:    cancel,
		debounce:  NewDebouncer(cfg.Debounce),
		state:     ViewState{Mode: ModeHome},
		rows:      make(map[Section][]domain.Anime),
		carousels: make(map[Section]CarouselState),
		home:      make(map[Section]sectionStatus),
		retries:   make(map[Section]func()),
	}
	c.hero = newHero(cfg.HeroInterval, render.Hero)
	return c
}

// State returns the live ViewState
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Results returns a copy of the cards in the results area
func (c *Controller) Results() []domain.Anime {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Anime(nil), c.results...)
}

// Row returns a copy of a home row
func (c *Controller) Row(s Section) []domain.Anime {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Anime(nil), c.rows[s]...)
}

// Input feeds raw search box text; the search runs once typing pauses
func (c *Controller) Input(text string) {
	c.debounce.Trigger(func() { c.runSearch(text) })
}

// Search runs a search immediately. Queries shorter than MinQueryLength
// return to home without a request. Pending debounced input is dropped.
func (c *Controller) Search(text string) {
	c.debounce.Cancel()
	c.runSearch(text)
}

// runSearch leaves the debouncer alone so a keystroke arriving mid-flight
// keeps its pending search
func (c *Controller) runSearch(text string) {
	q := strings.TrimSpace(text)
	if utf8.RuneCountInString(q) < c.cfg.MinQueryLength {
		c.ShowHome()
		return
	}

	ctx, ok := c.begin(ViewState{Mode: ModeSearch, Query: q, Page: 1, Loading: true}, func() { c.runSearch(q) })
	if !ok {
		return
	}
	c.spawn(func() {
		items, err := c.search(ctx, q)
		c.applyResults(ctx, items, err, false)
	})
}

// search asks the backend proxy first and falls back to the catalog on the
// critical lane when the backend fails or has nothing.
func (c *Controller) search(ctx context.Context, q string) ([]domain.Anime, error) {
	if c.backend != nil {
		items, err := c.backend.Search(ctx, q)
		if ctx.Err() != nil {
			return nil, domain.ErrCancelled
		}
		if err == nil && len(items) > 0 {
			return search.Rank(items, q), nil
		}
		if err != nil {
			c.logger.Warn("backend search failed, falling back to catalog", "query", q, "error", err)
		} else {
			c.logger.Debug("backend search empty, falling back to catalog", "query", q)
		}
	}

	items, err := c.catalog.Search(ctx, q, domain.PriorityCritical)
	if err != nil {
		return nil, err
	}
	return search.Rank(items, q), nil
}

// SelectGenre shows page 1 of a genre
func (c *Controller) SelectGenre(g domain.Genre) {
	c.debounce.Cancel()
	ctx, ok := c.begin(ViewState{Mode: ModeGenre, Genre: g, Page: 1, Loading: true}, func() { c.SelectGenre(g) })
	if !ok {
		return
	}
	c.spawn(func() {
		items, err := c.catalog.GenrePage(ctx, g.ID, 1, domain.PriorityBackground)
		c.applyResults(ctx, items, err, false)
	})
}

// LoadMore appends the next genre page. It is a no-op unless the last page
// was full and nothing is loading.
func (c *Controller) LoadMore() {
	c.mu.Lock()
	st := c.state
	if st.Mode != ModeGenre || !st.HasMore || st.Loading {
		c.mu.Unlock()
		return
	}
	next := st
	next.Page++
	next.Loading = true
	c.setStateLocked(next)
	c.render.LoadMore(LoadMoreLoading, nil)
	ctx := c.scopeCtx
	c.mu.Unlock()

	c.spawn(func() {
		items, err := c.catalog.GenrePage(ctx, next.Genre.ID, next.Page, domain.PriorityBackground)
		c.applyResults(ctx, items, err, true)
	})
}

// ShowSchedule lists what airs on day
func (c *Controller) ShowSchedule(day domain.Weekday) {
	c.debounce.Cancel()
	ctx, ok := c.begin(ViewState{Mode: ModeSchedule, Day: day, Page: 1, Loading: true}, func() { c.ShowSchedule(day) })
	if !ok {
		return
	}
	c.spawn(func() {
		items, err := c.catalog.Schedule(ctx, day, domain.PriorityBackground)
		c.applyResults(ctx, items, err, false)
	})
}

// ShowWatchlist lists the user's saved titles
func (c *Controller) ShowWatchlist() {
	c.debounce.Cancel()
	ctx, ok := c.begin(ViewState{Mode: ModeWatchlist, Page: 1, Loading: true}, c.ShowWatchlist)
	if !ok {
		return
	}
	c.spawn(func() {
		if c.watchlist == nil {
			c.applyResults(ctx, nil, domain.ErrAuthRequired, false)
			return
		}
		items, err := c.watchlist.Resolve(ctx)
		c.applyResults(ctx, items, err, false)
	})
}

// ShowHome leaves any results session and shows the home rows, loading
// whichever have not loaded yet
func (c *Controller) ShowHome() {
	c.mu.Lock()
	c.cancelScopeLocked()
	c.results = nil
	c.reissue = nil
	delete(c.retries, SectionResults)
	c.setStateLocked(ViewState{Mode: ModeHome})
	c.render.LoadMore(LoadMoreHidden, nil)
	c.mu.Unlock()

	c.LoadHome()
}

// Clear drops pending search input and returns home
func (c *Controller) Clear() {
	c.debounce.Cancel()
	c.ShowHome()
}

// LoadHome loads each home section once. Failed sections can be reloaded.
func (c *Controller) LoadHome() {
	for _, s := range HomeSections {
		c.loadSection(s)
	}
}

func (c *Controller) loadSection(s Section) {
	c.mu.Lock()
	if c.base.Err() != nil || c.home[s] != sectionIdle {
		c.mu.Unlock()
		return
	}
	c.home[s] = sectionLoading
	delete(c.retries, s)
	n := c.cfg.CarouselPageSize
	if s == SectionHero {
		n = 1
	}
	c.render.Loading(s, n)
	c.mu.Unlock()

	c.spawn(func() {
		items, err := c.fetchSection(c.base, s)
		c.applySection(s, items, err)
	})
}

func (c *Controller) fetchSection(ctx context.Context, s Section) ([]domain.Anime, error) {
	switch s {
	case SectionHero:
		return c.catalog.Featured(ctx, domain.PriorityCritical)
	case SectionSeasonal:
		return c.catalog.Seasonal(ctx, domain.PriorityBackground)
	case SectionTrending:
		return c.catalog.Trending(ctx, domain.PriorityBackground)
	case SectionTop:
		return c.catalog.TopRated(ctx, domain.PriorityBackground)
	}
	return nil, domain.ErrNotFound
}

func (c *Controller) applySection(s Section, items []domain.Anime, err error) {
	c.mu.Lock()
	if c.base.Err() != nil {
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.home[s] = sectionIdle
		if !errors.Is(err, domain.ErrCancelled) {
			c.logger.Warn("home section failed", "section", s, "error", err)
			c.retries[s] = func() { c.loadSection(s) }
			c.render.Failed(s, err)
		}
		c.mu.Unlock()
		return
	}

	c.home[s] = sectionLoaded
	if s == SectionHero && len(items) > c.cfg.HeroSlides {
		items = items[:c.cfg.HeroSlides]
	}
	c.rows[s] = items

	if len(items) == 0 {
		c.render.Empty(s, "Nothing here right now.")
		c.mu.Unlock()
		return
	}

	if s == SectionHero {
		c.mu.Unlock()
		c.hero.SetSlides(items)
		return
	}

	cs := NewCarousel(len(items), c.cfg.CarouselPageSize)
	c.carousels[s] = cs
	// Page size first so a row is never drawn unpaged
	c.render.Carousel(s, cs)
	c.render.Cards(s, items, false)
	c.mu.Unlock()
}

// Retry re-issues the failed request of section. A no-op when nothing failed.
func (c *Controller) Retry(s Section) {
	c.mu.Lock()
	fn := c.retries[s]
	delete(c.retries, s)
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// CanRetry reports whether section has a failed request to re-issue
func (c *Controller) CanRetry(s Section) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retries[s] != nil
}

// CarouselNext pages a home row right; reports whether it moved
func (c *Controller) CarouselNext(s Section) bool {
	return c.moveCarousel(s, CarouselState.Next)
}

// CarouselPrev pages a home row left; reports whether it moved
func (c *Controller) CarouselPrev(s Section) bool {
	return c.moveCarousel(s, CarouselState.Prev)
}

// Carousel returns a row's page position
func (c *Controller) Carousel(s Section) (CarouselState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cs, ok := c.carousels[s]
	return cs, ok
}

func (c *Controller) moveCarousel(s Section, step func(CarouselState) CarouselState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.carousels[s]
	if !ok {
		return false
	}
	next := step(cur)
	if next == cur {
		return false
	}
	c.carousels[s] = next
	c.render.Carousel(s, next)
	return true
}

// Hero navigation; every manual move restarts the autoplay timer
func (c *Controller) HeroNext()         { c.hero.Next() }
func (c *Controller) HeroPrev()         { c.hero.Prev() }
func (c *Controller) HeroGoTo(i int)    { c.hero.GoTo(i) }
func (c *Controller) HeroHover(on bool) { c.hero.Hover(on) }

// HeroSlide returns the visible hero entry
func (c *Controller) HeroSlide() (HeroSlide, bool) { return c.hero.Current() }

// Close cancels every scope and timer and waits for in-flight loads to settle
func (c *Controller) Close() {
	c.debounce.Cancel()
	c.hero.Stop()

	c.mu.Lock()
	c.cancelScopeLocked()
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// begin starts a results session: cancels the previous abort scope, opens a
// new one and swaps in next.
func (c *Controller) begin(next ViewState, reissue func()) (context.Context, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.base.Err() != nil {
		return nil, false
	}

	c.cancelScopeLocked()
	ctx, cancel := context.WithCancel(c.base)
	c.scopeCtx, c.scopeCancel = ctx, cancel
	c.reissue = reissue
	c.results = nil
	delete(c.retries, SectionResults)

	c.setStateLocked(next)
	c.render.Loading(SectionResults, c.cfg.Skeletons)
	c.render.LoadMore(LoadMoreHidden, nil)

	c.logger.Debug("view session started", "mode", next.Mode, "query", next.Query, "genre", next.Genre.Name)
	return ctx, true
}

// applyResults renders a results-area load if its scope is still live
func (c *Controller) applyResults(ctx context.Context, items []domain.Anime, err error, appendPage bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil {
		c.logger.Debug("dropping superseded result", "items", len(items))
		return
	}

	next := c.state
	next.Loading = false

	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			return
		}
		c.logger.Warn("results load failed", "mode", next.Mode, "page", next.Page, "error", err)
		if appendPage {
			// Keep what is shown and let the same page be requested again
			next.Page--
			next.HasMore = true
			c.setStateLocked(next)
			c.render.LoadMore(LoadMoreFailed, err)
			return
		}
		next.HasMore = false
		c.setStateLocked(next)
		if c.reissue != nil {
			c.retries[SectionResults] = c.reissue
		}
		c.render.Failed(SectionResults, err)
		return
	}

	next.HasMore = next.Mode == ModeGenre && len(items) == c.cfg.PageSize
	c.setStateLocked(next)

	switch {
	case !appendPage && len(items) == 0:
		c.results = nil
		c.render.Empty(SectionResults, emptyMessage(next))
	case appendPage:
		c.results = append(c.results, items...)
		if len(items) > 0 {
			c.render.Cards(SectionResults, items, true)
		}
	default:
		c.results = append([]domain.Anime(nil), items...)
		c.render.Cards(SectionResults, items, false)
	}

	if next.HasMore {
		c.render.LoadMore(LoadMoreReady, nil)
	} else {
		c.render.LoadMore(LoadMoreHidden, nil)
	}
}

func (c *Controller) setStateLocked(next ViewState) {
	c.state = next
	c.render.StateChanged(next)
}

func (c *Controller) cancelScopeLocked() {
	if c.scopeCancel != nil {
		c.scopeCancel()
		c.scopeCancel = nil
	}
}

func (c *Controller) spawn(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

func emptyMessage(s ViewState) string {
	switch s.Mode {
	case ModeSearch:
		return "No anime found for \"" + s.Query + "\"."
	case ModeGenre:
		return "No " + s.Genre.Name + " titles found."
	case ModeSchedule:
		return "Nothing airs on " + s.Day.Title() + "."
	case ModeWatchlist:
		return "Your watchlist is empty."
	}
	return "Nothing to show."
}
