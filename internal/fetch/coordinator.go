package fetch

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/anicrunch/anicrunch/internal/domain"
)

// Coordinator serializes upstream calls into a critical lane and a background
// lane. Each lane runs one Retrying Fetch at a time with its own inter-request
// delay; the lanes run independently of each other.
type Coordinator struct {
	fetcher *Fetcher
	cache   Cache
	lanes   map[domain.Priority]*lane
	logger  *slog.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*coordinatorOptions)

type coordinatorOptions struct {
	client HTTPDoer
	cache  Cache
	logger *slog.Logger
}

// WithHTTPClient sets the transport used for upstream calls.
func WithHTTPClient(c HTTPDoer) CoordinatorOption {
	return func(o *coordinatorOptions) { o.client = c }
}

// WithCache replaces the default TTLCache.
func WithCache(c Cache) CoordinatorOption {
	return func(o *coordinatorOptions) { o.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) CoordinatorOption {
	return func(o *coordinatorOptions) { o.logger = l }
}

// NewCoordinator builds a coordinator and starts both lane workers.
// Close must be called to stop them.
func NewCoordinator(cfg Config, opts ...CoordinatorOption) *Coordinator {
	cfg = cfg.withDefaults()

	o := coordinatorOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: 30 * time.Second}
	}
	if o.cache == nil {
		o.cache = NewTTLCache(cfg.CacheTTL, cfg.CacheMaxEntries)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		fetcher: NewFetcher(o.client, o.cache, cfg, o.logger),
		cache:   o.cache,
		logger:  o.logger,
		cancel:  cancel,
	}

	run := func(ctx context.Context, t *task) Result {
		p, err := c.fetcher.Fetch(ctx, t.url, t.opts...)
		return Result{Payload: p, Err: err}
	}
	c.lanes = map[domain.Priority]*lane{
		domain.PriorityCritical:   newLane(domain.PriorityCritical, cfg.CriticalDelay, run, o.logger),
		domain.PriorityBackground: newLane(domain.PriorityBackground, cfg.BackgroundDelay, run, o.logger),
	}
	for _, l := range c.lanes {
		c.wg.Add(1)
		go func(l *lane) {
			defer c.wg.Done()
			l.loop(ctx)
		}(l)
	}
	return c
}

// Submit enqueues url on the lane for p and returns a channel that receives
// exactly one Result. Unknown priorities use the background lane.
func (c *Coordinator) Submit(url string, p domain.Priority, opts ...Option) <-chan Result {
	done := make(chan Result, 1)
	l, ok := c.lanes[p]
	if !ok {
		l = c.lanes[domain.PriorityBackground]
	}
	l.push(&task{url: url, opts: opts, done: done})
	return done
}

// QueuedFetch schedules url on the lane for p and waits for its result.
//
// Cached responses return without queueing, so a cache hit neither pays the
// lane delay nor waits behind tasks already queued on the lane. When ctx is
// cancelled the caller stops waiting and gets an error matching
// domain.ErrCancelled; the lane still runs the task, so its response still
// reaches the cache.
func (c *Coordinator) QueuedFetch(ctx context.Context, url string, p domain.Priority, opts ...Option) (Payload, error) {
	if !resolveOptions(opts).bypassCache {
		if cached, ok := c.cache.Get(url); ok {
			return cached, nil
		}
	}

	select {
	case res := <-c.Submit(url, p, opts...):
		return res.Payload, res.Err
	case <-ctx.Done():
		return Payload{}, cancelled(ctx.Err())
	}
}

// Stats is a snapshot of queue depth for status displays.
type Stats struct {
	Critical   int
	Background int
	Cached     int // 0 when the cache cannot report its size
}

// Stats returns the current lane depths and cache size.
func (c *Coordinator) Stats() Stats {
	st := Stats{
		Critical:   c.lanes[domain.PriorityCritical].depth(),
		Background: c.lanes[domain.PriorityBackground].depth(),
	}
	if sized, ok := c.cache.(interface{ Len() int }); ok {
		st.Cached = sized.Len()
	}
	return st
}

// Close stops both lanes and fails pending tasks with ErrClosed. A cache
// that can be cleared, such as the default TTLCache, is emptied.
func (c *Coordinator) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		c.wg.Wait()
		if cl, ok := c.cache.(interface{ Clear() }); ok {
			cl.Clear()
		}
		c.logger.Debug("fetch coordinator closed")
	})
	return nil
}
