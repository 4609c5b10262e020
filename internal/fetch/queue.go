package fetch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/anicrunch/anicrunch/internal/domain"
)

// Result is the outcome of a queued fetch.
type Result struct {
	Payload Payload
	Err     error
}

type task struct {
	url  string
	opts []Option
	done chan Result // buffered 1, written exactly once
}

// lane is an unbounded FIFO drained by a single worker goroutine. The worker
// waits the lane delay before every task, so consecutive starts are always at
// least delay apart and never overlap.
type lane struct {
	priority domain.Priority
	delay    time.Duration
	run      func(ctx context.Context, t *task) Result
	logger   *slog.Logger

	mu      sync.Mutex
	pending []*task
	active  bool
	closed  bool
	wake    chan struct{}
}

func newLane(p domain.Priority, delay time.Duration, run func(context.Context, *task) Result, logger *slog.Logger) *lane {
	return &lane{
		priority: p,
		delay:    delay,
		run:      run,
		logger:   logger.With("lane", p.String()),
		wake:     make(chan struct{}, 1),
	}
}

// push appends t. A closed lane fails it immediately.
func (l *lane) push(t *task) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		t.done <- Result{Err: ErrClosed}
		return
	}
	l.pending = append(l.pending, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *lane) pop() *task {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pending) == 0 {
		l.active = false
		return nil
	}
	t := l.pending[0]
	l.pending[0] = nil
	l.pending = l.pending[1:]
	l.active = true
	return t
}

// depth returns queued plus in-flight tasks.
func (l *lane) depth() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.pending)
	if l.active {
		n++
	}
	return n
}

// loop drains the lane until ctx is done.
func (l *lane) loop(ctx context.Context) {
	defer l.shutdown()
	for {
		t := l.pop()
		if t == nil {
			select {
			case <-ctx.Done():
				return
			case <-l.wake:
				continue
			}
		}

		select {
		case <-ctx.Done():
			t.done <- Result{Err: ErrClosed}
			return
		case <-time.After(l.delay):
		}

		l.logger.Debug("lane start", "url", t.url)
		res := l.run(ctx, t)
		if res.Err != nil {
			l.logger.Debug("lane task failed", "url", t.url, "error", res.Err)
		}
		t.done <- res
	}
}

// shutdown fails everything still queued.
func (l *lane) shutdown() {
	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.active = false
	l.closed = true
	l.mu.Unlock()

	for _, t := range pending {
		t.done <- Result{Err: ErrClosed}
	}
}
