package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxBodySize caps how much of a response is read
const maxBodySize = 8 << 20

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option adjusts a single fetch.
type Option func(*requestOptions)

type requestOptions struct {
	bypassCache bool
}

// BypassCache skips both the cache lookup and the cache write.
func BypassCache() Option {
	return func(o *requestOptions) { o.bypassCache = true }
}

func resolveOptions(opts []Option) requestOptions {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Fetcher performs one logical GET with caching, retries and backoff.
type Fetcher struct {
	client   HTTPDoer
	cache    Cache
	retries  int
	backoff  time.Duration
	ttl      time.Duration
	separate bool
	logger   *slog.Logger

	// sleep waits for d or until ctx is done
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFetcher creates a Fetcher. A nil client uses http.DefaultClient; a nil
// cache disables caching.
func NewFetcher(client HTTPDoer, cache Cache, cfg Config, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &Fetcher{
		client:   client,
		cache:    cache,
		retries:  cfg.MaxRetries,
		backoff:  cfg.BaseBackoff,
		ttl:      cfg.CacheTTL,
		separate: cfg.SeparateRateLimitBudget,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// Fetch returns the payload for url, from cache when possible.
//
// A 429 waits BaseBackoff * 2^attempt (attempts numbered from 1) and counts
// toward MaxRetries. With SeparateRateLimitBudget the exponent counts 429s
// instead and at most MaxRetries such waits happen. Other failures wait a
// flat BaseBackoff. After the last attempt the error is returned wrapped in
// an *ExhaustedError.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts ...Option) (Payload, error) {
	o := resolveOptions(opts)
	useCache := f.cache != nil && !o.bypassCache

	if useCache {
		if p, ok := f.cache.Get(url); ok {
			f.logger.Debug("cache hit", "url", url)
			return p, nil
		}
	}

	var (
		lastErr     error
		calls       int
		attempt     int // attempts charged to MaxRetries
		rateLimited int
	)
	for {
		calls++
		p, err := f.do(ctx, url)
		if err == nil {
			if useCache && p.cacheable() {
				f.cache.Set(url, p, f.ttl)
			}
			return p, nil
		}
		if ctx.Err() != nil {
			return Payload{}, cancelled(ctx.Err())
		}
		lastErr = err

		if errors.Is(err, ErrRateLimited) {
			rateLimited++
			var exp int
			if f.separate {
				// Own budget: at most MaxRetries waits, never charged to attempts
				if rateLimited > f.retries {
					break
				}
				exp = rateLimited
			} else {
				attempt++
				if attempt >= f.retries {
					break
				}
				exp = attempt
			}
			wait := f.backoff * time.Duration(1<<exp)
			f.logger.Warn("upstream rate limited, backing off",
				"url", url, "attempt", calls, "wait", wait)
			if err := f.sleep(ctx, wait); err != nil {
				return Payload{}, cancelled(err)
			}
			continue
		}

		attempt++
		f.logger.Warn("fetch attempt failed",
			"url", url, "attempt", attempt, "maxRetries", f.retries, "error", err)
		if attempt >= f.retries {
			break
		}
		if err := f.sleep(ctx, f.backoff); err != nil {
			return Payload{}, cancelled(err)
		}
	}

	f.logger.Error("fetch failed after retries", "url", url, "attempts", calls, "error", lastErr)
	return Payload{}, &ExhaustedError{URL: url, Attempts: calls, Last: lastErr}
}

// do performs a single attempt.
func (f *Fetcher) do(ctx context.Context, url string) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return Payload{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Payload{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return Payload{}, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Payload{}, &StatusError{Code: resp.StatusCode, URL: url}
	}

	return parsePayload(body)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
