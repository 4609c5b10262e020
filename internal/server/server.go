// Package server is the anicrunch backend: accounts, watchlists and a cached
// search proxy in front of the upstream catalog.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
	"golang.org/x/crypto/bcrypt"

	"github.com/anicrunch/anicrunch/internal/adapter/source/jikan"
	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/fetch"
)

// Server serves the backend API
type Server struct {
	cfg      *Config
	store    domain.AccountStore
	sessions *sessions
	upstream *fetch.Coordinator
	cache    searchCache
	urls     jikan.URLs
	logger   *slog.Logger

	authLimit   *rateLimiter
	searchLimit *rateLimiter

	hashCost  int
	dummyHash []byte
}

// Option configures a Server
type Option func(*options)

type options struct {
	client   fetch.HTTPDoer
	hashCost int
}

// WithUpstreamClient sets the transport used for upstream searches
func WithUpstreamClient(c fetch.HTTPDoer) Option {
	return func(o *options) { o.client = c }
}

// WithHashCost overrides the bcrypt cost
func WithHashCost(cost int) Option {
	return func(o *options) { o.hashCost = cost }
}

// New creates a Server. The caller owns store and sessionStore.
func New(cfg *Config, store domain.AccountStore, sessionStore SessionStore, logger *slog.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	o := options{hashCost: DefaultHashCost}
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.SessionSecret == "" {
		logger.Warn("SESSION_SECRET is not set; sessions will not survive a restart")
	}
	sess, err := newSessions(sessionStore, cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	if err != nil {
		return nil, err
	}

	cache, err := newSearchCache(cfg.SearchCache, cfg.SearchCacheTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("anicrunch"), o.hashCost)
	if err != nil {
		cache.Close()
		return nil, err
	}

	fcfg := fetch.DefaultConfig()
	fcfg.CacheTTL = cfg.SearchCacheTTL
	coordOpts := []fetch.CoordinatorOption{fetch.WithCache(cache), fetch.WithLogger(logger)}
	if o.client != nil {
		coordOpts = append(coordOpts, fetch.WithHTTPClient(o.client))
	}

	return &Server{
		cfg:         cfg,
		store:       store,
		sessions:    sess,
		upstream:    fetch.NewCoordinator(fcfg, coordOpts...),
		cache:       cache,
		urls:        jikan.NewURLs(cfg.UpstreamURL),
		logger:      logger,
		authLimit:   newRateLimiter(cfg.AuthLimit, cfg.AuthWindow),
		searchLimit: newRateLimiter(cfg.SearchLimit, cfg.SearchWin),
		hashCost:    o.hashCost,
		dummyHash:   dummy,
	}, nil
}

// Handler returns the routed, middleware-wrapped API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/me", s.handleMe)
	mux.HandleFunc("POST /api/signup", s.authLimit.wrap(s.handleSignup))
	mux.HandleFunc("POST /api/login", s.authLimit.wrap(s.handleLogin))
	mux.HandleFunc("POST /api/logout", s.handleLogout)

	mux.HandleFunc("GET /api/watchlist", s.requireAuth(s.handleWatchlist))
	mux.HandleFunc("POST /api/watchlist/add", s.requireAuth(s.handleWatchlistAdd))
	mux.HandleFunc("POST /api/watchlist/remove", s.requireAuth(s.handleWatchlistRemove))

	mux.HandleFunc("GET /api/search", s.searchLimit.wrap(s.handleSearch))

	var h http.Handler = mux

	// Browsers on other origins need credentialed CORS; same-origin and
	// terminal clients do not
	if len(s.cfg.CORSOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins:   s.cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
		}).Handler(h)
	}

	h = loggingMiddleware(s.logger)(h)
	h = requestIDMiddleware(h)
	h = recoverMiddleware(s.logger)(h)

	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.upstream.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"critical":   stats.Critical,
		"background": stats.Background,
	})
}

// Run serves on cfg.Addr() until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("anicrunch backend listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close stops the upstream queue and releases the search cache
func (s *Server) Close() error {
	return errors.Join(s.upstream.Close(), s.cache.Close())
}
