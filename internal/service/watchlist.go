package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/anicrunch/anicrunch/internal/domain"
)

// WatchlistService keeps the user's watchlist and resolves it to catalog
// entries on the background lane
type WatchlistService struct {
	repo    domain.WatchlistRepository
	catalog domain.CatalogRepository
	logger  *slog.Logger

	mu     sync.RWMutex
	ids    []int
	set    map[int]bool
	loaded bool
}

// NewWatchlistService creates a new WatchlistService
func NewWatchlistService(repo domain.WatchlistRepository, catalog domain.CatalogRepository, logger *slog.Logger) *WatchlistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatchlistService{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
		set:     make(map[int]bool),
	}
}

// IDs fetches the id list from the backend and refreshes the local copy
func (s *WatchlistService) IDs(ctx context.Context) ([]int, error) {
	ids, err := s.repo.Watchlist(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.ids = append([]int(nil), ids...)
	s.set = make(map[int]bool, len(ids))
	for _, id := range ids {
		s.set[id] = true
	}
	s.loaded = true
	s.mu.Unlock()

	return ids, nil
}

// Contains reports whether id is on the last fetched list
func (s *WatchlistService) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set[id]
}

// Toggle adds id when absent and removes it when present.
// It returns true when the id is now on the list.
func (s *WatchlistService) Toggle(ctx context.Context, id int) (bool, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		if _, err := s.IDs(ctx); err != nil {
			return false, err
		}
	}

	if s.Contains(id) {
		if err := s.repo.RemoveFromWatchlist(ctx, id); err != nil {
			return true, err
		}
		s.mu.Lock()
		delete(s.set, id)
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		return false, nil
	}

	if err := s.repo.AddToWatchlist(ctx, id); err != nil {
		return false, err
	}
	s.mu.Lock()
	s.set[id] = true
	s.ids = append(s.ids, id)
	s.mu.Unlock()
	return true, nil
}

// Resolve loads every watchlist entry from the catalog. Entries that fail to
// load are skipped; the call fails only when nothing could be loaded.
func (s *WatchlistService) Resolve(ctx context.Context) ([]domain.Anime, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Anime, 0, len(ids))
	var lastErr error
	for _, id := range ids {
		a, err := s.catalog.Anime(ctx, id, domain.PriorityBackground)
		if err != nil {
			if errors.Is(err, domain.ErrCancelled) || ctx.Err() != nil {
				return nil, domain.ErrCancelled
			}
			s.logger.Warn("failed to load watchlist entry", "id", id, "error", err)
			lastErr = err
			continue
		}
		items = append(items, *a)
	}

	if len(items) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return items, nil
}
