package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/anicrunch/anicrunch/internal/domain"
)

type fakeAccounts struct {
	mu        sync.Mutex
	user      *domain.User
	token     string
	loginErr  error
	logoutErr error
	logins    int
}

func (f *fakeAccounts) Me(ctx context.Context) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, nil
}

func (f *fakeAccounts) Login(ctx context.Context, username, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	if f.loginErr != nil {
		return "", f.loginErr
	}
	f.user = &domain.User{ID: 1, Username: username}
	f.token = "tok-" + username
	return username, nil
}

func (f *fakeAccounts) Signup(ctx context.Context, username, password string) (string, error) {
	return f.Login(ctx, username, password)
}

func (f *fakeAccounts) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = nil
	f.token = ""
	return f.logoutErr
}

func (f *fakeAccounts) SessionToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

type fakeSessionStore struct {
	username string
	token    string
	cleared  bool
}

func (s *fakeSessionStore) SaveSession(username, token string) error {
	s.username, s.token, s.cleared = username, token, false
	return nil
}

func (s *fakeSessionStore) ClearSession() error {
	s.username, s.token, s.cleared = "", "", true
	return nil
}

type fakeWatchlist struct {
	mu      sync.Mutex
	ids     []int
	err     error
	added   []int
	removed []int
}

func (f *fakeWatchlist) Watchlist(ctx context.Context) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]int(nil), f.ids...), nil
}

func (f *fakeWatchlist) AddToWatchlist(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, id)
	f.ids = append(f.ids, id)
	return nil
}

func (f *fakeWatchlist) RemoveFromWatchlist(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	for i, v := range f.ids {
		if v == id {
			f.ids = append(f.ids[:i], f.ids[i+1:]...)
			break
		}
	}
	return nil
}

// fakeCatalog only answers Anime lookups
type fakeCatalog struct {
	domain.CatalogRepository

	mu         sync.Mutex
	missing    map[int]bool
	priorities []domain.Priority
}

func (c *fakeCatalog) Anime(ctx context.Context, id int, p domain.Priority) (*domain.Anime, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.priorities = append(c.priorities, p)
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrCancelled
	}
	if c.missing[id] {
		return nil, fmt.Errorf("anime %d: %w", id, domain.ErrNotFound)
	}
	return &domain.Anime{ID: id, Title: fmt.Sprintf("Anime %d", id)}, nil
}
