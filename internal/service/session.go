package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anicrunch/anicrunch/internal/domain"
)

// SessionStore persists the session cookie between runs
type SessionStore interface {
	SaveSession(username, token string) error
	ClearSession() error
}

// SessionService manages the backend login state
type SessionService struct {
	accounts domain.AccountRepository
	store    SessionStore
	logger   *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(accounts domain.AccountRepository, store SessionStore, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{accounts: accounts, store: store, logger: logger}
}

// Login authenticates and persists the session
func (s *SessionService) Login(ctx context.Context, username, password string) (string, error) {
	return s.authenticate(ctx, username, password, s.accounts.Login)
}

// Signup creates an account, which also logs it in
func (s *SessionService) Signup(ctx context.Context, username, password string) (string, error) {
	return s.authenticate(ctx, username, password, s.accounts.Signup)
}

func (s *SessionService) authenticate(
	ctx context.Context,
	username, password string,
	call func(ctx context.Context, username, password string) (string, error),
) (string, error) {
	username = domain.NormalizeUsername(username)
	if username == "" || password == "" {
		return "", errors.New("username and password are required")
	}

	user, err := call(ctx, username, password)
	if err != nil {
		return "", err
	}

	token := s.accounts.SessionToken()
	if token == "" {
		return "", errors.New("backend did not issue a session cookie")
	}
	if err := s.store.SaveSession(user, token); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("logged in", "user", user)
	return user, nil
}

// Logout ends the backend session and forgets the saved cookie. The local
// cookie is cleared even when the backend cannot be reached.
func (s *SessionService) Logout(ctx context.Context) error {
	remoteErr := s.accounts.Logout(ctx)
	if remoteErr != nil {
		s.logger.Warn("backend logout failed", "error", remoteErr)
	}
	if err := s.store.ClearSession(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if remoteErr != nil && !errors.Is(remoteErr, domain.ErrAuthRequired) {
		return remoteErr
	}
	return nil
}

// WhoAmI returns the logged-in user, or nil when anonymous
func (s *SessionService) WhoAmI(ctx context.Context) (*domain.User, error) {
	return s.accounts.Me(ctx)
}
