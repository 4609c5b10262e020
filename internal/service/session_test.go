package service

import (
	"context"
	"errors"
	"testing"

	"github.com/anicrunch/anicrunch/internal/domain"
)

func TestSessionLoginPersistsCookie(t *testing.T) {
	accounts := &fakeAccounts{}
	store := &fakeSessionStore{}
	svc := NewSessionService(accounts, store, nil)

	user, err := svc.Login(context.Background(), "  Spike ", "bebop")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user != "spike" {
		t.Errorf("user = %q, want %q", user, "spike")
	}
	if store.username != "spike" || store.token != "tok-spike" {
		t.Errorf("saved session = (%q, %q), want (spike, tok-spike)", store.username, store.token)
	}
}

func TestSessionLoginRejectsMissingFields(t *testing.T) {
	accounts := &fakeAccounts{}
	svc := NewSessionService(accounts, &fakeSessionStore{}, nil)

	tests := []struct {
		name, username, password string
	}{
		{"empty username", "   ", "pw"},
		{"empty password", "faye", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tt.username, tt.password); err == nil {
				t.Error("Login() error = nil, want error")
			}
		})
	}
	if accounts.logins != 0 {
		t.Errorf("backend logins = %d, want 0", accounts.logins)
	}
}

func TestSessionLoginFailureKeepsStore(t *testing.T) {
	accounts := &fakeAccounts{loginErr: domain.ErrInvalidCredentials}
	store := &fakeSessionStore{username: "jet", token: "old"}
	svc := NewSessionService(accounts, store, nil)

	_, err := svc.Login(context.Background(), "jet", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if store.token != "old" {
		t.Errorf("token = %q, want unchanged", store.token)
	}
}

func TestSessionLogoutClearsEvenWhenExpired(t *testing.T) {
	accounts := &fakeAccounts{logoutErr: domain.ErrAuthRequired}
	store := &fakeSessionStore{username: "ed", token: "t"}
	svc := NewSessionService(accounts, store, nil)

	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v, want nil", err)
	}
	if !store.cleared {
		t.Error("session not cleared")
	}
}

func TestSessionLogoutOfflineStillClears(t *testing.T) {
	accounts := &fakeAccounts{logoutErr: domain.ErrServerOffline}
	store := &fakeSessionStore{username: "ed", token: "t"}
	svc := NewSessionService(accounts, store, nil)

	err := svc.Logout(context.Background())
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Errorf("Logout() error = %v, want ErrServerOffline", err)
	}
	if !store.cleared {
		t.Error("session not cleared")
	}
}

func TestSessionWhoAmI(t *testing.T) {
	accounts := &fakeAccounts{}
	svc := NewSessionService(accounts, &fakeSessionStore{}, nil)

	u, err := svc.WhoAmI(context.Background())
	if err != nil || u != nil {
		t.Fatalf("WhoAmI() = %v, %v, want nil, nil", u, err)
	}

	if _, err := svc.Signup(context.Background(), "Vicious", "pw"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	u, err = svc.WhoAmI(context.Background())
	if err != nil || u == nil || u.Username != "vicious" {
		t.Errorf("WhoAmI() = %v, %v, want vicious", u, err)
	}
}
