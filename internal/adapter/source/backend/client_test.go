package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anicrunch/anicrunch/internal/domain"
)

// fakeBackend accepts alice/secret and serves a fixed watchlist to session "s1"
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	authed := func(r *http.Request) bool {
		ck, err := r.Cookie(SessionCookie)
		return err == nil && ck.Value == "s1"
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var body credentials
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Username != "alice" || body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "s1", Path: "/", HttpOnly: true})
		_, _ = w.Write([]byte(`{"user":"alice"}`))
	})
	mux.HandleFunc("POST /api/signup", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"User already exists"}`))
	})
	mux.HandleFunc("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			_, _ = w.Write([]byte(`{"user":null}`))
			return
		}
		_, _ = w.Write([]byte(`{"user":{"id":1,"username":"alice"}}`))
	})
	mux.HandleFunc("GET /api/watchlist", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Login required"}`))
			return
		}
		_, _ = w.Write([]byte(`[1,20,5114]`))
	})
	mux.HandleFunc("GET /api/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "attack" {
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"mal_id":16498,"title":"Attack on Titan"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL, session string) *Client {
	t.Helper()
	c, err := NewClient(baseURL, session, nil)
	if err != nil {
		t.Fatalf("NewClient error = %v", err)
	}
	return c
}

func TestLoginStoresSession(t *testing.T) {
	srv := fakeBackend(t)
	c := newTestClient(t, srv.URL, "")
	ctx := context.Background()

	if me, err := c.Me(ctx); err != nil || me != nil {
		t.Fatalf("Me before login = %v, %v; want nil, nil", me, err)
	}

	user, err := c.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("Login error = %v", err)
	}
	if user != "alice" {
		t.Fatalf("user = %q, want alice", user)
	}
	if got := c.SessionToken(); got != "s1" {
		t.Fatalf("SessionToken = %q, want s1", got)
	}

	me, err := c.Me(ctx)
	if err != nil || me == nil || me.Username != "alice" {
		t.Fatalf("Me after login = %v, %v", me, err)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := fakeBackend(t)
	c := newTestClient(t, srv.URL, "")

	_, err := c.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignupConflict(t *testing.T) {
	srv := fakeBackend(t)
	c := newTestClient(t, srv.URL, "")

	_, err := c.Signup(context.Background(), "alice", "secret")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("err = %v, want ErrUserExists", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "User already exists" {
		t.Fatalf("APIError = %+v", apiErr)
	}
}

func TestWatchlistRequiresSession(t *testing.T) {
	srv := fakeBackend(t)

	anon := newTestClient(t, srv.URL, "")
	if _, err := anon.Watchlist(context.Background()); !errors.Is(err, domain.ErrAuthRequired) {
		t.Fatalf("anonymous err = %v, want ErrAuthRequired", err)
	}

	saved := newTestClient(t, srv.URL, "s1")
	ids, err := saved.Watchlist(context.Background())
	if err != nil {
		t.Fatalf("Watchlist error = %v", err)
	}
	if len(ids) != 3 || ids[2] != 5114 {
		t.Fatalf("ids = %v, want [1 20 5114]", ids)
	}
}

func TestSearchMapsCatalogItems(t *testing.T) {
	srv := fakeBackend(t)
	c := newTestClient(t, srv.URL, "")

	got, err := c.Search(context.Background(), "attack")
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	if len(got) != 1 || got[0].ID != 16498 {
		t.Fatalf("results = %+v", got)
	}

	empty, err := c.Search(context.Background(), "zzz")
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty search = %v, %v", empty, err)
	}
}

func TestOfflineBackend(t *testing.T) {
	srv := fakeBackend(t)
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url, "")
	if _, err := c.Me(context.Background()); !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("err = %v, want ErrServerOffline", err)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	if _, err := NewClient("not a url", "", nil); err == nil {
		t.Fatal("NewClient accepted a relative URL")
	}
}
