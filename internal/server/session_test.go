package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMemorySessionsExpire(t *testing.T) {
	m := NewMemorySessions()
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	if err := m.Put(ctx, "a", Session{UserID: 1, Username: "spike"}, time.Minute); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	s, err := m.Get(ctx, "a")
	if err != nil || s == nil || s.Username != "spike" {
		t.Fatalf("Get() = %v, %v, want spike", s, err)
	}

	now = now.Add(time.Minute)
	s, _ = m.Get(ctx, "a")
	if s != nil {
		t.Errorf("Get() after ttl = %v, want nil", s)
	}
	if len(m.entries) != 0 {
		t.Errorf("entries = %d, want 0", len(m.entries))
	}
}

func TestSignVerify(t *testing.T) {
	a, _ := newSessions(NewMemorySessions(), "one", time.Hour, false)
	b, _ := newSessions(NewMemorySessions(), "two", time.Hour, false)

	signed := a.sign("abc")
	if id, ok := a.verify(signed); !ok || id != "abc" {
		t.Errorf("verify(own) = %q, %v, want abc, true", id, ok)
	}
	if _, ok := b.verify(signed); ok {
		t.Error("verify with another secret = true, want false")
	}
	for _, v := range []string{"", "abc", ".sig", "abc."} {
		if _, ok := a.verify(v); ok {
			t.Errorf("verify(%q) = true, want false", v)
		}
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	tests := []struct {
		secure   bool
		sameSite http.SameSite
	}{
		{false, http.SameSiteLaxMode},
		{true, http.SameSiteNoneMode},
	}
	for _, tt := range tests {
		s, _ := newSessions(NewMemorySessions(), "k", 7*24*time.Hour, tt.secure)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/login", nil)
		if err := s.start(rec, req, Session{UserID: 1, Username: "jet"}); err != nil {
			t.Fatalf("start() error = %v", err)
		}

		cookies := rec.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("cookies = %d, want 1", len(cookies))
		}
		c := cookies[0]
		if c.Name != SessionCookie || !c.HttpOnly || c.Secure != tt.secure {
			t.Errorf("cookie = %+v, want HttpOnly %s secure=%v", c, SessionCookie, tt.secure)
		}
		if c.MaxAge != 7*24*60*60 {
			t.Errorf("MaxAge = %d, want 7 days", c.MaxAge)
		}
		if c.SameSite != tt.sameSite {
			t.Errorf("SameSite = %v, want %v", c.SameSite, tt.sameSite)
		}
	}
}

func TestRateLimiterRefills(t *testing.T) {
	l := newRateLimiter(2, time.Minute)
	now := time.Unix(0, 0)
	l.now = func() time.Time { return now }

	if !l.allow("a") || !l.allow("a") {
		t.Fatal("first two requests denied")
	}
	if l.allow("a") {
		t.Error("third request allowed, want denied")
	}
	if !l.allow("b") {
		t.Error("other client denied")
	}

	now = now.Add(30 * time.Second)
	if !l.allow("a") {
		t.Error("request after refill denied")
	}
}
