package adapter

import (
	"bufio"
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestFetchSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fetch.CriticalDelayMs = 50
	cfg.Fetch.SeparateRateLimitBudget = true

	got := cfg.FetchSettings()
	if got.CriticalDelay != 50*time.Millisecond {
		t.Errorf("CriticalDelay = %v, want 50ms", got.CriticalDelay)
	}
	if got.BackgroundDelay != 800*time.Millisecond {
		t.Errorf("BackgroundDelay = %v, want 800ms", got.BackgroundDelay)
	}
	if got.BaseBackoff != time.Second {
		t.Errorf("BaseBackoff = %v, want 1s", got.BaseBackoff)
	}
	if got.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", got.CacheTTL)
	}
	if got.MaxRetries != 3 || got.CacheMaxEntries != 100 {
		t.Errorf("MaxRetries, CacheMaxEntries = %d, %d, want 3, 100", got.MaxRetries, got.CacheMaxEntries)
	}
	if !got.SeparateRateLimitBudget {
		t.Error("SeparateRateLimitBudget = false, want true")
	}
}

func TestViewSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UI.DebounceMs = 0
	cfg.UI.HeroIntervalMs = 1000

	got := cfg.ViewSettings()
	if got.Debounce != 300*time.Millisecond {
		t.Errorf("Debounce = %v, want 300ms", got.Debounce)
	}
	if got.HeroInterval != time.Second {
		t.Errorf("HeroInterval = %v, want 1s", got.HeroInterval)
	}
	if got.CarouselPageSize != 6 {
		t.Errorf("CarouselPageSize = %d, want 6", got.CarouselPageSize)
	}
}

func TestIsLoggedIn(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.IsLoggedIn() {
		t.Error("IsLoggedIn() = true for default config")
	}
	cfg.Backend.Session = "abc"
	if cfg.IsLoggedIn() {
		t.Error("IsLoggedIn() = true without backend URL")
	}
	cfg.Backend.URL = "http://localhost:3000"
	if !cfg.IsLoggedIn() {
		t.Error("IsLoggedIn() = false, want true")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLauncherOpen(t *testing.T) {
	var gotName string
	var gotArgs []string
	l := NewLauncher("firefox", []string{"--new-tab"}, NullLogger())
	l.start = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	if err := l.Open("https://myanimelist.net/anime/1"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if gotName != "firefox" {
		t.Errorf("command = %q, want firefox", gotName)
	}
	want := []string{"--new-tab", "https://myanimelist.net/anime/1"}
	if strings.Join(gotArgs, " ") != strings.Join(want, " ") {
		t.Errorf("args = %v, want %v", gotArgs, want)
	}
}

func TestLauncherRejectsNonWebURL(t *testing.T) {
	l := NewLauncher("", nil, NullLogger())
	called := false
	l.start = func(string, ...string) error { called = true; return nil }

	for _, u := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "https://"} {
		if err := l.Open(u); err == nil {
			t.Errorf("Open(%q) error = nil, want error", u)
		}
	}
	if called {
		t.Error("start called for rejected URL")
	}
}

func newTestPrompter(input string, terminal bool) (*Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Prompter{
		in:     bufio.NewReader(strings.NewReader(input)),
		out:    out,
		isTerm: func(int) bool { return terminal },
		readPw: func(int) ([]byte, error) { return []byte("secret"), nil },
	}, out
}

func TestPrompterCredentials(t *testing.T) {
	p, out := newTestPrompter("  Spike \n", true)

	user, pw, err := p.Credentials()
	if err != nil {
		t.Fatalf("Credentials() error = %v", err)
	}
	if user != "Spike" || pw != "secret" {
		t.Errorf("Credentials() = %q, %q, want Spike, secret", user, pw)
	}
	if !strings.Contains(out.String(), "Password: ") {
		t.Errorf("output = %q, want password label", out.String())
	}
}

func TestPrompterPipedPassword(t *testing.T) {
	p, _ := newTestPrompter("faye\nvalentine", false)

	user, pw, err := p.Credentials()
	if err != nil {
		t.Fatalf("Credentials() error = %v", err)
	}
	if user != "faye" || pw != "valentine" {
		t.Errorf("Credentials() = %q, %q, want faye, valentine", user, pw)
	}
}

func TestPrompterEOF(t *testing.T) {
	p, _ := newTestPrompter("", false)
	_, err := p.Line("Username: ")
	if err == nil {
		t.Error("Line() error = nil, want error on empty input")
	}
}
