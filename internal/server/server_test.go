package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/anicrunch/anicrunch/internal/adapter"
	"github.com/anicrunch/anicrunch/internal/store"
)

func testConfig() *Config {
	return &Config{
		Port:           "0",
		SessionSecret:  "test-secret",
		SessionTTL:     time.Hour,
		SearchCache:    "ristretto",
		SearchCacheTTL: time.Minute,
		AuthLimit:      50,
		AuthWindow:     15 * time.Minute,
		SearchLimit:    120,
		SearchWin:      5 * time.Minute,
	}
}

type testEnv struct {
	srv      *Server
	ts       *httptest.Server
	upstream *httptest.Server
	hits     *atomic.Int32
}

func newTestEnv(t *testing.T, cfg *Config) *testEnv {
	t.Helper()

	hits := &atomic.Int32{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		q := r.URL.Query().Get("q")
		if q == "nothing" {
			fmt.Fprint(w, `{"data":[]}`)
			return
		}
		fmt.Fprintf(w, `{"data":[{"mal_id":1,"title":"%s"}]}`, q)
	}))
	t.Cleanup(upstream.Close)
	cfg.UpstreamURL = upstream.URL

	accounts, err := store.NewBoltStore("")
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	sessions := NewMemorySessions()

	srv, err := New(cfg, accounts, sessions, adapter.NullLogger(), WithHashCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
		accounts.Close()
	})

	return &testEnv{srv: srv, ts: ts, upstream: upstream, hits: hits}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func do(t *testing.T, c *http.Client, method, url string, body any) (int, map[string]any, []byte) {
	t.Helper()
	var r *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var raw bytes.Buffer
	raw.ReadFrom(resp.Body)
	var obj map[string]any
	_ = json.Unmarshal(raw.Bytes(), &obj)
	return resp.StatusCode, obj, raw.Bytes()
}

func TestSignupLoginLogout(t *testing.T) {
	env := newTestEnv(t, testConfig())
	c := newClient(t)
	base := env.ts.URL

	status, body, _ := do(t, c, "GET", base+"/api/me", nil)
	if status != 200 || body["user"] != nil {
		t.Fatalf("anonymous /api/me = %d %v, want 200 user:null", status, body)
	}

	status, body, _ = do(t, c, "POST", base+"/api/signup", credentials{"  Spike ", "bebop"})
	if status != 200 || body["user"] != "spike" {
		t.Fatalf("signup = %d %v, want 200 user:spike", status, body)
	}

	status, body, _ = do(t, c, "GET", base+"/api/me", nil)
	user, _ := body["user"].(map[string]any)
	if status != 200 || user == nil || user["username"] != "spike" {
		t.Fatalf("/api/me after signup = %d %v, want spike", status, body)
	}

	status, body, _ = do(t, c, "POST", base+"/api/logout", nil)
	if status != 200 || body["success"] != true {
		t.Fatalf("logout = %d %v, want success", status, body)
	}
	status, body, _ = do(t, c, "GET", base+"/api/me", nil)
	if status != 200 || body["user"] != nil {
		t.Fatalf("/api/me after logout = %d %v, want user:null", status, body)
	}

	status, body, _ = do(t, c, "POST", base+"/api/login", credentials{"SPIKE", "bebop"})
	if status != 200 || body["user"] != "spike" {
		t.Fatalf("login = %d %v, want 200 user:spike", status, body)
	}
}

func TestAuthErrors(t *testing.T) {
	env := newTestEnv(t, testConfig())
	c := newClient(t)
	base := env.ts.URL

	do(t, c, "POST", base+"/api/signup", credentials{"faye", "pw"})

	tests := []struct {
		name    string
		path    string
		body    any
		status  int
		message string
	}{
		{"signup missing password", "/api/signup", credentials{"jet", ""}, 400, "Missing fields"},
		{"signup blank username", "/api/signup", credentials{"   ", "pw"}, 400, "Missing fields"},
		{"signup duplicate", "/api/signup", credentials{"FAYE", "other"}, 409, "User already exists"},
		{"login wrong password", "/api/login", credentials{"faye", "nope"}, 401, "Invalid credentials"},
		{"login unknown user", "/api/login", credentials{"ghost", "pw"}, 401, "Invalid credentials"},
		{"login bad body", "/api/login", "not an object", 400, "Missing fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, _ := do(t, newClient(t), "POST", base+tt.path, tt.body)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if body["message"] != tt.message {
				t.Errorf("message = %v, want %q", body["message"], tt.message)
			}
		})
	}
}

func TestWatchlist(t *testing.T) {
	env := newTestEnv(t, testConfig())
	c := newClient(t)
	base := env.ts.URL

	status, body, _ := do(t, c, "GET", base+"/api/watchlist", nil)
	if status != 401 || body["message"] != "Login required" {
		t.Fatalf("anonymous watchlist = %d %v, want 401 Login required", status, body)
	}

	do(t, c, "POST", base+"/api/signup", credentials{"ed", "pw"})

	for _, id := range []int{21, 5, 21} {
		status, body, _ = do(t, c, "POST", base+"/api/watchlist/add", watchlistRequest{id})
		if status != 200 || body["success"] != true {
			t.Fatalf("add %d = %d %v", id, status, body)
		}
	}
	do(t, c, "POST", base+"/api/watchlist/add", watchlistRequest{9})
	do(t, c, "POST", base+"/api/watchlist/remove", watchlistRequest{9})

	status, _, raw := do(t, c, "GET", base+"/api/watchlist", nil)
	if status != 200 || strings.TrimSpace(string(raw)) != "[5,21]" {
		t.Errorf("watchlist = %d %s, want 200 [5,21]", status, raw)
	}

	status, _, _ = do(t, c, "POST", base+"/api/watchlist/add", map[string]any{"animeId": "x"})
	if status != 400 {
		t.Errorf("bad animeId status = %d, want 400", status)
	}

	// Another user sees an empty list
	other := newClient(t)
	do(t, other, "POST", base+"/api/signup", credentials{"ein", "pw"})
	status, _, raw = do(t, other, "GET", base+"/api/watchlist", nil)
	if status != 200 || strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("other watchlist = %d %s, want 200 []", status, raw)
	}
}

func TestForgedCookieRejected(t *testing.T) {
	env := newTestEnv(t, testConfig())
	base := env.ts.URL

	c := newClient(t)
	do(t, c, "POST", base+"/api/signup", credentials{"vicious", "pw"})

	u, _ := url.Parse(base)
	var value string
	for _, ck := range c.Jar.Cookies(u) {
		if ck.Name == SessionCookie {
			value = ck.Value
		}
	}
	if value == "" {
		t.Fatal("no session cookie after signup")
	}

	id, _, _ := strings.Cut(value, ".")
	forged := []string{
		id,
		id + ".AAAA",
		"other-id." + strings.SplitN(value, ".", 2)[1],
	}
	for _, v := range forged {
		req, _ := http.NewRequest("GET", base+"/api/watchlist", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: v})
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("cookie %q status = %d, want 401", v, resp.StatusCode)
		}
	}
}

func TestSearchProxy(t *testing.T) {
	env := newTestEnv(t, testConfig())
	c := newClient(t)
	base := env.ts.URL

	status, _, raw := do(t, c, "GET", base+"/api/search?q=", nil)
	if status != 200 || strings.TrimSpace(string(raw)) != `{"data":[]}` {
		t.Fatalf("empty query = %d %s, want {\"data\":[]}", status, raw)
	}
	if env.hits.Load() != 0 {
		t.Errorf("upstream hits = %d, want 0", env.hits.Load())
	}

	status, body, _ := do(t, c, "GET", base+"/api/search?q=naruto", nil)
	data, _ := body["data"].([]any)
	if status != 200 || len(data) != 1 {
		t.Fatalf("search = %d %v, want one item", status, body)
	}
	first, _ := data[0].(map[string]any)
	if first["title"] != "naruto" {
		t.Errorf("title = %v, want naruto", first["title"])
	}

	// ristretto applies sets asynchronously
	env.srv.cache.(*ristrettoCache).c.Wait()

	do(t, c, "GET", base+"/api/search?q=naruto", nil)
	if env.hits.Load() != 1 {
		t.Errorf("upstream hits = %d, want 1 (second search cached)", env.hits.Load())
	}

	status, body, _ = do(t, c, "GET", base+"/api/search?q=nothing", nil)
	data, _ = body["data"].([]any)
	if status != 200 || data == nil || len(data) != 0 {
		t.Errorf("empty search = %d %v, want data:[]", status, body)
	}
}

func TestSearchProxyBigcache(t *testing.T) {
	cfg := testConfig()
	cfg.SearchCache = "bigcache"
	env := newTestEnv(t, cfg)
	c := newClient(t)

	for i := 0; i < 2; i++ {
		status, body, _ := do(t, c, "GET", env.ts.URL+"/api/search?q=bebop", nil)
		data, _ := body["data"].([]any)
		if status != 200 || len(data) != 1 {
			t.Fatalf("search %d = %d %v, want one item", i, status, body)
		}
	}
	if env.hits.Load() != 1 {
		t.Errorf("upstream hits = %d, want 1", env.hits.Load())
	}
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.AuthLimit = 3
	env := newTestEnv(t, cfg)
	c := newClient(t)

	var last int
	var body map[string]any
	for i := 0; i < 4; i++ {
		last, body, _ = do(t, c, "POST", env.ts.URL+"/api/login", credentials{"nobody", "pw"})
	}
	if last != http.StatusTooManyRequests || body["message"] != "Too many requests" {
		t.Errorf("fourth login = %d %v, want 429 Too many requests", last, body)
	}

	// Other routes are not limited by the auth budget
	status, _, _ := do(t, c, "GET", env.ts.URL+"/api/me", nil)
	if status != 200 {
		t.Errorf("/api/me status = %d, want 200", status)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	env := newTestEnv(t, testConfig())

	req, _ := http.NewRequest("GET", env.ts.URL+"/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestCORS(t *testing.T) {
	cfg := testConfig()
	cfg.CORSOrigins = []string{"https://*.vercel.app"}
	env := newTestEnv(t, cfg)

	tests := []struct {
		origin string
		want   string
	}{
		{"https://anicrunch.vercel.app", "https://anicrunch.vercel.app"},
		{"https://evil.example.com", ""},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest("GET", env.ts.URL+"/api/me", nil)
		req.Header.Set("Origin", tt.origin)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
		if tt.want != "" && resp.Header.Get("Access-Control-Allow-Credentials") != "true" {
			t.Errorf("origin %s: credentials not allowed", tt.origin)
		}
	}
}
