package server

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// SessionCookie is the name of the session cookie
const SessionCookie = "anicrunch.sid"

// Session is the server-side state behind a session cookie
type Session struct {
	UserID   int64  `msgpack:"uid"`
	Username string `msgpack:"username"`
}

// SessionStore keeps sessions by id
type SessionStore interface {
	// Get returns nil, nil when the session is missing or expired
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, id string, s Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// === Memory store ===

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemorySessions keeps sessions in process memory. Sessions are lost on restart.
type MemorySessions struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemorySessions creates an empty in-memory session store
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemorySessions) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, id)
		return nil, nil
	}
	s := e.session
	return &s, nil
}

func (m *MemorySessions) Put(_ context.Context, id string, s Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune()
	m.entries[id] = memoryEntry{session: s, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemorySessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

func (m *MemorySessions) Close() error { return nil }

// prune drops expired entries. Callers hold mu.
func (m *MemorySessions) prune() {
	now := m.now()
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
		}
	}
}

// === Redis store ===

// RedisSessions keeps msgpack-encoded sessions in Redis so several server
// instances can share them
type RedisSessions struct {
	rdb    goredis.UniversalClient
	prefix string
}

// NewRedisSessions connects to the Redis server at url
func NewRedisSessions(ctx context.Context, url string) (*RedisSessions, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return &RedisSessions{rdb: rdb, prefix: "anicrunch:sess:"}, nil
}

func (r *RedisSessions) Get(ctx context.Context, id string) (*Session, error) {
	b, err := r.rdb.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := msgpack.Unmarshal(b, &s); err != nil {
		// Drop entries we cannot read
		r.rdb.Del(ctx, r.prefix+id)
		return nil, nil
	}
	return &s, nil
}

func (r *RedisSessions) Put(ctx context.Context, id string, s Session, ttl time.Duration) error {
	b, err := msgpack.Marshal(&s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.prefix+id, b, ttl).Err()
}

func (r *RedisSessions) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, r.prefix+id).Err()
}

func (r *RedisSessions) Close() error {
	if err := r.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		return err
	}
	return nil
}

// === Cookies ===

// sessions issues and verifies HMAC-signed session cookies
type sessions struct {
	store  SessionStore
	secret []byte
	ttl    time.Duration
	secure bool
}

func newSessions(store SessionStore, secret string, ttl time.Duration, secure bool) (*sessions, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
	}
	return &sessions{store: store, secret: key, ttl: ttl, secure: secure}, nil
}

func (s *sessions) sign(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verify returns the session id carried by a signed cookie value
func (s *sessions) verify(value string) (string, bool) {
	id, _, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(s.sign(id)), []byte(value)) {
		return "", false
	}
	return id, true
}

// load returns the request's session and id, or nil when anonymous
func (s *sessions) load(r *http.Request) (*Session, string, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, "", nil
	}
	id, ok := s.verify(c.Value)
	if !ok {
		return nil, "", nil
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil || sess == nil {
		return nil, "", err
	}
	return sess, id, nil
}

// start replaces any current session with a fresh one for sess
func (s *sessions) start(w http.ResponseWriter, r *http.Request, sess Session) error {
	if _, old, err := s.load(r); err == nil && old != "" {
		_ = s.store.Delete(r.Context(), old)
	}

	id := uuid.NewString()
	if err := s.store.Put(r.Context(), id, sess, s.ttl); err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(s.sign(id), int(s.ttl/time.Second)))
	return nil
}

// destroy removes the session and clears the cookie
func (s *sessions) destroy(w http.ResponseWriter, r *http.Request) error {
	var err error
	if _, id, loadErr := s.load(r); loadErr == nil && id != "" {
		err = s.store.Delete(r.Context(), id)
	}
	http.SetCookie(w, s.cookie("", -1))
	return err
}

func (s *sessions) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	// Cross-site frontends need SameSite=None, which browsers only accept on
	// secure cookies
	if s.secure {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

type sessionKey struct{}

// withSession stores the loaded session on the request context
func withSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// sessionFrom returns the session stored by requireAuth
func sessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
