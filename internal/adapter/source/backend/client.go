package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/anicrunch/anicrunch/internal/adapter/source/jikan"
	"github.com/anicrunch/anicrunch/internal/domain"
)

// SessionCookie is the backend's session cookie name
const SessionCookie = "anicrunch.sid"

// APIError is a non-2xx backend response carrying a {"message": ...} body
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend %d", e.Status)
}

// Is maps status codes onto domain errors
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrAuthRequired:
		return e.Status == http.StatusUnauthorized
	case domain.ErrUserExists:
		return e.Status == http.StatusConflict
	case domain.ErrTransientUpstream:
		return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
	}
	return false
}

// Client talks to the anicrunch backend with a cookie-jar session.
// It implements domain.AccountRepository, domain.WatchlistRepository and
// domain.SearchRepository.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client and seeds its jar with a saved session cookie
func NewClient(baseURL, session string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if session != "" {
		jar.SetCookies(u, []*http.Cookie{{Name: SessionCookie, Value: session, Path: "/"}})
	}

	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
		logger: logger,
	}, nil
}

// SessionToken returns the current session cookie value
func (c *Client) SessionToken() string {
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		if ck.Name == SessionCookie {
			return ck.Value
		}
	}
	return ""
}

// doRequest sends a JSON request and decodes a JSON response into out
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL.String() + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("backend request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
		}
		c.logger.Error("backend request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		c.logger.Debug("backend error", "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	User string `json:"user"`
}

// Me returns the current user, or nil for an anonymous session
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var resp struct {
		User *struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, nil
	}
	return &domain.User{ID: resp.User.ID, Username: resp.User.Username}, nil
}

// Login authenticates and stores the session cookie in the jar
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp userResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/login", nil, credentials{username, password}, &resp)
	if errors.Is(err, domain.ErrAuthRequired) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	return resp.User, nil
}

// Signup creates an account and logs it in
func (c *Client) Signup(ctx context.Context, username, password string) (string, error) {
	var resp userResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/signup", nil, credentials{username, password}, &resp); err != nil {
		return "", err
	}
	return resp.User, nil
}

// Logout destroys the server session
func (c *Client) Logout(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodPost, "/api/logout", nil, nil, nil)
}

// Search queries the backend's cached search proxy
func (c *Client) Search(ctx context.Context, query string) ([]domain.Anime, error) {
	var resp struct {
		Data []jikan.Anime `json:"data"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/search", url.Values{"q": {query}}, nil, &resp); err != nil {
		return nil, err
	}
	return jikan.MapAnimeList(resp.Data), nil
}

// Watchlist returns the logged-in user's anime ids
func (c *Client) Watchlist(ctx context.Context) ([]int, error) {
	var ids []int
	if err := c.doRequest(ctx, http.MethodGet, "/api/watchlist", nil, nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

type watchlistRequest struct {
	AnimeID int `json:"animeId"`
}

// AddToWatchlist adds an id; adding twice is harmless
func (c *Client) AddToWatchlist(ctx context.Context, animeID int) error {
	return c.doRequest(ctx, http.MethodPost, "/api/watchlist/add", nil, watchlistRequest{animeID}, nil)
}

// RemoveFromWatchlist removes an id
func (c *Client) RemoveFromWatchlist(ctx context.Context, animeID int) error {
	return c.doRequest(ctx, http.MethodPost, "/api/watchlist/remove", nil, watchlistRequest{animeID}, nil)
}
