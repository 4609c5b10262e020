package jikan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/fetch"
)

// Fetcher schedules a GET on a priority lane
type Fetcher interface {
	QueuedFetch(ctx context.Context, url string, p domain.Priority, opts ...fetch.Option) (fetch.Payload, error)
}

// Client implements domain.CatalogRepository over the queued fetch layer
type Client struct {
	urls    URLs
	fetcher Fetcher
	logger  *slog.Logger
}

// NewClient creates a catalog client
func NewClient(baseURL string, fetcher Fetcher, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		urls:    NewURLs(baseURL),
		fetcher: fetcher,
		logger:  logger,
	}
}

// URLs exposes the request builders
func (c *Client) URLs() URLs { return c.urls }

func (c *Client) list(ctx context.Context, url string, p domain.Priority, opts ...fetch.Option) ([]domain.Anime, error) {
	payload, err := c.fetcher.QueuedFetch(ctx, url, p, opts...)
	if err != nil {
		return nil, err
	}
	dtos, err := fetch.DecodeList[Anime](payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return MapAnimeList(dtos), nil
}

func (c *Client) one(ctx context.Context, url string, p domain.Priority, opts ...fetch.Option) (*domain.Anime, error) {
	payload, err := c.fetcher.QueuedFetch(ctx, url, p, opts...)
	if err != nil {
		return nil, err
	}
	dto, err := fetch.DecodeOne[Anime](payload)
	if err != nil {
		return nil, err
	}
	a := MapAnime(*dto)
	return &a, nil
}

// Search performs a title search
func (c *Client) Search(ctx context.Context, query string, p domain.Priority) ([]domain.Anime, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	c.logger.Debug("catalog search", "query", query, "priority", p)
	return c.list(ctx, c.urls.Search(query), p)
}

// GenrePage returns one page of a genre
func (c *Client) GenrePage(ctx context.Context, genreID, page int, p domain.Priority) ([]domain.Anime, error) {
	return c.list(ctx, c.urls.GenrePage(genreID, page), p)
}

// Seasonal returns the current season
func (c *Client) Seasonal(ctx context.Context, p domain.Priority) ([]domain.Anime, error) {
	return c.list(ctx, c.urls.Seasonal(), p)
}

// Trending returns airing titles by rank
func (c *Client) Trending(ctx context.Context, p domain.Priority) ([]domain.Anime, error) {
	return c.list(ctx, c.urls.Trending(), p)
}

// TopRated returns the all-time top rail
func (c *Client) TopRated(ctx context.Context, p domain.Priority) ([]domain.Anime, error) {
	return c.list(ctx, c.urls.TopRated(), p)
}

// Featured returns the hero banner entries
func (c *Client) Featured(ctx context.Context, p domain.Priority) ([]domain.Anime, error) {
	return c.list(ctx, c.urls.Featured(), p)
}

// Schedule returns what airs on day
func (c *Client) Schedule(ctx context.Context, day domain.Weekday, p domain.Priority) ([]domain.Anime, error) {
	day, err := domain.ParseWeekday(string(day))
	if err != nil {
		return nil, err
	}
	return c.list(ctx, c.urls.Schedule(day), p)
}

// Random returns a random title; never cached
func (c *Client) Random(ctx context.Context, p domain.Priority) (*domain.Anime, error) {
	return c.one(ctx, c.urls.Random(), p, fetch.BypassCache())
}

// Anime returns one title by id
func (c *Client) Anime(ctx context.Context, id int, p domain.Priority) (*domain.Anime, error) {
	if id <= 0 {
		return nil, fmt.Errorf("anime %d: %w", id, domain.ErrNotFound)
	}
	return c.one(ctx, c.urls.Anime(id), p)
}
