package domain

import (
	"fmt"
	"strings"
	"time"
)

// Priority selects the queue lane a catalog request runs on
type Priority int

const (
	// PriorityCritical is for above-the-fold work: hero banner, live search
	PriorityCritical Priority = iota
	// PriorityBackground is for row population and pagination
	PriorityBackground
)

func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityBackground:
		return "background"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Anime is a single catalog entry
type Anime struct {
	ID        int
	Title     string
	ImageURL  string
	URL       string // Canonical page on the catalog site
	Score     float64
	Year      int
	Type      string // TV, Movie, OVA...
	Episodes  int
	Synopsis  string
	Genres    []string
	Broadcast string // Local broadcast time, e.g. "23:00"
}

// ScoreLabel returns the score for display, or "N/A" when unrated
func (a Anime) ScoreLabel() string {
	if a.Score <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", a.Score)
}

// Subtitle returns the compact "year • type • episodes" line shown on cards
func (a Anime) Subtitle() string {
	var parts []string
	if a.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", a.Year))
	}
	if a.Type != "" {
		parts = append(parts, a.Type)
	}
	if a.Episodes > 0 {
		parts = append(parts, fmt.Sprintf("%d eps", a.Episodes))
	}
	return strings.Join(parts, " • ")
}

// Excerpt returns the synopsis cut to at most n runes, with an ellipsis when truncated
func (a Anime) Excerpt(n int) string {
	if a.Synopsis == "" {
		return "No description available."
	}
	runes := []rune(a.Synopsis)
	if len(runes) <= n {
		return a.Synopsis
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// Genre is a filterable catalog genre
type Genre struct {
	ID   int
	Name string
}

// Genres is the fixed chip row shown above the results grid
var Genres = []Genre{
	{ID: 1, Name: "Action"},
	{ID: 2, Name: "Adventure"},
	{ID: 4, Name: "Comedy"},
	{ID: 8, Name: "Drama"},
	{ID: 10, Name: "Fantasy"},
	{ID: 14, Name: "Horror"},
	{ID: 22, Name: "Romance"},
	{ID: 24, Name: "Sci-Fi"},
	{ID: 30, Name: "Sports"},
	{ID: 36, Name: "Slice of Life"},
}

// GenreByID looks up a genre from the chip row
func GenreByID(id int) (Genre, bool) {
	for _, g := range Genres {
		if g.ID == id {
			return g, true
		}
	}
	return Genre{}, false
}

// Weekday is a broadcast schedule day as the catalog names it
type Weekday string

// Weekdays in schedule order
var Weekdays = []Weekday{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ParseWeekday validates a schedule day, case-insensitively
func ParseWeekday(s string) (Weekday, error) {
	day := Weekday(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range Weekdays {
		if d == day {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// WeekdayOf returns the schedule day for t
func WeekdayOf(t time.Time) Weekday {
	return Weekday(strings.ToLower(t.Weekday().String()))
}

// Shift returns the day n positions away, wrapping around the week
func (d Weekday) Shift(n int) Weekday {
	idx := 0
	for i, w := range Weekdays {
		if w == d {
			idx = i
			break
		}
	}
	idx = ((idx+n)%len(Weekdays) + len(Weekdays)) % len(Weekdays)
	return Weekdays[idx]
}

// Title returns the day capitalized for display
func (d Weekday) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// User is a backend account
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeUsername applies the backend's username rule: trimmed, lowercased
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
