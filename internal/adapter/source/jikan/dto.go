package jikan

// Anime is the catalog's anime resource, trimmed to the fields the client reads
type Anime struct {
	MalID    int     `json:"mal_id"`
	URL      string  `json:"url,omitempty"`
	Title    string  `json:"title"`
	TitleEN  string  `json:"title_english,omitempty"`
	Type     string  `json:"type,omitempty"`
	Episodes int     `json:"episodes,omitempty"`
	Score    float64 `json:"score,omitempty"`
	Year     int     `json:"year,omitempty"`
	Synopsis string  `json:"synopsis,omitempty"`
	Images   Images  `json:"images"`
	Genres   []Named `json:"genres,omitempty"`
	Aired    *Aired  `json:"aired,omitempty"`

	Broadcast struct {
		Day  string `json:"day,omitempty"`
		Time string `json:"time,omitempty"`
	} `json:"broadcast"`
}

// Images holds the per-format artwork URLs
type Images struct {
	JPG struct {
		ImageURL      string `json:"image_url,omitempty"`
		LargeImageURL string `json:"large_image_url,omitempty"`
	} `json:"jpg"`
}

// Named is a genre/studio/theme reference
type Named struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
}

// Aired carries the broadcast date range; only the start year is used as a
// fallback when `year` is null
type Aired struct {
	Prop struct {
		From struct {
			Year int `json:"year,omitempty"`
		} `json:"from"`
	} `json:"prop"`
}
