package jikan

import "github.com/anicrunch/anicrunch/internal/domain"

// MapAnime converts a catalog resource to a domain anime
func MapAnime(a Anime) domain.Anime {
	image := a.Images.JPG.LargeImageURL
	if image == "" {
		image = a.Images.JPG.ImageURL
	}

	year := a.Year
	if year == 0 && a.Aired != nil {
		year = a.Aired.Prop.From.Year
	}

	genres := make([]string, 0, len(a.Genres))
	for _, g := range a.Genres {
		genres = append(genres, g.Name)
	}

	return domain.Anime{
		ID:        a.MalID,
		Title:     a.Title,
		ImageURL:  image,
		URL:       a.URL,
		Score:     a.Score,
		Year:      year,
		Type:      a.Type,
		Episodes:  a.Episodes,
		Synopsis:  a.Synopsis,
		Genres:    genres,
		Broadcast: a.Broadcast.Time,
	}
}

// MapAnimeList converts a list, dropping entries without an id
func MapAnimeList(list []Anime) []domain.Anime {
	out := make([]domain.Anime, 0, len(list))
	for _, a := range list {
		if a.MalID == 0 {
			continue
		}
		out = append(out, MapAnime(a))
	}
	return out
}
