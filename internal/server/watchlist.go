package server

import (
	"net/http"
)

type watchlistRequest struct {
	AnimeID int `json:"animeId"`
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	ids, err := s.store.Watchlist(r.Context(), sess.UserID)
	if err != nil {
		s.serverError(w, r, "failed to load watchlist", err)
		return
	}
	if ids == nil {
		ids = []int{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := readAnimeID(w, r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid animeId")
		return
	}
	sess := sessionFrom(r.Context())
	if err := s.store.AddToWatchlist(r.Context(), sess.UserID, id); err != nil {
		s.serverError(w, r, "failed to add to watchlist", err)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := readAnimeID(w, r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid animeId")
		return
	}
	sess := sessionFrom(r.Context())
	if err := s.store.RemoveFromWatchlist(r.Context(), sess.UserID, id); err != nil {
		s.serverError(w, r, "failed to remove from watchlist", err)
		return
	}
	writeSuccess(w)
}

func readAnimeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req watchlistRequest
	if err := decodeJSON(w, r, &req); err != nil || req.AnimeID <= 0 {
		return 0, false
	}
	return req.AnimeID, true
}
