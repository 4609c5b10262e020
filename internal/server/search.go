package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/anicrunch/anicrunch/internal/domain"
)

type searchResponse struct {
	Data []json.RawMessage `json:"data"`
}

// handleSearch proxies a title search to the upstream through the server's
// own coordinator and cache, so many clients share one rate budget
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, searchResponse{Data: []json.RawMessage{}})
		return
	}

	p, err := s.upstream.QueuedFetch(r.Context(), s.urls.Search(q), domain.PriorityCritical)
	if errors.Is(err, domain.ErrCancelled) {
		return
	}
	if err != nil {
		s.logger.Warn("search proxy failed", "request_id", RequestID(r.Context()), "query", q, "error", err)
		writeMessage(w, http.StatusBadGateway, "Search failed")
		return
	}

	items := p.Items
	if items == nil {
		items = []json.RawMessage{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Data: items})
}
