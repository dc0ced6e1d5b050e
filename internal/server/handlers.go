package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tessro/auralyn/internal/core"
)

// TotalCountHeader carries the catalog's total match count.
const TotalCountHeader = "X-Total-Count"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Backend is running"))
}

// handleSearch answers 200 with a JSON array in every case. Upstream
// failures are logged and become [].
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeSongs(w, nil)
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	result, err := s.searcher.SearchSongs(r.Context(), q, page)
	if err != nil {
		s.log.Warn("search failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("query", q),
			zap.Int("page", page),
			zap.Error(err))
		writeSongs(w, nil)
		return
	}

	w.Header().Set(TotalCountHeader, strconv.Itoa(result.Total))
	writeSongs(w, result.Songs)
}

func writeSongs(w http.ResponseWriter, songs []core.Song) {
	if songs == nil {
		songs = []core.Song{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(songs)
}
