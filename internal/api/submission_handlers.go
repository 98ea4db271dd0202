package api

import (
	"net/http"
	"strconv"

	"github.com/vytor/kanjiflash/internal/errors"
	"github.com/vytor/kanjiflash/internal/models"
)

func parseSubmissionFilter(r *http.Request) (models.SubmissionFilter, error) {
	q := r.URL.Query()
	filter := models.SubmissionFilter{
		SessionID: q.Get("session"),
		Status:    models.SubmissionStatus(q.Get("status")),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
	}
	for _, p := range ints {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return filter, errors.NewValidationError(p.name, "must be an integer")
			}
			*p.dst = n
		}
	}
	if v := q.Get("deck"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, errors.NewValidationError("deck", "must be an integer")
		}
		filter.DeckID = id
	}
	return filter, nil
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSubmissionFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	subs, err := s.SubmissionService.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"submissions": subs})
}

func (s *Server) handleSubmissionStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.SubmissionService.Stats(r.Context(), r.URL.Query().Get("session"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, counts)
}
