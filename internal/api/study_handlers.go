package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/kanjiflash/internal/errors"
	"github.com/vytor/kanjiflash/internal/logger"
)

func deckIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("invalid deck id")
	}
	return id, nil
}

// handleOpenStudy starts the deck's session on first use and otherwise
// returns its current state.
func (s *Server) handleOpenStudy(w http.ResponseWriter, r *http.Request) {
	deckID, err := deckIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	snap, err := s.StudyService.Open(r.Context(), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleFlipCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := deckIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	snap, err := s.StudyService.Flip(r.Context(), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

type gradeRequest struct {
	Grade string `json:"grade"`
}

func (s *Server) handleGradeCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	deckID, err := deckIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req gradeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		log.Debug("invalid grade body: %v", err)
		handleError(w, r, errors.NewBadRequestError("request body must be {\"grade\": \"bad|hard|good|easy\"}"))
		return
	}

	res, err := s.StudyService.Grade(r.Context(), deckID, req.Grade)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleRestartStudy(w http.ResponseWriter, r *http.Request) {
	deckID, err := deckIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	snap, err := s.StudyService.Restart(r.Context(), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleStudySummary(w http.ResponseWriter, r *http.Request) {
	deckID, err := deckIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	sum, err := s.StudyService.Summary(r.Context(), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (s *Server) handleExitStudy(w http.ResponseWriter, r *http.Request) {
	deckID, err := deckIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.StudyService.Exit(r.Context(), deckID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
