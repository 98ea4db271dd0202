package api

import (
	"net/http"

	"github.com/vytor/kanjiflash/internal/logger"
)

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady checks the journal database and reports submission queue depth.
// Returns 503 when the database is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	status := map[string]any{"database": "ok"}
	if s.GradeQueue != nil {
		status["pending_submissions"] = s.GradeQueue.Pending()
		status["queue_capacity"] = s.GradeQueue.Capacity()
	}

	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			status["database"] = err.Error()
			writeJSON(w, r, http.StatusServiceUnavailable, status)
			return
		}
	}
	writeJSON(w, r, http.StatusOK, status)
}
