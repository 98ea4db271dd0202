package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vytor/kanjiflash/internal/jobs"
	"github.com/vytor/kanjiflash/internal/logger"
	"github.com/vytor/kanjiflash/internal/services"
)

// Pinger reports whether the submission journal is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	StudyService      services.StudyService
	SubmissionService services.SubmissionService
	GradeQueue        jobs.GradeQueue
	DB                Pinger
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}
