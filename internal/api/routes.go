package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/decks/{id}/study", func(r chi.Router) {
		r.Get("/", s.handleOpenStudy)
		r.Delete("/", s.handleExitStudy)
		r.Post("/flip", s.handleFlipCard)
		r.Post("/grade", s.handleGradeCard)
		r.Post("/restart", s.handleRestartStudy)
		r.Get("/summary", s.handleStudySummary)
	})

	r.Get("/submissions", s.handleSubmissions)
	r.Get("/submissions/stats", s.handleSubmissionStats)
	return r
}
