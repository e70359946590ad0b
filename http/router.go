package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lead-scorer/repository"
	"lead-scorer/service"
)

// Dependencies wires the router to the application services.
type Dependencies struct {
	Scoring  *service.LeadScoringService
	Insights *service.InsightService
	Leads    repository.ScoreRepository
	Limiter  *RateLimiter
	Logger   *slog.Logger
}

// NewRouter registers the API routes. Scoring endpoints share the rate
// limiter; health and model info do not.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	leads := NewLeadHandler(deps.Scoring, deps.Leads, logger)
	scoring := NewScoringHandler(deps.Scoring, logger)
	insights := NewInsightHandler(deps.Scoring, deps.Insights, logger)

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(logger))
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, logger, http.StatusOK, envelope{
			Success: true,
			Data:    map[string]string{"status": "ok", "model": deps.Scoring.State().String()},
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/model", scoring.ModelInfo)
		r.Get("/leads", leads.ListLeads)

		r.Group(func(r chi.Router) {
			if deps.Limiter != nil {
				r.Use(RateLimitMiddleware(deps.Limiter, logger))
			}
			r.Post("/leads", leads.CreateLead)
			r.Post("/leads/score", leads.ScoreLead)
			r.Get("/leads/scoring", scoring.ScoreBatch)
			r.Get("/insights/recommendations", insights.Recommendations)
		})
	})

	return r
}
