package http

import (
	"log/slog"
	"net/http"

	"lead-scorer/domain"
	"lead-scorer/service"
)

type InsightHandler struct {
	scoring  *service.LeadScoringService
	insights *service.InsightService
	logger   *slog.Logger
}

func NewInsightHandler(scoring *service.LeadScoringService, insights *service.InsightService, logger *slog.Logger) *InsightHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightHandler{scoring: scoring, insights: insights, logger: logger}
}

type recommendationsResponse struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
	LeadsAnalyzed   int                     `json:"leads_analyzed"`
	LLMEnabled      bool                    `json:"llm_enabled"`
}

// Recommendations handles GET /api/insights/recommendations?count=N. The
// recommendations are built from a freshly scored batch of demo leads.
func (h *InsightHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	count, err := batchCount(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	leads, err := h.scoring.ScoreBatch(r.Context(), count)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, envelope{
		Success: true,
		Data: recommendationsResponse{
			Recommendations: h.insights.Recommend(r.Context(), leads),
			LeadsAnalyzed:   len(leads),
			LLMEnabled:      h.insights.Enabled(),
		},
	})
}
