package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"lead-scorer/domain"
	"lead-scorer/service"
)

type ScoringHandler struct {
	service *service.LeadScoringService
	logger  *slog.Logger
}

func NewScoringHandler(svc *service.LeadScoringService, logger *slog.Logger) *ScoringHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoringHandler{service: svc, logger: logger}
}

type batchResponse struct {
	Leads     []domain.ScoredLead `json:"leads"`
	Count     int                 `json:"count"`
	ModelInfo service.ModelInfo   `json:"model_info"`
}

// ScoreBatch handles GET /api/leads/scoring?count=N.
func (h *ScoringHandler) ScoreBatch(w http.ResponseWriter, r *http.Request) {
	count, err := batchCount(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	leads, err := h.service.ScoreBatch(r.Context(), count)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, envelope{
		Success: true,
		Data: batchResponse{
			Leads:     leads,
			Count:     len(leads),
			ModelInfo: h.service.ModelInfo(),
		},
	})
}

// ModelInfo handles GET /api/model. It never triggers training.
func (h *ScoringHandler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, envelope{Success: true, Data: h.service.ModelInfo()})
}

func batchCount(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		return service.DefaultBatchSize, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: count %q is not a number", domain.ErrInvalidBatchSize, raw)
	}
	return n, nil
}
