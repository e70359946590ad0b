package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"lead-scorer/domain"
	"lead-scorer/repository"
	"lead-scorer/service"
)

const defaultListLimit = 50

type LeadHandler struct {
	service *service.LeadScoringService
	repo    repository.ScoreRepository
	logger  *slog.Logger
	now     func() time.Time
}

func NewLeadHandler(svc *service.LeadScoringService, repo repository.ScoreRepository, logger *slog.Logger) *LeadHandler {
	if repo == nil {
		repo = repository.NewScoreRepositoryMemory()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadHandler{service: svc, repo: repo, logger: logger, now: time.Now}
}

type scoreResponse struct {
	ProbabilityScore float64        `json:"probability_score"`
	Urgency          domain.Urgency `json:"urgency"`
}

// ScoreLead handles POST /api/leads/score.
func (h *LeadHandler) ScoreLead(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	lead, err := req.toRawLead()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	score, err := h.service.Score(r.Context(), lead)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, envelope{
		Success: true,
		Data:    scoreResponse{ProbabilityScore: score, Urgency: domain.UrgencyFor(score)},
	})
}

// CreateLead handles POST /api/leads. The lead is scored before it is stored.
func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	lead, err := req.toLead(h.now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	lead.ID = uuid.NewString()

	scored, err := h.service.ScoreLead(r.Context(), lead)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	// Persistir no es crítico
	if err := h.repo.Save(scored.Lead); err != nil {
		h.logger.WarnContext(r.Context(), "failed to store scored lead", "lead_id", lead.ID, "error", err)
	}

	writeJSON(w, h.logger, http.StatusCreated, envelope{
		Success: true,
		Data:    scored,
		Message: "lead created successfully",
	})
}

// ListLeads handles GET /api/leads?limit=N.
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, h.logger, domain.ErrInvalidInput)
			return
		}
		limit = n
	}

	leads, err := h.repo.List(limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, envelope{Success: true, Data: leads})
}
