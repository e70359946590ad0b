package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lead-scorer/repository"
	"lead-scorer/service"
)

func newTestRouter(t *testing.T, limiter *RateLimiter) http.Handler {
	t.Helper()
	return NewRouter(Dependencies{
		Scoring:  testScoringService(t),
		Insights: service.NewInsightService("", "", testLogger()),
		Leads:    repository.NewScoreRepositoryMemory(),
		Limiter:  limiter,
		Logger:   testLogger(),
	})
}

func TestRouter_Healthz(t *testing.T) {

	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(headerRequestID) == "" {
		t.Errorf("expected a request id header")
	}
}

func TestRouter_ScoreBatch(t *testing.T) {

	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/scoring?count=15", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got batchResponse
	decodeEnvelope(t, w.Body, &got)
	if got.Count != 15 || len(got.Leads) != 15 {
		t.Fatalf("expected 15 leads, got %d", got.Count)
	}
	if got.ModelInfo.State != "trained" {
		t.Errorf("expected trained model info, got %q", got.ModelInfo.State)
	}
	for i := 1; i < len(got.Leads); i++ {
		if *got.Leads[i].ProbabilityScore > *got.Leads[i-1].ProbabilityScore {
			t.Fatalf("leads not sorted at %d", i)
		}
	}
}

func TestRouter_ScoreBatchInvalidCount(t *testing.T) {

	router := newTestRouter(t, nil)

	for _, q := range []string{"0", "201", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/leads/scoring?count="+q, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("count=%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestRouter_Recommendations(t *testing.T) {

	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/insights/recommendations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got recommendationsResponse
	decodeEnvelope(t, w.Body, &got)
	if len(got.Recommendations) == 0 {
		t.Fatalf("expected at least one recommendation")
	}
	if got.LLMEnabled {
		t.Errorf("llm should be disabled without an api key")
	}
	if got.LeadsAnalyzed != service.DefaultBatchSize {
		t.Errorf("expected %d leads analyzed, got %d", service.DefaultBatchSize, got.LeadsAnalyzed)
	}
}

func TestRouter_RateLimited(t *testing.T) {

	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	router := newTestRouter(t, limiter)

	body := `{"credit_score": 700, "income": 90000, "loan_amount": 300000, "debt_to_income": 0.3, "loan_type": "va"}`

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/leads/score", bytes.NewBufferString(body))
		last = httptest.NewRecorder()
		router.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Errorf("expected Retry-After header")
	}

	// model info is not rate limited
	req := httptest.NewRequest(http.MethodGet, "/api/model", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for /api/model, got %d", w.Code)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {

	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/score", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
