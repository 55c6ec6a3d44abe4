package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"loan-engine/domain"
)

func TestRecommendTermHandler_OK(t *testing.T) {
	router := newTestRouter(t, 100)

	w := post(t, router, "/loan/recommend-term", `{
		"amount": 10000,
		"interest_rate": 12,
		"min_term_months": 12,
		"max_term_months": 36,
		"max_monthly_payment": 1000,
		"preference": "minimize_payment"
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result domain.TermRecommendationResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.RecommendedTerm != 36 {
		t.Errorf("expected 36 months, got %d", result.RecommendedTerm)
	}
}

func TestRecommendTermHandler_UnsupportedMediaType(t *testing.T) {
	router := newTestRouter(t, 100)

	req := httptest.NewRequest(http.MethodPost, "/loan/recommend-term", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", w.Code)
	}
}

func TestRecommendTermHandler_NoViableTerm(t *testing.T) {
	router := newTestRouter(t, 100)

	w := post(t, router, "/loan/recommend-term", `{
		"amount": 10000,
		"interest_rate": 12,
		"min_term_months": 12,
		"max_term_months": 24,
		"max_monthly_payment": 10,
		"preference": "balanced"
	}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}
