package http

import (
	"net/http"

	"github.com/strongo/log"

	"loan-engine/domain"
	"loan-engine/service"
)

type LoanHandler struct {
	service *service.LoanService
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanInput
	if err := decodeJSON(w, r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.CalculateLoan(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, result)
}

func (h *LoanHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var req domain.SolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Debugf(r.Context(), "Error decoding request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Solve(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, result)
}

func (h *LoanHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req domain.ScheduleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Debugf(r.Context(), "Error decoding request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Schedule(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, result)
}
