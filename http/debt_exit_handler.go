package http

import (
	"net/http"

	"github.com/strongo/log"

	"loan-engine/domain"
	"loan-engine/service"
)

type DebtExitHandler struct {
	service *service.DebtExitService
}

func NewDebtExitHandler(service *service.DebtExitService) *DebtExitHandler {
	return &DebtExitHandler{service: service}
}

func (h *DebtExitHandler) CalculateDebtExitPlan(w http.ResponseWriter, r *http.Request) {
	var input domain.DebtExitInput
	if err := decodeJSON(w, r, &input); err != nil {
		log.Debugf(r.Context(), "Error decoding request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.CalculateDebtExitPlan(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, result)
}
