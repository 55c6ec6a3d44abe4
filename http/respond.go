package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/strongo/log"

	"loan-engine/equation"
	"loan-engine/service"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON encodes into a buffer first so a failed encode never writes a header.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Errorf(r.Context(), "Error encoding response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := buf.WriteTo(w); err != nil {
		log.Warningf(r.Context(), "Error writing response: %v", err)
	}
}

// statusFor maps service and engine errors to HTTP status codes.
func statusFor(err error) int {
	var (
		domainErr *equation.DomainError
		convErr   *equation.ConvergenceError
	)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoViableTerm),
		errors.Is(err, service.ErrPayoffTooLong),
		errors.As(err, &domainErr),
		errors.As(err, &convErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Errorf(r.Context(), "%s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, "internal server error", status)
		return
	}
	log.Debugf(r.Context(), "%s %s: %d %v", r.Method, r.URL.Path, status, err)
	http.Error(w, err.Error(), status)
}
