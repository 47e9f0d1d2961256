package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aleixpv/fortuna/internal/domain"
	"github.com/aleixpv/fortuna/pkg/validator"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the error taxonomy onto HTTP statuses: validation
// and business-rule failures become 4xx with the raw reason, anything else is
// a store error and surfaces as 500.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	var ve *validator.Error
	switch {
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrDuplicateIdentity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredential):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
	}
}
