package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/openfx/backoffice/internal/adapter/http/dto"
	"github.com/openfx/backoffice/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var (
		validationErr *domain.ValidationError
		stockErr      *domain.InsufficientStockError
		windowErr     *domain.DateWindowError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &stockErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &windowErr):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMovementTypeNotFound),
		errors.Is(err, domain.ErrCurrencyNotFound),
		errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyReversed):
		return http.StatusConflict
	default:
		// ErrBaseCurrencyNotSet and ErrInconsistentPosting are catalog
		// misconfiguration, not caller mistakes.
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
