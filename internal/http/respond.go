package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"haushalt/internal/core"
	"haushalt/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

// errInvalidDate rejects dates that do not parse as YYYY-MM-DD.
var errInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", log.FieldError, err)
		}
	}
}

// respondError maps domain errors to HTTP status codes. Unknown errors are
// logged and hidden behind a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrAccountNotFound),
		errors.Is(err, core.ErrCategoryNotFound),
		errors.Is(err, core.ErrTransactionNotFound),
		errors.Is(err, core.ErrBudgetNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.Is(err, core.ErrNegativeAmount):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})

	case errors.Is(err, errInvalidDate),
		errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrMissingOwner),
		errors.Is(err, core.ErrInvalidAccountType),
		errors.Is(err, core.ErrInvalidTransactionType):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.Is(err, core.ErrDuplicateBudget),
		errors.Is(err, core.ErrActiveAccountExists):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})

	default:
		slog.ErrorContext(r.Context(), "Request failed",
			log.FieldMethod, r.Method, log.FieldPath, r.URL.Path, log.FieldError, err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
