package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/classdesk/classdesk-be/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// serviceError maps a service failure to a JSON error response. Validation
// and conflict details are user-correctable and passed through; everything
// else gets a generic message with the detail logged server-side only.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateUser):
		writeError(w, http.StatusConflict, "username or email already taken")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrUpstream), errors.Is(err, services.ErrDelivery):
		log.Error().Err(err).Msg("Upstream provider failure")
		writeError(w, http.StatusInternalServerError, "service temporarily unavailable")
	default:
		log.Error().Err(err).Msg("Unexpected error")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
