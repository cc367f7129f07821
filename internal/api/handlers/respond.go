package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/attendance-platform/internal/domain"
	"github.com/dom/attendance-platform/internal/identity"
	"github.com/dom/attendance-platform/internal/service"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps service and domain errors to HTTP statuses. Anything
// unrecognised is logged and reported as a 500.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, identity.ErrNoPrincipal):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, identity.ErrInvalidPrincipal):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrValidation), errors.Is(err, domain.ErrInvalidEntityID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, service.ErrInvalidRefreshToken), errors.Is(err, service.ErrRefreshTokenExpired):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrAccountDisabled):
		http.Error(w, "Account disabled", http.StatusForbidden)
	case errors.Is(err, domain.ErrOrganizationNotFound), errors.Is(err, domain.ErrAdminNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrOrganizationNameExists), errors.Is(err, domain.ErrUsernameExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrEntityIDExhausted):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Error("request failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
