package handlers

import (
	"net/http"

	"github.com/dom/attendance-platform/internal/identity"
	"github.com/dom/attendance-platform/internal/service"
	"go.uber.org/zap"
)

type SuperAdminAuthHandler struct {
	superAuth *service.SuperAdminAuthService
	log       *zap.Logger
}

func NewSuperAdminAuthHandler(superAuth *service.SuperAdminAuthService, log *zap.Logger) *SuperAdminAuthHandler {
	return &SuperAdminAuthHandler{superAuth: superAuth, log: log}
}

func (h *SuperAdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.superAuth.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(result))
}

func (h *SuperAdminAuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	result, err := h.superAuth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(result))
}

func (h *SuperAdminAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.superAuth.Logout(r.Context(), req.RefreshToken); err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// LogoutAll revokes every refresh token of the calling super admin.
func (h *SuperAdminAuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	principal := identity.FromContext(r.Context())
	if principal == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.superAuth.LogoutAll(r.Context(), principal.UserID); err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
