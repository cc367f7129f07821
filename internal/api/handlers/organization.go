package handlers

import (
	"net/http"
	"strconv"

	"github.com/dom/attendance-platform/internal/domain"
	"github.com/dom/attendance-platform/internal/identity"
	"github.com/dom/attendance-platform/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrganizationRequest struct {
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ContactPerson string   `json:"contactPerson"`
	Email         string   `json:"email"`
}

func (req OrganizationRequest) input() service.OrganizationInput {
	return service.OrganizationInput{
		Name:          req.Name,
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
	}
}

type EntityAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type OrganizationHandler struct {
	orgService *service.OrganizationService
	log        *zap.Logger
}

func NewOrganizationHandler(orgService *service.OrganizationService, log *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService, log: log}
}

func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := domain.OrganizationQuery{
		NameContains: q.Get("search"),
		ActiveOnly:   q.Get("activeOnly") == "true",
	}

	var err error
	if v := q.Get("page"); v != "" {
		if query.Page, err = strconv.Atoi(v); err != nil {
			http.Error(w, "Invalid page", http.StatusBadRequest)
			return
		}
	}
	if v := q.Get("size"); v != "" {
		if query.Size, err = strconv.Atoi(v); err != nil {
			http.Error(w, "Invalid size", http.StatusBadRequest)
			return
		}
	}

	page, err := h.orgService.List(r.Context(), query)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	org, err := h.orgService.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, org)
}

func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}

	org, err := h.orgService.Get(r.Context(), entityID, false)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, org)
}

func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}

	var req OrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	org, err := h.orgService.Update(r.Context(), entityID, req.input())
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, org)
}

func (h *OrganizationHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *OrganizationHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *OrganizationHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}

	org, err := h.orgService.SetActive(r.Context(), entityID, active)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, org)
}

func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}

	if err := h.orgService.Delete(r.Context(), entityID); err != nil {
		writeError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrganizationHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}

	var req EntityAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	admin, err := h.orgService.CreateEntityAdmin(r.Context(), entityID, service.EntityAdminInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, admin)
}

func (h *OrganizationHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}

	admins, err := h.orgService.ListEntityAdmins(r.Context(), entityID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if admins == nil {
		admins = []*domain.EntityAdmin{}
	}

	writeJSON(w, http.StatusOK, admins)
}

func (h *OrganizationHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	entityID, ok := entityIDParam(w, r)
	if !ok {
		return
	}

	adminID, err := strconv.ParseUint(chi.URLParam(r, "adminId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid admin ID", http.StatusBadRequest)
		return
	}

	if err := h.orgService.DeleteEntityAdmin(r.Context(), entityID, uint(adminID)); err != nil {
		writeError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Current returns the organization of the calling entity admin.
func (h *OrganizationHandler) Current(w http.ResponseWriter, r *http.Request) {
	org, err := h.orgService.CallerOrganization(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, org)
}

func entityIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	entityID := chi.URLParam(r, "entityId")
	if !domain.IsValidEntityID(entityID) {
		http.Error(w, "Invalid entity ID", http.StatusBadRequest)
		return "", false
	}
	return entityID, true
}
