package handlers

import (
	"net/http"
	"strconv"

	"github.com/dom/attendance-platform/internal/domain"
	"github.com/dom/attendance-platform/internal/identity"
	"github.com/dom/attendance-platform/internal/service"
	"go.uber.org/zap"
)

type FaceResultRequest struct {
	domain.FaceDetectionResult
	DeviceInfo string `json:"deviceInfo"`
}

type FaceHandler struct {
	faceService *service.FaceService
	orgService  *service.OrganizationService
	log         *zap.Logger
}

func NewFaceHandler(faceService *service.FaceService, orgService *service.OrganizationService, log *zap.Logger) *FaceHandler {
	return &FaceHandler{faceService: faceService, orgService: orgService, log: log}
}

func (h *FaceHandler) Record(w http.ResponseWriter, r *http.Request) {
	org, err := h.orgService.CallerOrganization(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	var req FaceResultRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.faceService.Record(r.Context(), org, req.FaceDetectionResult, req.DeviceInfo)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *FaceHandler) List(w http.ResponseWriter, r *http.Request) {
	org, err := h.orgService.CallerOrganization(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.faceService.List(r.Context(), org, limit, offset)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if entries == nil {
		entries = []*domain.FaceRecognitionLog{}
	}

	writeJSON(w, http.StatusOK, entries)
}
