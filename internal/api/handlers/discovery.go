package handlers

import (
	"net/http"

	"github.com/dom/attendance-platform/internal/discovery"
	"github.com/go-chi/chi/v5"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp int64  `json:"timestamp"`
}

// DiscoveryHandler serves the discovery endpoints. Health is a liveness
// signal only and always reports UP.
type DiscoveryHandler struct {
	status      discovery.StatusProvider
	serviceName string
	clock       *discovery.MonotonicClock
}

func NewDiscoveryHandler(status discovery.StatusProvider, serviceName string) *DiscoveryHandler {
	return &DiscoveryHandler{
		status:      status,
		serviceName: serviceName,
		clock:       discovery.NewMonotonicClock(),
	}
}

func (h *DiscoveryHandler) Mdns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status.Status(r.Context()))
}

func (h *DiscoveryHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "UP",
		Service:   h.serviceName,
		Timestamp: h.clock.UnixMilli(),
	})
}

// Routes mounts the discovery endpoints under the caller's prefix.
func (h *DiscoveryHandler) Routes(r chi.Router) {
	r.Get("/mdns", h.Mdns)
	r.Get("/health", h.Health)
}
