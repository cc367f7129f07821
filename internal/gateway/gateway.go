package gateway

import (
	"net/http"

	"github.com/dom/attendance-platform/internal/api/handlers"
	"github.com/dom/attendance-platform/internal/api/middleware"
	"github.com/dom/attendance-platform/internal/config"
	"github.com/dom/attendance-platform/internal/discovery"
	"github.com/dom/attendance-platform/internal/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewHandler builds the gateway: the logging filter first, then recovery,
// metrics, CORS and rate limiting in front of the discovery endpoints and
// the upstream proxies.
func NewHandler(cfg *config.GatewayConfig, status discovery.StatusProvider, log *zap.Logger) (http.Handler, error) {
	routes, err := ParseRoutes(cfg.Routes)
	if err != nil {
		return nil, err
	}
	trusted, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(LoggingFilter(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(metrics.Instrument(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, trusted).Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	discoveryHandler := handlers.NewDiscoveryHandler(status, cfg.ServiceName)
	r.Route(DiscoveryPrefix, discoveryHandler.Routes)

	mountRoutes(r, routes, log)

	return r, nil
}
