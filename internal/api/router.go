package api

import (
	"net/http"

	"github.com/dom/attendance-platform/internal/api/handlers"
	"github.com/dom/attendance-platform/internal/api/middleware"
	"github.com/dom/attendance-platform/internal/config"
	"github.com/dom/attendance-platform/internal/discovery"
	"github.com/dom/attendance-platform/internal/identity"
	"github.com/dom/attendance-platform/internal/metrics"
	"github.com/dom/attendance-platform/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	gorillaHandlers "github.com/gorilla/handlers"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, status discovery.StatusProvider, cfg *config.Config, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Instrument(cfg.ServiceName))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, log)
	superAuthHandler := handlers.NewSuperAdminAuthHandler(services.SuperAuth, log)
	orgHandler := handlers.NewOrganizationHandler(services.Organization, log)
	faceHandler := handlers.NewFaceHandler(services.Face, services.Organization, log)
	discoveryHandler := handlers.NewDiscoveryHandler(status, cfg.ServiceName)

	entityAdminOnly := middleware.Auth(services.Tokens, identity.KindEntityAdmin, log)
	superAdminOnly := middleware.Auth(services.Tokens, identity.KindSuperAdmin, log)

	r.Route("/api", func(r chi.Router) {
		// Discovery is open to any origin
		r.Route("/discovery", func(r chi.Router) {
			r.Use(middleware.CORS([]string{"*"}))
			discoveryHandler.Routes(r)
		})

		// Entity admin auth
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(entityAdminOnly)
				r.Get("/me", authHandler.Me)
				r.Post("/logout-all", authHandler.LogoutAll)
			})
		})

		// Entity admin routes
		r.Group(func(r chi.Router) {
			r.Use(entityAdminOnly)

			r.Get("/organization", orgHandler.Current)

			r.Route("/face-recognition/results", func(r chi.Router) {
				r.Post("/", faceHandler.Record)
				r.Get("/", faceHandler.List)
			})
		})

		// Super admin routes
		r.Route("/super", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", superAuthHandler.Login)
				r.Post("/refresh", superAuthHandler.Refresh)
				r.Post("/logout", superAuthHandler.Logout)
				r.With(superAdminOnly).Post("/logout-all", superAuthHandler.LogoutAll)
			})

			r.Group(func(r chi.Router) {
				r.Use(superAdminOnly)

				r.Route("/organizations", func(r chi.Router) {
					r.Get("/", orgHandler.List)
					r.Post("/", orgHandler.Create)
					r.Get("/{entityId}", orgHandler.Get)
					r.Put("/{entityId}", orgHandler.Update)
					r.Post("/{entityId}/deactivate", orgHandler.Deactivate)
					r.Post("/{entityId}/activate", orgHandler.Activate)
					r.Delete("/{entityId}", orgHandler.Delete)

					r.Post("/{entityId}/admins", orgHandler.CreateAdmin)
					r.Get("/{entityId}/admins", orgHandler.ListAdmins)
					r.Delete("/{entityId}/admins/{adminId}", orgHandler.DeleteAdmin)
				})
			})
		})
	})

	return gorillaHandlers.CompressHandler(r)
}
