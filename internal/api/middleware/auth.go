package middleware

import (
	"net/http"
	"strings"

	"github.com/dom/attendance-platform/internal/identity"
	"github.com/dom/attendance-platform/internal/service"
	"go.uber.org/zap"
)

// Auth requires a bearer access token issued to a principal of the given
// kind and stores that principal on the request context.
func Auth(tokens *service.TokenService, kind identity.Kind, log *zap.Logger) func(http.Handler) http.Handler {
	log = log.Named("auth-middleware")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Debug("invalid authorization header format")
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			principal, err := tokens.ValidateToken(parts[1])
			if err != nil {
				log.Debug("token validation failed", zap.Error(err))
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			if principal.Kind != kind {
				log.Info("principal kind rejected",
					zap.String("username", principal.Username),
					zap.String("kind", string(principal.Kind)),
					zap.String("required", string(kind)),
				)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			ctx := identity.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
