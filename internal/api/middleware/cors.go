package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS allows browser clients from the given origins. "*" allows any.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Requested-With"}),
		handlers.ExposedHeaders([]string{"X-Request-Id"}),
		handlers.MaxAge(600),
	)
}
