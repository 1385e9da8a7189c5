package middleware

import (
	"net/http"

	"shopco-storefront/internal/auth"

	"github.com/go-chi/cors"
)

// CORS allows the storefront UI origins to call the page routes with cookies.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:4200"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", auth.SessionHeader},
		ExposedHeaders:   []string{"X-Request-ID", auth.SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
