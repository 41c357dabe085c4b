package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{"http://localhost:3000"}

// CORS returns middleware that applies the storefront's allowed origin policy.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", CartIDHeader, "X-Requested-With"},
		ExposedHeaders:   []string{CartIDHeader, requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
