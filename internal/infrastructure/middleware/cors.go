package middleware

import (
	"github.com/go-chi/cors"
)

// NewCORS creates a new CORS middleware with the given allowed origins
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept-Language",
			"Content-Type",
			"X-Request-ID",
		},
		ExposedHeaders: []string{"Content-Language", "X-Request-ID"},
		MaxAge:         300,
	})
}
