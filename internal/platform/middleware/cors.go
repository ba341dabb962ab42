package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

const corsMaxAgeSeconds = 12 * 60 * 60

// CORS returns middleware that lets the listed browser origins call the API.
// With no origins configured, cross-origin requests are refused.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		// rs/cors treats an empty list as "*".
		return func(next http.Handler) http.Handler { return next }
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeSeconds,
	})
	return c.Handler
}

// Chain applies middleware so that the first argument is the outermost layer.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
