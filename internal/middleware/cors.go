// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// CORS allows cross-origin requests from origins.  "*" allows any origin;
// credentials are only enabled for an explicit origin list.  An empty list
// adds no CORS headers at all.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		// rs/cors treats an empty list as "allow all".
		return func(next http.Handler) http.Handler { return next }
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: !slices.Contains(origins, "*"),
	})
	return c.Handler
}
