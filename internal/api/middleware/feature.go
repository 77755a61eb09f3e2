package middleware

import (
	"net/http"

	"github.com/Rrens/interaction-drafts/internal/api/response"
)

// RequireFeature hides the wrapped routes entirely when the feature flag is off
func RequireFeature(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				response.NotFound(w, "not found")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
