package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/agentflow/agentflow-api/internal/apperror"
)

// APIKeyAuth guards the admin surface. The key is checked against the
// X-API-Key header; outside production the guard is a no-op so local tooling
// works without secrets.
func APIKeyAuth(apiKey string, production bool, resp *Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !production {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-API-Key")
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				resp.Error(w, apperror.Unauthorized("invalid API key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
