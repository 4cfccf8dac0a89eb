// Package api pkg/api/auth.go
package api

import (
	"net/http"
	"strings"

	"github.com/gamehaven/telemetry/pkg/telemetry"
)

// requireAdmin gates the reporting routes the same way the storefront gates
// its admin surfaces: an admin session cookie triple, or the configured API
// key as a bearer token.
func (s *APIServer) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authorized(r) {
			next.ServeHTTP(w, r)
			return
		}

		writeJSON(w, http.StatusForbidden, map[string]string{
			"error": "admin access required",
		})
	})
}

func (s *APIServer) authorized(r *http.Request) bool {
	if telemetry.SessionFromRequest(r).IsAdmin() {
		return true
	}

	if s.apiKey == "" {
		return false
	}

	auth := r.Header.Get("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")

	return auth != token && token == s.apiKey
}
