package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKey requires a matching X-API-Key header. An empty configured key
// disables the route rather than leaving it open.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !apiKeyMatches(r, key) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyOrAdminJWT accepts either a matching X-API-Key header or a valid
// admin bearer token. Lead-management routes are used both by the CRM
// integration (key) and the admin dashboard (JWT).
func APIKeyOrAdminJWT(key, jwtSecret string) func(http.Handler) http.Handler {
	adminOnly := AdminJWT(jwtSecret)
	return func(next http.Handler) http.Handler {
		jwtGuarded := adminOnly(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKeyMatches(r, key) {
				next.ServeHTTP(w, r)
				return
			}
			if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
				jwtGuarded.ServeHTTP(w, r)
				return
			}
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}
}

func apiKeyMatches(r *http.Request, key string) bool {
	if key == "" {
		return false
	}
	header := r.Header.Get("X-API-Key")
	return subtle.ConstantTimeCompare([]byte(header), []byte(key)) == 1
}
