package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyValid(t *testing.T) {
	mw := APIKey("secret-key")
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("X-API-Key", "secret-key")
	rec := httptest.NewRecorder()

	mw(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAPIKeyInvalid(t *testing.T) {
	mw := APIKey("secret-key")
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()

	mw(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAPIKeyEmptyConfigDisablesRoute(t *testing.T) {
	mw := APIKey("")
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("X-API-Key", "")
	rec := httptest.NewRecorder()

	mw(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAPIKeyOrAdminJWTAcceptsKey(t *testing.T) {
	mw := APIKeyOrAdminJWT("secret-key", "jwt-secret")
	req := httptest.NewRequest(http.MethodPut, "/api/leads/1/status", nil)
	req.Header.Set("X-API-Key", "secret-key")
	rec := httptest.NewRecorder()

	mw(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAPIKeyOrAdminJWTAcceptsToken(t *testing.T) {
	mw := APIKeyOrAdminJWT("secret-key", "jwt-secret")
	req := httptest.NewRequest(http.MethodPut, "/api/leads/1/status", nil)
	req.Header.Set("Authorization", "Bearer "+signedAdminToken(t, "jwt-secret"))
	rec := httptest.NewRecorder()

	mw(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAPIKeyOrAdminJWTRejectsNeither(t *testing.T) {
	mw := APIKeyOrAdminJWT("secret-key", "jwt-secret")
	req := httptest.NewRequest(http.MethodPut, "/api/leads/1/status", nil)
	rec := httptest.NewRecorder()

	mw(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}
