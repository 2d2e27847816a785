package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/barberqueue/barberqueue-api/internal/pkg/jwt"
	"github.com/barberqueue/barberqueue-api/internal/pkg/revocation"
)

func newTestAuth(t *testing.T) (*jwt.Service, *revocation.MemoryStore, func(http.Handler) http.Handler) {
	t.Helper()
	jwtService := jwt.NewService("test-secret", time.Hour, 24*time.Hour)
	store := revocation.NewMemoryStore()
	return jwtService, store, Auth(jwtService, store)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMissingHeader(t *testing.T) {
	_, _, auth := newTestAuth(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	auth(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthValidToken(t *testing.T) {
	jwtService, _, auth := newTestAuth(t)

	token, err := jwtService.GenerateAccessToken(42, "client")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	var gotUserID int64
	var gotRole string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		gotRole = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	auth(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != 42 {
		t.Errorf("expected user id 42, got %d", gotUserID)
	}
	if gotRole != "client" {
		t.Errorf("expected role client, got %q", gotRole)
	}
}

// A token revoked at logout must be rejected on every subsequent request.
func TestAuthRevokedToken(t *testing.T) {
	jwtService, store, auth := newTestAuth(t)

	token, err := jwtService.GenerateAccessToken(7, "client")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	claims, err := jwtService.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	auth(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 before revocation, got %d", rec.Code)
	}

	if err := store.Revoke(req.Context(), claims.ID, time.Hour); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	for i := 0; i < 3; i++ {
		rec = httptest.NewRecorder()
		auth(okHandler()).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("request %d: expected 401 after revocation, got %d", i, rec.Code)
		}
	}
}

func TestRequireRole(t *testing.T) {
	jwtService, _, auth := newTestAuth(t)

	token, err := jwtService.GenerateAccessToken(9, "client")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	auth(RequireOwner()(okHandler())).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("client hitting owner route: expected 403, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	auth(RequireClient()(okHandler())).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("client hitting client route: expected 200, got %d", rec.Code)
	}
}
