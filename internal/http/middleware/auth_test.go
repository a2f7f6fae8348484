package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tollway/internal/models"
	"tollway/internal/service"
)

func newToken(t *testing.T, svc *service.TokenService, role models.Role, operatorID string) string {
	t.Helper()
	token, err := svc.GenerateToken(&models.User{
		Username:   "tester",
		Role:       role,
		OperatorID: operatorID,
	})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	svc := service.NewTokenService("test-secret", time.Hour)
	var hit bool
	handler := AuthMiddleware(svc)(okHandler(&hit))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if hit {
		t.Fatalf("handler must not run without a token")
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	svc := service.NewTokenService("test-secret", time.Hour)
	var hit bool
	handler := AuthMiddleware(svc)(okHandler(&hit))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if hit {
		t.Fatalf("handler must not run with an invalid token")
	}
}

func TestAuthMiddlewareBearerToken(t *testing.T) {
	svc := service.NewTokenService("test-secret", time.Hour)
	token := newToken(t, svc, models.RoleNormal, "")

	var claimsSeen *service.Claims
	handler := AuthMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claimsSeen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if claimsSeen == nil || claimsSeen.Username != "tester" {
		t.Fatalf("claims not attached to context: %+v", claimsSeen)
	}
}

func TestAuthMiddlewareObservatoryHeaderFallback(t *testing.T) {
	svc := service.NewTokenService("test-secret", time.Hour)
	token := newToken(t, svc, models.RoleOperator, "AM")

	var claimsSeen *service.Claims
	handler := AuthMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claimsSeen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/settlements", nil)
	req.Header.Set("X-Observatory-Auth", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if claimsSeen == nil || claimsSeen.OperatorID != "AM" {
		t.Fatalf("expected operator claims, got %+v", claimsSeen)
	}
}

func TestRequireRoleForbidsWrongRole(t *testing.T) {
	svc := service.NewTokenService("test-secret", time.Hour)
	token := newToken(t, svc, models.RoleOperator, "AM")

	var hit bool
	handler := Chain(okHandler(&hit), AuthMiddleware(svc), RequireRole(models.RoleAdmin))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/addpasses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if hit {
		t.Fatalf("handler must not run for a forbidden role")
	}
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	svc := service.NewTokenService("test-secret", time.Hour)
	token := newToken(t, svc, models.RoleAnalyst, "")

	var hit bool
	handler := Chain(okHandler(&hit), AuthMiddleware(svc), RequireRole(models.RoleAdmin, models.RoleAnalyst))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/station-popularity", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !hit {
		t.Fatalf("expected handler to run for an allowed role")
	}
}
