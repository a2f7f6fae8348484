package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"tollway/internal/models"
	"tollway/internal/service"
)

type contextKey string

const claimsKey contextKey = "claims"

const observatoryAuthHeader = "X-Observatory-Auth"

// TokenVerifier decodes a bearer token into claims.
type TokenVerifier interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// ExtractToken pulls the token from Authorization: Bearer, falling back to
// the X-Observatory-Auth header older clients send.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get(observatoryAuthHeader))
}

// AuthMiddleware validates the request token and attaches claims to context.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractToken(r)
			if tokenStr == "" {
				writeFailure(w, http.StatusUnauthorized, "authentication token required")
				return
			}

			claims, err := verifier.ValidateToken(tokenStr)
			if err != nil {
				writeFailure(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose role is not listed.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeFailure(w, http.StatusUnauthorized, "authentication token required")
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				writeFailure(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext retrieves token claims from request context.
func ClaimsFromContext(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*service.Claims)
	return claims, ok
}

func writeFailure(w http.ResponseWriter, status int, info string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "failed", "info": info})
}
