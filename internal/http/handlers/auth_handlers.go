package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"tollway/internal/http/middleware"
	"tollway/internal/service"
)

// AuthHandlers serves login, token verification and logout.
type AuthHandlers struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(auth *service.AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{auth: auth, logger: logger}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Dashboard posts JSON, the CLI posts form fields. Accept both.
func decodeCredentials(r *http.Request) (credentials, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return credentials{}, err
		}
		return credentials{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}, nil
	}

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		return credentials{}, err
	}
	return creds, nil
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	creds, err := decodeCredentials(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := h.auth.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// VerifyToken handles GET /api/auth/verify-token.
func (h *AuthHandlers) VerifyToken(w http.ResponseWriter, r *http.Request) {
	tokenStr := middleware.ExtractToken(r)
	if tokenStr == "" {
		writeError(w, http.StatusUnauthorized, "authentication token required")
		return
	}

	claims, err := h.auth.VerifyToken(tokenStr)
	if err != nil {
		writeError(w, http.StatusForbidden, "invalid or expired token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Token is valid",
		"user":    claims,
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, the client
// simply drops its copy.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
