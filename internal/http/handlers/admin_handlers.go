package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"tollway/internal/service"
)

// AdminHandlers serves the data management endpoints.
type AdminHandlers struct {
	ingest *service.IngestService
	auth   *service.AuthService
	dbDSN  string
	logger *zap.Logger
}

// NewAdminHandlers returns handler struct. dbDSN is echoed by healthcheck.
func NewAdminHandlers(ingest *service.IngestService, auth *service.AuthService, dbDSN string, logger *zap.Logger) *AdminHandlers {
	return &AdminHandlers{ingest: ingest, auth: auth, dbDSN: dbDSN, logger: logger}
}

// ResetStations handles POST /api/admin/resetstations.
func (h *AdminHandlers) ResetStations(w http.ResponseWriter, r *http.Request) {
	n, err := h.ingest.ResetStations(r.Context())
	if err != nil {
		h.logger.Error("resetstations failed", zap.Error(err))
		respond(w, r, http.StatusInternalServerError, map[string]string{"status": "failed", "info": err.Error()})
		return
	}
	respond(w, r, http.StatusOK, map[string]interface{}{"status": "OK", "stations": n})
}

// ResetPasses handles POST /api/admin/resetpasses.
func (h *AdminHandlers) ResetPasses(w http.ResponseWriter, r *http.Request) {
	if err := h.ingest.ResetPasses(r.Context()); err != nil {
		h.logger.Error("resetpasses failed", zap.Error(err))
		respond(w, r, http.StatusInternalServerError, map[string]string{"status": "failed", "info": err.Error()})
		return
	}
	respond(w, r, http.StatusOK, map[string]string{"status": "OK"})
}

// AddPasses handles POST /api/admin/addpasses.
func (h *AdminHandlers) AddPasses(w http.ResponseWriter, r *http.Request) {
	newPasses, err := h.ingest.AddPasses(r.Context())
	if err != nil {
		h.logger.Error("addpasses failed", zap.Error(err))
		respond(w, r, http.StatusInternalServerError, map[string]string{"status": "failed", "info": err.Error()})
		return
	}
	respond(w, r, http.StatusOK, map[string]interface{}{"status": "OK", "newPasses": newPasses})
}

// Healthcheck handles GET /api/admin/healthcheck.
func (h *AdminHandlers) Healthcheck(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ingest.Healthcheck(r.Context())
	if err != nil {
		respond(w, r, http.StatusInternalServerError, map[string]string{
			"status": "failed",
			"info":   "database unreachable",
		})
		return
	}
	respond(w, r, http.StatusOK, map[string]interface{}{
		"status":       "OK",
		"dbconnection": h.dbDSN,
		"n_stations":   stats.Stations,
		"n_tags":       stats.Tags,
		"n_passes":     stats.Passes,
	})
}

// ResetUsers handles POST /api/admin/resetusers.
func (h *AdminHandlers) ResetUsers(w http.ResponseWriter, r *http.Request) {
	if err := h.ingest.ResetUsers(r.Context()); err != nil {
		h.logger.Error("resetusers failed", zap.Error(err))
		respond(w, r, http.StatusInternalServerError, map[string]string{"status": "failed", "info": err.Error()})
		return
	}
	respond(w, r, http.StatusOK, map[string]string{"status": "OK"})
}

// ResetVehicles handles POST /api/admin/resetvehicles.
func (h *AdminHandlers) ResetVehicles(w http.ResponseWriter, r *http.Request) {
	if err := h.ingest.ResetVehicles(r.Context()); err != nil {
		h.logger.Error("resetvehicles failed", zap.Error(err))
		respond(w, r, http.StatusInternalServerError, map[string]string{"status": "failed", "info": err.Error()})
		return
	}
	respond(w, r, http.StatusOK, map[string]string{"status": "OK"})
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	usernames, err := h.auth.ListUsernames(r.Context())
	if err != nil {
		h.logger.Error("users listing failed", zap.Error(err))
		respond(w, r, http.StatusInternalServerError, map[string]string{"status": "failed", "info": err.Error()})
		return
	}
	respond(w, r, http.StatusOK, map[string]interface{}{"status": "OK", "usernames": usernames})
}

// ModifyUser handles POST /api/admin/usermod: creates the account or rotates
// its password.
func (h *AdminHandlers) ModifyUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, r, http.StatusBadRequest, map[string]string{"status": "failed", "info": "invalid JSON body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		respond(w, r, http.StatusBadRequest, map[string]string{"status": "failed", "info": "username and password are required"})
		return
	}

	created, err := h.auth.UpsertUser(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Error("usermod failed", zap.Error(err))
		respond(w, r, http.StatusInternalServerError, map[string]string{"status": "failed", "info": err.Error()})
		return
	}

	info := "password updated"
	if created {
		info = "user created"
	}
	respond(w, r, http.StatusOK, map[string]string{"status": "OK", "info": info})
}
