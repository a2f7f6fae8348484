package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"tollway/internal/http/middleware"
	"tollway/internal/models"
	"tollway/internal/repository"
	"tollway/internal/service"
)

// AnalyticsHandlers serves the dashboard endpoints.
type AnalyticsHandlers struct {
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

// NewAnalyticsHandlers returns handler struct.
func NewAnalyticsHandlers(analytics *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandlers {
	return &AnalyticsHandlers{analytics: analytics, logger: logger}
}

// User handles GET /api/user: own balance plus pass history.
func (h *AnalyticsHandlers) User(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication token required")
		return
	}

	from := r.URL.Query().Get("fromDate")
	to := r.URL.Query().Get("toDate")

	overview, err := h.analytics.UserOverview(r.Context(), claims.Username, from, to)
	if err != nil {
		h.logger.Error("user overview failed", zap.String("username", claims.Username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if overview.History == nil {
		overview.History = []repository.HistoryRow{}
	}

	respond(w, r, http.StatusOK, overview)
}

// Settlements handles GET /api/settlements: signed net balance per
// counter-operator from the caller's viewpoint.
func (h *AnalyticsHandlers) Settlements(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication token required")
		return
	}
	if claims.OperatorID == "" {
		writeError(w, http.StatusForbidden, "no operator bound to this account")
		return
	}

	balances, err := h.analytics.SettlementBalances(r.Context(), claims.OperatorID)
	if err != nil {
		h.logger.Error("settlements query failed", zap.String("operator", claims.OperatorID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if balances == nil {
		balances = []models.OperatorBalance{}
	}

	respond(w, r, http.StatusOK, balances)
}

// OperatorStationPopularity handles GET /api/operator/station-popularity.
func (h *AnalyticsHandlers) OperatorStationPopularity(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication token required")
		return
	}
	if claims.OperatorID == "" {
		writeError(w, http.StatusForbidden, "no operator bound to this account")
		return
	}
	h.stationPopularity(w, r, claims.OperatorID)
}

// AdminStationPopularity handles GET /api/admin/station-popularity, ranking
// across every operator.
func (h *AnalyticsHandlers) AdminStationPopularity(w http.ResponseWriter, r *http.Request) {
	h.stationPopularity(w, r, "")
}

func (h *AnalyticsHandlers) stationPopularity(w http.ResponseWriter, r *http.Request, operatorID string) {
	from := r.URL.Query().Get("fromDate")
	to := r.URL.Query().Get("toDate")

	rows, err := h.analytics.StationPopularity(r.Context(), operatorID, from, to)
	if err != nil {
		h.logger.Error("station popularity query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if rows == nil {
		rows = []repository.PopularityRow{}
	}

	respond(w, r, http.StatusOK, rows)
}

// OperatorVehicleTypeRank handles GET /api/operator/vehicle-type-rank.
func (h *AnalyticsHandlers) OperatorVehicleTypeRank(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication token required")
		return
	}
	if claims.OperatorID == "" {
		writeError(w, http.StatusForbidden, "no operator bound to this account")
		return
	}

	from := r.URL.Query().Get("fromDate")
	to := r.URL.Query().Get("toDate")

	rows, err := h.analytics.VehicleTypeRank(r.Context(), claims.OperatorID, from, to)
	if err != nil {
		h.logger.Error("vehicle type rank query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if rows == nil {
		rows = []repository.VehicleTypeRow{}
	}

	respond(w, r, http.StatusOK, rows)
}
