package httpserver

import (
	"net/http"

	"tollway/internal/http/handlers"
	"tollway/internal/http/middleware"
	"tollway/internal/models"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers      *handlers.AuthHandlers
	AdminHandlers     *handlers.AdminHandlers
	PassHandlers      *handlers.PassHandlers
	AnalyticsHandlers *handlers.AnalyticsHandlers
	HealthHandler     http.HandlerFunc
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", method(http.MethodGet, deps.HealthHandler))

	mux.Handle("/api/auth/login", method(http.MethodPost, http.HandlerFunc(deps.AuthHandlers.Login)))
	mux.Handle("/api/auth/verify-token", method(http.MethodGet, http.HandlerFunc(deps.AuthHandlers.VerifyToken)))
	mux.Handle("/api/auth/logout", method(http.MethodPost, http.HandlerFunc(deps.AuthHandlers.Logout)))

	authenticated := func(handler http.HandlerFunc, roles ...models.Role) http.Handler {
		mws := []func(http.Handler) http.Handler{authMiddleware}
		if len(roles) > 0 {
			mws = append(mws, middleware.RequireRole(roles...))
		}
		return middleware.Chain(handler, mws...)
	}

	adminOnly := func(handler http.HandlerFunc) http.Handler {
		return authenticated(handler, models.RoleAdmin)
	}

	mux.Handle("/api/admin/resetstations", method(http.MethodPost, adminOnly(deps.AdminHandlers.ResetStations)))
	mux.Handle("/api/admin/resetpasses", method(http.MethodPost, adminOnly(deps.AdminHandlers.ResetPasses)))
	mux.Handle("/api/admin/addpasses", method(http.MethodPost, adminOnly(deps.AdminHandlers.AddPasses)))
	mux.Handle("/api/admin/healthcheck", method(http.MethodGet, adminOnly(deps.AdminHandlers.Healthcheck)))
	mux.Handle("/api/admin/resetusers", method(http.MethodPost, adminOnly(deps.AdminHandlers.ResetUsers)))
	mux.Handle("/api/admin/resetvehicles", method(http.MethodPost, adminOnly(deps.AdminHandlers.ResetVehicles)))
	mux.Handle("/api/admin/users", method(http.MethodGet, adminOnly(deps.AdminHandlers.ListUsers)))
	mux.Handle("/api/admin/usermod", method(http.MethodPost, adminOnly(deps.AdminHandlers.ModifyUser)))

	mux.Handle("/api/tollStationPasses/{stationID}/{from}/{to}",
		method(http.MethodGet, authenticated(deps.PassHandlers.TollStationPasses)))
	mux.Handle("/api/passAnalysis/{stationOpID}/{tagOpID}/{from}/{to}",
		method(http.MethodGet, authenticated(deps.PassHandlers.PassAnalysis)))
	mux.Handle("/api/passesCost/{tollOpID}/{tagOpID}/{from}/{to}",
		method(http.MethodGet, authenticated(deps.PassHandlers.PassesCost)))
	mux.Handle("/api/chargesBy/{tollOpID}/{from}/{to}",
		method(http.MethodGet, authenticated(deps.PassHandlers.ChargesBy)))

	mux.Handle("/api/settlements",
		method(http.MethodGet, authenticated(deps.AnalyticsHandlers.Settlements, models.RoleOperator)))
	mux.Handle("/api/user",
		method(http.MethodGet, authenticated(deps.AnalyticsHandlers.User, models.RoleNormal)))
	mux.Handle("/api/operator/station-popularity",
		method(http.MethodGet, authenticated(deps.AnalyticsHandlers.OperatorStationPopularity, models.RoleOperator)))
	mux.Handle("/api/operator/vehicle-type-rank",
		method(http.MethodGet, authenticated(deps.AnalyticsHandlers.OperatorVehicleTypeRank, models.RoleOperator)))
	mux.Handle("/api/admin/station-popularity",
		method(http.MethodGet, authenticated(deps.AnalyticsHandlers.AdminStationPopularity, models.RoleAdmin, models.RoleAnalyst)))

	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
