package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tollway/internal/repository"
	"tollway/internal/service"
)

// PassHandlers serves the pass reporting endpoints.
type PassHandlers struct {
	analytics *service.AnalyticsService
	stations  *repository.StationRepository
	now       func() time.Time
	logger    *zap.Logger
}

// NewPassHandlers returns handler struct.
func NewPassHandlers(analytics *service.AnalyticsService, stations *repository.StationRepository, logger *zap.Logger) *PassHandlers {
	return &PassHandlers{
		analytics: analytics,
		stations:  stations,
		now:       time.Now,
		logger:    logger,
	}
}

func (h *PassHandlers) dateRange(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	from, err := parseDateParam(r.PathValue("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", "", false
	}
	to, err := parseDateParam(r.PathValue("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", "", false
	}
	return from, to, true
}

// TollStationPasses handles GET /api/tollStationPasses/{stationID}/{from}/{to}.
func (h *PassHandlers) TollStationPasses(w http.ResponseWriter, r *http.Request) {
	stationID := r.PathValue("stationID")
	from, to, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	station, err := h.stations.GetStation(r.Context(), stationID)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			writeError(w, http.StatusNotFound, "station not found")
			return
		}
		h.logger.Error("station lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	rows, err := h.analytics.StationPasses(r.Context(), stationID, from, to)
	if err != nil {
		h.logger.Error("station passes query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	passList := make([]map[string]interface{}, 0, len(rows))
	for i, row := range rows {
		passList = append(passList, map[string]interface{}{
			"passIndex":   i + 1,
			"passID":      passID(stationID, row.Timestamp),
			"timestamp":   row.Timestamp.Format(requestTimeLayout),
			"tagID":       row.TagID,
			"tagOperator": row.TagOperator,
			"passType":    row.PassType,
			"passCharge":  row.Charge,
		})
	}

	respond(w, r, http.StatusOK, map[string]interface{}{
		"stationID":        stationID,
		"stationOperator":  station.OperatorID,
		"requestTimestamp": h.now().Format(requestTimeLayout),
		"periodFrom":       from,
		"periodTo":         to,
		"nPasses":          len(passList),
		"passList":         passList,
	})
}

// PassAnalysis handles GET /api/passAnalysis/{stationOpID}/{tagOpID}/{from}/{to}.
func (h *PassHandlers) PassAnalysis(w http.ResponseWriter, r *http.Request) {
	stationOp := r.PathValue("stationOpID")
	tagOp := r.PathValue("tagOpID")
	from, to, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	rows, err := h.analytics.PassAnalysis(r.Context(), stationOp, tagOp, from, to)
	if err != nil {
		h.logger.Error("pass analysis query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	passList := make([]map[string]interface{}, 0, len(rows))
	for i, row := range rows {
		passList = append(passList, map[string]interface{}{
			"passIndex":  i + 1,
			"passID":     passID(row.StationID, row.Timestamp),
			"stationID":  row.StationID,
			"timestamp":  row.Timestamp.Format(requestTimeLayout),
			"tagID":      row.TagID,
			"passCharge": row.Charge,
		})
	}

	respond(w, r, http.StatusOK, map[string]interface{}{
		"stationOpID":      stationOp,
		"tagOpID":          tagOp,
		"requestTimestamp": h.now().Format(requestTimeLayout),
		"periodFrom":       from,
		"periodTo":         to,
		"nPasses":          len(passList),
		"passList":         passList,
	})
}

// PassesCost handles GET /api/passesCost/{tollOpID}/{tagOpID}/{from}/{to}.
func (h *PassHandlers) PassesCost(w http.ResponseWriter, r *http.Request) {
	tollOp := r.PathValue("tollOpID")
	tagOp := r.PathValue("tagOpID")
	from, to, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	count, total, err := h.analytics.PassesCost(r.Context(), tollOp, tagOp, from, to)
	if err != nil {
		h.logger.Error("passes cost query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond(w, r, http.StatusOK, map[string]interface{}{
		"tollOpID":         tollOp,
		"tagOpID":          tagOp,
		"requestTimestamp": h.now().Format(requestTimeLayout),
		"periodFrom":       from,
		"periodTo":         to,
		"nPasses":          count,
		"passesCost":       total,
	})
}

// ChargesBy handles GET /api/chargesBy/{tollOpID}/{from}/{to}.
func (h *PassHandlers) ChargesBy(w http.ResponseWriter, r *http.Request) {
	tollOp := r.PathValue("tollOpID")
	from, to, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	rows, err := h.analytics.ChargesBy(r.Context(), tollOp, from, to)
	if err != nil {
		h.logger.Error("charges by query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if rows == nil {
		rows = []repository.OperatorCharges{}
	}

	respond(w, r, http.StatusOK, map[string]interface{}{
		"tollOpID":         tollOp,
		"requestTimestamp": h.now().Format(requestTimeLayout),
		"periodFrom":       from,
		"periodTo":         to,
		"PPOList":          rows,
	})
}
