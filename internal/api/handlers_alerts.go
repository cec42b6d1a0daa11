// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/aerowatch/aerowatch/internal/database"
	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/models"
)

// handleEmergency records an alert raised by the user's panic button.
// POST /emergency
func (h *Handler) handleEmergency(w http.ResponseWriter, r *http.Request) {
	var req EmergencyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx := r.Context()

	if _, err := h.store.GetUser(ctx, req.UserID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no user found.")
			return
		}
		logging.Ctx(ctx).Error().Err(err).Str("user_id", req.UserID).Msg("failed to load account for alert")
		respondError(w, http.StatusInternalServerError, "failed to create alert.")
		return
	}

	alert, err := h.store.CreateAlert(ctx, req.UserID, time.Now().UTC())
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("user_id", req.UserID).Msg("failed to create alert")
		respondError(w, http.StatusInternalServerError, "failed to create alert.")
		return
	}

	logging.Ctx(ctx).Info().Str("alert_id", alert.ID).Str("user_id", req.UserID).Msg("emergency alert created")
	respondJSON(w, http.StatusOK, map[string]string{"message": "emergency alert created."})
}

// handleAlerts lists all alerts with the raising user's identity, newest
// first.
// GET /alerts
func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.store.ListAlerts(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to list alerts")
		respondError(w, http.StatusInternalServerError, "failed to list alerts.")
		return
	}
	if alerts == nil {
		alerts = []*models.Alert{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts})
}
