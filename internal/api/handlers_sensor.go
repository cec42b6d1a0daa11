// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package api

import (
	"errors"
	"net/http"

	"github.com/aerowatch/aerowatch/internal/database"
	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/models"
)

// handleLatestReading returns the most recent air quality reading, or null
// when no reading has been ingested yet.
// GET /latest-reading
func (h *Handler) handleLatestReading(w http.ResponseWriter, r *http.Request) {
	reading, err := h.store.LatestSensorReading(r.Context())
	if errors.Is(err, database.ErrNotFound) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"reading": nil})
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to load latest sensor reading")
		respondError(w, http.StatusInternalServerError, "failed to load latest reading.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"reading": reading})
}

// handleLatestWearableReading returns the caller's latest vitals sample.
// GET /latest-wearable-reading?id=<userId>
func (h *Handler) handleLatestWearableReading(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "no user id provided.")
		return
	}

	reading, err := h.store.LatestWearableReading(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no wearable reading found.")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", id).Msg("failed to load wearable reading")
		respondError(w, http.StatusInternalServerError, "failed to load wearable reading.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reading": reading,
		"message": "latest wearable reading fetched.",
	})
}

// wearableOverviewKey caches the admin wearable partition, which needs three
// queries to assemble. Connecting a wearable invalidates it.
const wearableOverviewKey = "wearable-overview"

// handleNonConnectedWearables partitions accounts by wearable ownership and
// lists the devices still free to assign.
// GET /non-connected-wearables
func (h *Handler) handleNonConnectedWearables(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := h.overviewCache.Get(wearableOverviewKey); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	users, err := h.store.ListNonAdminUsers(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to list accounts for wearable partition")
		respondError(w, http.StatusInternalServerError, "failed to list wearables.")
		return
	}
	assigned, err := h.store.AssignedWearables(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to list assigned wearables")
		respondError(w, http.StatusInternalServerError, "failed to list wearables.")
		return
	}
	free, err := h.store.UnassignedWearables(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to list unassigned wearables")
		respondError(w, http.StatusInternalServerError, "failed to list wearables.")
		return
	}

	owners := make(map[string]bool, len(assigned))
	for _, device := range assigned {
		owners[device.UserID] = true
	}

	connected := []*models.User{}
	nonConnected := []*models.User{}
	for _, user := range users {
		if owners[user.ID] {
			connected = append(connected, user)
		} else {
			nonConnected = append(nonConnected, user)
		}
	}
	if free == nil {
		free = []*models.WearableDevice{}
	}

	overview := map[string]interface{}{
		"connectedUsers":      connected,
		"nonConnectedUsers":   nonConnected,
		"nonConnectedDevices": free,
	}
	h.overviewCache.Set(wearableOverviewKey, overview)
	respondJSON(w, http.StatusOK, overview)
}

// handleConnectWearable assigns the first free device to the user.
// POST /connect-wearable
func (h *Handler) handleConnectWearable(w http.ResponseWriter, r *http.Request) {
	var req ConnectWearableRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx := r.Context()

	free, err := h.store.UnassignedWearables(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to list unassigned wearables")
		respondError(w, http.StatusInternalServerError, "failed to connect wearable.")
		return
	}
	if len(free) == 0 {
		respondError(w, http.StatusNotFound, "no wearable device available.")
		return
	}

	device, err := h.store.ConnectWearable(ctx, req.UserID, free[0].Serial)
	switch {
	case errors.Is(err, database.ErrAlreadyConnected):
		respondError(w, http.StatusBadRequest, "user already has a connected wearable.")
		return
	case errors.Is(err, database.ErrNoDeviceAvailable):
		respondError(w, http.StatusNotFound, "no wearable device available.")
		return
	case err != nil:
		logging.Ctx(ctx).Error().Err(err).Str("user_id", req.UserID).Msg("failed to connect wearable")
		respondError(w, http.StatusInternalServerError, "failed to connect wearable.")
		return
	}

	h.overviewCache.Delete(wearableOverviewKey)
	logging.Ctx(ctx).Info().Str("user_id", req.UserID).Str("serial", device.Serial).Msg("wearable connected")
	respondJSON(w, http.StatusOK, map[string]string{"message": "wearable connected."})
}
