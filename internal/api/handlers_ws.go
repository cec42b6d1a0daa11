// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package api

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"

	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Clients are native mobile apps without an Origin header; browser
	// cross-origin policy is enforced by the CORS layer on the REST surface.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebsocket performs the push connection handshake. The user ID and
// session are validated before the upgrade, so a rejected handshake is a
// plain HTTP error and never creates a registry entry.
// GET /ws?userId=<userId>
func (h *Handler) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "no user id provided.")
		return
	}

	session, err := h.authenticator.Session(r.Context(), r.Header)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Str("user_id", userID).Msg("websocket handshake rejected")
		respondError(w, http.StatusUnauthorized, "not authenticated.")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.registry, conn, userID)
	h.registry.Register(client)
	client.Start()
	client.Send(websocket.Envelope{Type: websocket.TypeWelcome, Payload: session.Email})
}
