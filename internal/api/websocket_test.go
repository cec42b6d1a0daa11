// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/aerowatch/aerowatch/internal/models"
	"github.com/aerowatch/aerowatch/internal/websocket"
)

func wsURL(server *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + path
}

func TestWebsocketRejectsMissingUserID(t *testing.T) {
	h := newTestHandler(t, newFakeStore(), &fakeCompleter{}, &models.Session{UserID: "u1", Email: "u1@example.com"})
	server := httptest.NewServer(http.HandlerFunc(h.handleWebsocket))
	defer server.Close()

	_, resp, err := gorilla.DefaultDialer.Dial(wsURL(server, "/ws"), nil)
	if err == nil {
		t.Fatal("expected handshake failure without userId")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 before upgrade, got %v", resp)
	}
	if h.registry.Len() != 0 {
		t.Fatal("rejected handshake must not create a registry entry")
	}
}

func TestWebsocketRejectsUnauthenticated(t *testing.T) {
	h := newTestHandler(t, newFakeStore(), &fakeCompleter{}, nil)
	server := httptest.NewServer(http.HandlerFunc(h.handleWebsocket))
	defer server.Close()

	_, resp, err := gorilla.DefaultDialer.Dial(wsURL(server, "/ws?userId=u1"), nil)
	if err == nil {
		t.Fatal("expected handshake failure without a session")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 before upgrade, got %v", resp)
	}
	if h.registry.Len() != 0 {
		t.Fatal("rejected handshake must not create a registry entry")
	}
}

func TestWebsocketHandshakeRegistersAndWelcomes(t *testing.T) {
	h := newTestHandler(t, newFakeStore(), &fakeCompleter{}, &models.Session{UserID: "u1", Email: "u1@example.com"})
	server := httptest.NewServer(http.HandlerFunc(h.handleWebsocket))
	defer server.Close()

	conn, resp, err := gorilla.DefaultDialer.Dial(wsURL(server, "/ws?userId=u1"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	defer resp.Body.Close()

	var welcome websocket.Envelope
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("reading welcome frame: %v", err)
	}
	if welcome.Type != websocket.TypeWelcome {
		t.Fatalf("expected %q frame, got %q", websocket.TypeWelcome, welcome.Type)
	}
	if welcome.Payload != "u1@example.com" {
		t.Fatalf("expected session email payload, got %v", welcome.Payload)
	}

	if h.registry.Get("u1") == nil {
		t.Fatal("expected connection registered under its user id")
	}
}

func TestWebsocketUpgradeThroughRouter(t *testing.T) {
	h := newTestHandler(t, newFakeStore(), &fakeCompleter{}, &models.Session{UserID: "u1", Email: "u1@example.com"})
	server := httptest.NewServer(h.Router())
	defer server.Close()

	// The full middleware chain wraps the response writer; the upgrade must
	// still be able to hijack the connection through it.
	conn, resp, err := gorilla.DefaultDialer.Dial(wsURL(server, "/ws?userId=u1"), nil)
	if err != nil {
		t.Fatalf("dial through router: %v", err)
	}
	defer conn.Close()
	defer resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var welcome websocket.Envelope
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("reading welcome frame: %v", err)
	}
	if welcome.Type != websocket.TypeWelcome {
		t.Fatalf("expected %q frame, got %q", websocket.TypeWelcome, welcome.Type)
	}
	if h.registry.Get("u1") == nil {
		t.Fatal("expected connection registered under its user id")
	}

	if delivered := h.registry.Broadcast(websocket.Envelope{Type: websocket.TypeSensorUpdate, Payload: &models.SensorReading{ID: "r1", CO2: 410}}); delivered != 1 {
		t.Fatalf("expected 1 delivery, got %d", delivered)
	}
	var update struct {
		Type    string               `json:"type"`
		Payload models.SensorReading `json:"payload"`
	}
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("reading sensor update: %v", err)
	}
	if update.Type != websocket.TypeSensorUpdate || update.Payload.CO2 != 410 {
		t.Fatalf("unexpected update frame: %+v", update)
	}
}

func TestWebsocketReceivesBroadcast(t *testing.T) {
	h := newTestHandler(t, newFakeStore(), &fakeCompleter{}, &models.Session{UserID: "u1", Email: "u1@example.com"})
	server := httptest.NewServer(http.HandlerFunc(h.handleWebsocket))
	defer server.Close()

	conn, resp, err := gorilla.DefaultDialer.Dial(wsURL(server, "/ws?userId=u1"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	defer resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var welcome websocket.Envelope
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("reading welcome frame: %v", err)
	}

	reading := &models.SensorReading{ID: "r1", CO2: 430, Timestamp: time.Now().UTC()}
	if delivered := h.registry.Broadcast(websocket.Envelope{Type: websocket.TypeSensorUpdate, Payload: reading}); delivered != 1 {
		t.Fatalf("expected 1 delivery, got %d", delivered)
	}

	var update struct {
		Type    string               `json:"type"`
		Payload models.SensorReading `json:"payload"`
	}
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("reading sensor update: %v", err)
	}
	if update.Type != websocket.TypeSensorUpdate || update.Payload.CO2 != 430 {
		t.Fatalf("unexpected update frame: %+v", update)
	}
}
