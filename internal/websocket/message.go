// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package websocket

import (
	json "github.com/goccy/go-json"
)

// Envelope types pushed to clients.
const (
	TypeSensorUpdate = "sensor-update"
	TypeWelcome      = "welcome"
	TypePing         = "ping"
	TypePong         = "pong"
)

// Envelope is the wire format for every pushed message.
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// MarshalEnvelope converts an envelope to JSON.
func MarshalEnvelope(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}
