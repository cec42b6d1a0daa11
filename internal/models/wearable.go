// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package models

import "time"

// WearableDevice is a registered health wearable. UserID is empty while the
// device is unassigned; connecting a wearable claims the first free device.
type WearableDevice struct {
	ID     string `json:"id"`
	Serial string `json:"serial"`
	UserID string `json:"userId,omitempty"`
}

// WearableReading is a vitals sample reported by a user's wearable.
type WearableReading struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	HeartRate       float64   `json:"heartRate"`
	SpO2            float64   `json:"spo2"`
	BodyTemperature float64   `json:"bodyTemperature"`
	Timestamp       time.Time `json:"timestamp"`
}
