// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package models

import "time"

// SensorReading is a single measurement from the gas sensor array. Readings
// are immutable once persisted; Aerowatch only reads them (ingestion happens
// on a separate path).
//
// Concentrations are in ppm.
type SensorReading struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	CO2       float64   `json:"co2"`
	NH3       float64   `json:"nh3"`
	CO        float64   `json:"co"`
	Smoke     float64   `json:"smoke"`
}
