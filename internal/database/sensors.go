// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aerowatch/aerowatch/internal/models"
)

// LatestSensorReading returns the most recent air quality reading.
func (db *DB) LatestSensorReading(ctx context.Context) (*models.SensorReading, error) {
	r := &models.SensorReading{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, ts, co2, nh3, co, smoke
		 FROM sensor_readings ORDER BY ts DESC LIMIT 1`).
		Scan(&r.ID, &r.Timestamp, &r.CO2, &r.NH3, &r.CO, &r.Smoke)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest sensor reading: %w", err)
	}
	return r, nil
}

// SensorReadingsSince returns all readings with a timestamp strictly after
// the given checkpoint, newest first.
func (db *DB) SensorReadingsSince(ctx context.Context, since time.Time) ([]*models.SensorReading, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, ts, co2, nh3, co, smoke
		 FROM sensor_readings WHERE ts > ? ORDER BY ts DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query sensor readings: %w", err)
	}
	defer closeQuietly(rows)

	var readings []*models.SensorReading
	for rows.Next() {
		r := &models.SensorReading{}
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.CO2, &r.NH3, &r.CO, &r.Smoke); err != nil {
			return nil, fmt.Errorf("failed to scan sensor reading: %w", err)
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sensor readings: %w", err)
	}
	return readings, nil
}

// InsertSensorReading stores a reading. Ingestion happens out of band in
// production; this is used by tooling and tests.
func (db *DB) InsertSensorReading(ctx context.Context, r *models.SensorReading) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sensor_readings (id, ts, co2, nh3, co, smoke)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp, r.CO2, r.NH3, r.CO, r.Smoke)
	if err != nil {
		return fmt.Errorf("failed to insert sensor reading: %w", err)
	}
	return nil
}
