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

	"github.com/google/uuid"

	"github.com/aerowatch/aerowatch/internal/models"
)

// CreateWearableDevice registers a device in the fleet. An unassigned device
// has an empty UserID.
func (db *DB) CreateWearableDevice(ctx context.Context, device *models.WearableDevice) error {
	if device.ID == "" {
		device.ID = uuid.NewString()
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO wearable_devices (id, serial, user_id) VALUES (?, ?, ?)`,
		device.ID, device.Serial, nullableString(device.UserID))
	if err != nil {
		return fmt.Errorf("failed to create wearable device: %w", err)
	}
	return nil
}

// UnassignedWearables returns all devices without an owner, ordered by serial.
func (db *DB) UnassignedWearables(ctx context.Context) ([]*models.WearableDevice, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, serial, user_id FROM wearable_devices
		 WHERE user_id IS NULL ORDER BY serial`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wearable devices: %w", err)
	}
	defer closeQuietly(rows)

	var devices []*models.WearableDevice
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wearable devices: %w", err)
	}
	return devices, nil
}

// AssignedWearables returns all devices with an owner, ordered by serial.
func (db *DB) AssignedWearables(ctx context.Context) ([]*models.WearableDevice, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, serial, user_id FROM wearable_devices
		 WHERE user_id IS NOT NULL ORDER BY serial`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wearable devices: %w", err)
	}
	defer closeQuietly(rows)

	var devices []*models.WearableDevice
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wearable devices: %w", err)
	}
	return devices, nil
}

// ConnectWearable assigns the device with the given serial to the user. The
// device must currently be unassigned and the user must not already own one.
func (db *DB) ConnectWearable(ctx context.Context, userID, serial string) (*models.WearableDevice, error) {
	var owned int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM wearable_devices WHERE user_id = ?`, userID).
		Scan(&owned); err != nil {
		return nil, fmt.Errorf("failed to check wearable ownership: %w", err)
	}
	if owned > 0 {
		return nil, ErrAlreadyConnected
	}

	device, err := scanDevice(db.conn.QueryRowContext(ctx,
		`SELECT id, serial, user_id FROM wearable_devices
		 WHERE serial = ? AND user_id IS NULL`, serial))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoDeviceAvailable
	}
	if err != nil {
		return nil, err
	}

	if err := db.execOne(ctx,
		`UPDATE wearable_devices SET user_id = ? WHERE id = ? AND user_id IS NULL`,
		userID, device.ID); err != nil {
		return nil, err
	}
	device.UserID = userID
	return device, nil
}

// LatestWearableReading returns the user's most recent vitals sample.
func (db *DB) LatestWearableReading(ctx context.Context, userID string) (*models.WearableReading, error) {
	r := &models.WearableReading{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, heart_rate, spo2, body_temperature, ts
		 FROM wearable_readings WHERE user_id = ? ORDER BY ts DESC LIMIT 1`, userID).
		Scan(&r.ID, &r.UserID, &r.HeartRate, &r.SpO2, &r.BodyTemperature, &r.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest wearable reading: %w", err)
	}
	return r, nil
}

// InsertWearableReading stores a vitals sample for a user.
func (db *DB) InsertWearableReading(ctx context.Context, r *models.WearableReading) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO wearable_readings (id, user_id, heart_rate, spo2, body_temperature, ts)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.HeartRate, r.SpO2, r.BodyTemperature, r.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert wearable reading: %w", err)
	}
	return nil
}

func scanDevice(row rowScanner) (*models.WearableDevice, error) {
	d := &models.WearableDevice{}
	var userID sql.NullString
	err := row.Scan(&d.ID, &d.Serial, &userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan wearable device: %w", err)
	}
	d.UserID = userID.String
	return d, nil
}
