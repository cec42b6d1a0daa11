// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package database

import (
	"context"
	"fmt"
)

// schemaStatements defines the full schema. Statements are idempotent so
// startup against an existing database file is safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		email VARCHAR NOT NULL UNIQUE,
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		role VARCHAR NOT NULL DEFAULT 'USER',
		image VARCHAR,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS user_info (
		id VARCHAR PRIMARY KEY,
		date_of_birth TIMESTAMP NOT NULL,
		district VARCHAR NOT NULL,
		height DOUBLE NOT NULL,
		phone_number VARCHAR NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS diseases (
		id VARCHAR PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		name VARCHAR NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sensor_readings (
		id VARCHAR PRIMARY KEY,
		ts TIMESTAMP NOT NULL,
		co2 DOUBLE NOT NULL,
		nh3 DOUBLE NOT NULL,
		co DOUBLE NOT NULL,
		smoke DOUBLE NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sensor_readings_ts ON sensor_readings (ts)`,

	`CREATE TABLE IF NOT EXISTS wearable_devices (
		id VARCHAR PRIMARY KEY,
		serial VARCHAR NOT NULL UNIQUE,
		user_id VARCHAR
	)`,

	`CREATE TABLE IF NOT EXISTS wearable_readings (
		id VARCHAR PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		heart_rate DOUBLE NOT NULL,
		spo2 DOUBLE NOT NULL,
		body_temperature DOUBLE NOT NULL,
		ts TIMESTAMP NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_wearable_readings_user_ts ON wearable_readings (user_id, ts)`,

	`CREATE TABLE IF NOT EXISTS chat_messages (
		id VARCHAR PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		role VARCHAR NOT NULL,
		content VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_chat_messages_user ON chat_messages (user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS alerts (
		id VARCHAR PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

// createSchema applies all schema statements in order.
func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}
