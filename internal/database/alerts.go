// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/aerowatch/aerowatch/internal/models"
)

// CreateAlert records an emergency alert raised by a user. The alert ID is
// derived from the creation time and user ID so repeated rapid triggers from
// the same user within a millisecond collapse into one record.
func (db *DB) CreateAlert(ctx context.Context, userID string, at time.Time) (*models.Alert, error) {
	alert := &models.Alert{
		ID:        models.NewAlertID(at, userID),
		UserID:    userID,
		CreatedAt: at,
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO alerts (id, user_id, created_at) VALUES (?, ?, ?)`,
		alert.ID, alert.UserID, alert.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	return alert, nil
}

// ListAlerts returns all alerts newest first, each joined with the raising
// user's name and email for the responder view.
func (db *DB) ListAlerts(ctx context.Context) ([]*models.Alert, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT a.id, a.user_id, a.created_at, u.name, u.email
		 FROM alerts a JOIN users u ON u.id = a.user_id
		 ORDER BY a.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer closeQuietly(rows)

	var alerts []*models.Alert
	for rows.Next() {
		a := &models.Alert{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.CreatedAt, &a.UserName, &a.UserEmail); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}
	return alerts, nil
}
