// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package models

import (
	"fmt"
	"time"
)

// Alert is an emergency record raised by a user pressing the panic button.
type Alert struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	// Creator identity, populated on alert listings.
	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}

// NewAlertID builds the alert identifier from the creation instant and the
// raising user: "<epoch-millis>__<userID>". The epoch prefix keeps IDs unique
// per user and naturally ordered by creation time.
func NewAlertID(at time.Time, userID string) string {
	return fmt.Sprintf("%d__%s", at.UnixMilli(), userID)
}
