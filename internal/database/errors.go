// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package database

import (
	"errors"
	"io"
)

// Sentinel errors returned by store methods.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoDeviceAvailable indicates no unassigned wearable device is left.
	ErrNoDeviceAvailable = errors.New("no wearable device available")

	// ErrAlreadyConnected indicates the user already has a wearable assigned.
	ErrAlreadyConnected = errors.New("user already has a connected wearable")
)

// closeQuietly closes a resource and explicitly ignores any error. Used in
// error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
