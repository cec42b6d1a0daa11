// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

// Package websocket manages the per-user push connections that receive
// sensor updates. A Registry maps each user ID to at most one live Client;
// a new connection for the same user supersedes and closes the previous one.
package websocket
