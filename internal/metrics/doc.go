// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

// Package metrics provides Prometheus instrumentation for the HTTP API,
// websocket push connections, the sensor relay and outbound dependencies.
package metrics
