// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

// Package supervisor wires the long-running Aerowatch services (the sensor
// relay poller and the HTTP server) into a suture supervision tree with
// failure isolation between the relay and API layers.
package supervisor
