// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

// Package middleware provides HTTP middleware shared across the router:
// request ID propagation and Prometheus instrumentation.
package middleware
