// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

// Package api implements the HTTP surface: account and medical profile
// endpoints, sensor and wearable queries, emergency alerts, the AI chat
// proxy, the websocket upgrade endpoint and the identity provider proxy.
package api
