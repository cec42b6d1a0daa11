// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

// Package ai proxies chat requests to the Gemini completion API. Prompts are
// scoped to air quality topics and enriched with the latest sensor reading,
// the user's disease history and their most recent wearable vitals.
package ai
