// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

// Package models defines the domain types shared across the Aerowatch server:
// user accounts and medical profiles, sensor readings, wearable vitals, chat
// messages, and emergency alerts. Types here carry only data and JSON tags;
// persistence lives in internal/database and behavior in the packages that
// consume them.
package models
