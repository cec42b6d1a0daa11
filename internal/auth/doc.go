// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

// Package auth resolves request sessions against the external identity
// provider and exposes HTTP middleware enforcing authentication and role
// requirements.
//
// Aerowatch does not mint credentials itself. Sign up, sign in and session
// cookies are owned by the identity provider; this package only asks the
// provider whether the cookies or bearer token on an incoming request map to
// a live session. Provider calls run behind a circuit breaker so an identity
// provider outage degrades to fast 401s instead of piled-up timeouts.
package auth
