// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package models

import "time"

// Roles assigned to user accounts. Registration produces USER accounts;
// MEDICAL_STAFF is granted during profile completion, ADMIN out of band.
const (
	RoleUser         = "USER"
	RoleAdmin        = "ADMIN"
	RoleMedicalStaff = "MEDICAL_STAFF"
)

// User is an application account. Authentication itself is delegated to the
// external session provider; this row carries identity and authorization
// state only.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	Role          string    `json:"role"`
	Image         string    `json:"image,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`

	// Populated on profile reads; nil/empty when not requested.
	Info     *UserInfo `json:"userInfo,omitempty"`
	Diseases []Disease `json:"diseases,omitempty"`
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserInfo is the medical profile attached to a user at registration.
// Its ID equals the owning user's ID.
type UserInfo struct {
	ID          string    `json:"id"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	District    string    `json:"district"`
	Height      float64   `json:"height"`
	PhoneNumber string    `json:"phoneNumber"`
}

// Disease is a known medical condition of a user, used as chat prompt context.
type Disease struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"disease"`
}

// Session is the identity the external session provider yields for an
// authenticated request. Absence of a session means the request is anonymous.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
