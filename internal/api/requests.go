// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package api

import "time"

// Request bodies with go-playground/validator tags. Every failed validation
// short-circuits its handler after responding.

// ProfilePictureRequest updates a user's profile picture URL.
type ProfilePictureRequest struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
	UserID   string `json:"userId" validate:"required"`
}

// AccountRequest identifies an account by ID.
type AccountRequest struct {
	ID string `json:"id" validate:"required"`
}

// ConnectWearableRequest assigns a free wearable device to a user.
type ConnectWearableRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// AdminSignRequest checks whether an email belongs to an administrator.
type AdminSignRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// EmergencyRequest raises an alert for a user.
type EmergencyRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// ChatRequest carries one chat turn.
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
}

// UserInformation is the medical profile payload shared by both
// fill-user-information variants.
type UserInformation struct {
	ID          string    `json:"id" validate:"required"`
	DateOfBirth time.Time `json:"dateOfBirth" validate:"required"`
	District    string    `json:"district" validate:"required"`
	Height      float64   `json:"height" validate:"required,gt=0"`
	PhoneNumber string    `json:"phoneNumber" validate:"required"`
}

// FillUserInformationRequest is the authenticated variant; diseases are
// objects carrying the disease name.
type FillUserInformationRequest struct {
	Information struct {
		UserInformation
		Diseases []struct {
			Disease string `json:"disease" validate:"required"`
		} `json:"diseases" validate:"dive"`
	} `json:"information" validate:"required"`
}

// RegisterUserInformationRequest is the registration variant; diseases are
// plain strings and a "medical staff" district promotes the account.
type RegisterUserInformationRequest struct {
	Information struct {
		UserInformation
		Diseases []string `json:"diseases"`
	} `json:"information" validate:"required"`
}
