// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aerowatch/aerowatch/internal/database"
	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/models"
)

// medicalStaffDistrict is the sentinel district value that promotes an
// account during registration.
const medicalStaffDistrict = "medical staff"

// handleAccountGet returns a user with their medical profile and diseases.
// GET /account?id=<userId>, GET /api/account?id=<userId>
func (h *Handler) handleAccountGet(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "no user id provided.")
		return
	}
	h.respondAccount(w, r, id)
}

// handleAccountPost is the body-carrying variant of the account lookup.
// POST /account, POST /api/account
func (h *Handler) handleAccountPost(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.respondAccount(w, r, req.ID)
}

func (h *Handler) respondAccount(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.store.GetUser(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no user found.")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", id).Msg("failed to load account")
		respondError(w, http.StatusInternalServerError, "failed to load account.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// handleProfilePicture stores a new profile picture URL.
// POST /api/profile-picture
func (h *Handler) handleProfilePicture(w http.ResponseWriter, r *http.Request) {
	var req ProfilePictureRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.store.UpdateUserImage(r.Context(), req.UserID, req.ImageURL)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no user found.")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", req.UserID).Msg("failed to update profile picture")
		respondError(w, http.StatusInternalServerError, "failed to update profile picture.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "profile picture updated."})
}

// handleFillUserInformation stores the medical profile for an existing
// account.
// POST /api/fill-user-information
func (h *Handler) handleFillUserInformation(w http.ResponseWriter, r *http.Request) {
	var req FillUserInformationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	names := make([]string, 0, len(req.Information.Diseases))
	for _, d := range req.Information.Diseases {
		names = append(names, d.Disease)
	}

	if !h.saveUserInformation(w, r, &req.Information.UserInformation, names, false) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "information added successfully."})
}

// handleRegisterUserInformation is the registration-time variant. A district
// of "medical staff" promotes the account to the medical staff role.
// POST /register/fill-user-information
func (h *Handler) handleRegisterUserInformation(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserInformationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if !h.saveUserInformation(w, r, &req.Information.UserInformation, req.Information.Diseases, true) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "information added successfully."})
}

// saveUserInformation persists the profile and disease list. Reports false
// when an error response was already written.
func (h *Handler) saveUserInformation(w http.ResponseWriter, r *http.Request, info *UserInformation, diseases []string, promoteMedicalStaff bool) bool {
	ctx := r.Context()

	record := &models.UserInfo{
		DateOfBirth: info.DateOfBirth,
		District:    info.District,
		Height:      info.Height,
		PhoneNumber: info.PhoneNumber,
	}
	if err := h.store.UpsertUserInfo(ctx, info.ID, record); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("user_id", info.ID).Msg("failed to store user information")
		respondError(w, http.StatusInternalServerError, "failed to store user information.")
		return false
	}

	if promoteMedicalStaff && strings.EqualFold(info.District, medicalStaffDistrict) {
		if err := h.store.SetUserRole(ctx, info.ID, models.RoleMedicalStaff); err != nil && !errors.Is(err, database.ErrNotFound) {
			logging.Ctx(ctx).Error().Err(err).Str("user_id", info.ID).Msg("failed to promote medical staff account")
			respondError(w, http.StatusInternalServerError, "failed to store user information.")
			return false
		}
	}

	if len(diseases) > 0 {
		if err := h.store.ReplaceDiseases(ctx, info.ID, diseases); err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("user_id", info.ID).Msg("failed to store diseases")
			respondError(w, http.StatusInternalServerError, "failed to store user information.")
			return false
		}
	}
	return true
}

// handleAllAccounts lists every non-administrator account.
// GET /all-accounts (admin)
func (h *Handler) handleAllAccounts(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListNonAdminUsers(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to list accounts")
		respondError(w, http.StatusInternalServerError, "failed to list accounts.")
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// handleVerifyAccount marks an account's email as verified.
// POST /verify-account (admin)
func (h *Handler) handleVerifyAccount(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.store.GetUser(r.Context(), req.ID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "user doesn't exist.")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", req.ID).Msg("failed to load account for verification")
		respondError(w, http.StatusInternalServerError, "failed to verify account.")
		return
	}
	if user.EmailVerified {
		respondError(w, http.StatusBadRequest, "user already verified.")
		return
	}

	if err := h.store.VerifyUser(r.Context(), req.ID); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", req.ID).Msg("failed to verify account")
		respondError(w, http.StatusInternalServerError, "failed to verify account.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "user verified."})
}

// handleDeleteAccount validates the target account but intentionally does
// not delete anything; account removal is handled by the identity provider.
// POST /delete-account (admin)
func (h *Handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	_, err := h.store.GetUser(r.Context(), req.ID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "user doesn't exist.")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", req.ID).Msg("failed to load account for deletion")
		respondError(w, http.StatusInternalServerError, "failed to delete account.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully."})
}

// handleAdminSign reports whether the given email belongs to an
// administrator. The password is required but not verified here; credential
// checks belong to the identity provider.
// POST /admin-sign
func (h *Handler) handleAdminSign(w http.ResponseWriter, r *http.Request) {
	var req AdminSignRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no user found.")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to load account for admin check")
		respondError(w, http.StatusInternalServerError, "failed to check account.")
		return
	}
	if !user.IsAdmin() {
		respondError(w, http.StatusUnauthorized, "not authorized.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "admin verified."})
}
