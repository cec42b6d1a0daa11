// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package api

import (
	"errors"
	"net/http"

	"github.com/aerowatch/aerowatch/internal/ai"
	"github.com/aerowatch/aerowatch/internal/database"
	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/models"
)

// handleMyChat returns the caller's conversation history in chronological
// order.
// GET /my-chat?id=<userId>
func (h *Handler) handleMyChat(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "no user id provided.")
		return
	}

	messages, err := h.store.ChatMessages(r.Context(), id)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", id).Msg("failed to load chat history")
		respondError(w, http.StatusInternalServerError, "failed to load chat history.")
		return
	}
	if messages == nil {
		messages = []*models.ChatMessage{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// handleChat persists the user's message, builds a prompt from the latest
// sensor reading plus the caller's medical context, asks the completion
// provider for a reply, persists it and returns it.
// POST /chat
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx := r.Context()

	if err := h.store.InsertChatMessage(ctx, &models.ChatMessage{
		UserID:  req.UserID,
		Role:    models.ChatRoleUser,
		Content: req.Message,
	}); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("user_id", req.UserID).Msg("failed to store chat message")
		respondError(w, http.StatusInternalServerError, "failed to store chat message.")
		return
	}

	prompt := ai.BuildPrompt(req.Message, h.promptContext(r, req.UserID))

	reply, err := h.completer.Generate(ctx, prompt)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("user_id", req.UserID).Msg("completion provider call failed")
		respondError(w, http.StatusInternalServerError, "failed to get a response from the AI. please try again later.")
		return
	}

	if err := h.store.InsertChatMessage(ctx, &models.ChatMessage{
		UserID:  req.UserID,
		Role:    models.ChatRoleAssistant,
		Content: reply,
	}); err != nil {
		// The reply was generated; losing the history row should not fail
		// the request.
		logging.Ctx(ctx).Error().Err(err).Str("user_id", req.UserID).Msg("failed to store assistant reply")
	}

	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// promptContext gathers the optional sensor and medical context for a chat
// prompt. Missing pieces degrade to a context-free prompt rather than
// failing the chat.
func (h *Handler) promptContext(r *http.Request, userID string) ai.PromptContext {
	ctx := r.Context()
	var pctx ai.PromptContext

	reading, err := h.store.LatestSensorReading(ctx)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to load sensor context for chat")
	} else {
		pctx.Reading = reading
	}

	user, err := h.store.GetUser(ctx, userID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("failed to load medical context for chat")
	} else {
		pctx.User = user
	}

	vitals, err := h.store.LatestWearableReading(ctx, userID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("failed to load vitals context for chat")
	} else {
		pctx.Vitals = vitals
	}

	return pctx
}
