// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aerowatch/aerowatch/internal/middleware"
)

// Router builds the full HTTP surface.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	if !h.cfg.Security.RateLimitDisabled {
		r.Use(httprate.LimitByIP(h.cfg.Security.RateLimitReqs, h.cfg.Security.RateLimitWindow))
	}

	// Public surface: health, metrics, the identity provider's own routes,
	// registration and the admin email check. The websocket handshake does
	// its own session validation before upgrading.
	r.Get("/health/live", h.handleLive)
	r.Get("/health/ready", h.handleReady)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/api/auth/*", h.authProxy)
	r.Post("/register/fill-user-information", h.handleRegisterUserInformation)
	r.Post("/admin-sign", h.handleAdminSign)
	r.Get("/ws", h.handleWebsocket)

	// Authenticated surface.
	r.Group(func(r chi.Router) {
		r.Use(h.authMW.Authenticate)

		r.Get("/my-chat", h.handleMyChat)
		r.Post("/api/profile-picture", h.handleProfilePicture)
		r.Get("/latest-reading", h.handleLatestReading)
		r.Get("/latest-wearable-reading", h.handleLatestWearableReading)
		r.Get("/non-connected-wearables", h.handleNonConnectedWearables)
		r.Post("/connect-wearable", h.handleConnectWearable)
		r.Post("/emergency", h.handleEmergency)
		r.Get("/alerts", h.handleAlerts)
		r.Post("/chat", h.handleChat)
		r.Post("/api/fill-user-information", h.handleFillUserInformation)

		r.Get("/account", h.handleAccountGet)
		r.Post("/account", h.handleAccountPost)
		r.Get("/api/account", h.handleAccountGet)
		r.Post("/api/account", h.handleAccountPost)
	})

	// Admin surface.
	r.Group(func(r chi.Router) {
		r.Use(h.authMW.Authenticate)
		r.Use(h.authMW.RequireAdmin)

		r.Get("/all-accounts", h.handleAllAccounts)
		r.Post("/verify-account", h.handleVerifyAccount)
		r.Post("/delete-account", h.handleDeleteAccount)
	})

	return r
}
