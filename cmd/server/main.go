// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

// Package main is the entry point for the Aerowatch server.
//
// Aerowatch is the backend for an air-quality and health monitoring app. It
// serves the account and medical-profile REST API, relays gas sensor readings
// to connected mobile clients over websockets, and proxies user questions to
// the Gemini assistant enriched with sensor and medical context.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered settings from defaults, config.yaml, and
//     environment variables (Koanf v2)
//  2. Database: DuckDB storage for accounts, readings, chats, and alerts
//  3. Websocket registry: one live push connection per user
//  4. Authentication: session lookups against the external identity provider
//  5. AI client: Gemini completion provider for the assistant
//  6. Supervisor tree: the sensor relay poller and the HTTP server run as
//     supervised services with failure isolation between them
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the relay poller stops, websocket connections are
// closed, and the database is released.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aerowatch/aerowatch/internal/ai"
	"github.com/aerowatch/aerowatch/internal/api"
	"github.com/aerowatch/aerowatch/internal/auth"
	"github.com/aerowatch/aerowatch/internal/config"
	"github.com/aerowatch/aerowatch/internal/database"
	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/relay"
	"github.com/aerowatch/aerowatch/internal/supervisor"
	ws "github.com/aerowatch/aerowatch/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, so the default logger reports this.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("auth_provider", cfg.Auth.ProviderURL).
		Dur("relay_poll_interval", cfg.Relay.PollInterval).
		Msg("Starting Aerowatch")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	registry := ws.NewRegistry()
	authenticator := auth.NewHTTPAuthenticator(&cfg.Auth)
	completer := ai.NewGeminiClient(&cfg.AI)

	handler, err := api.New(db, authenticator, completer, registry, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build API handler")
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddRelayService(relay.New(db, registry, cfg.Relay.PollInterval, time.Now().UTC()))
	tree.AddAPIService(supervisor.NewHTTPService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Aerowatch listening")
	err = tree.Serve(ctx)

	// Push connections are torn down after the HTTP server has drained.
	registry.CloseAll()

	if err != nil && ctx.Err() == nil {
		logging.Fatal().Err(err).Msg("Supervisor tree failed")
	}
	logging.Info().Msg("Aerowatch stopped")
}
