// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package api

import (
	"context"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/aerowatch/aerowatch/internal/ai"
	"github.com/aerowatch/aerowatch/internal/auth"
	"github.com/aerowatch/aerowatch/internal/cache"
	"github.com/aerowatch/aerowatch/internal/config"
	"github.com/aerowatch/aerowatch/internal/models"
	"github.com/aerowatch/aerowatch/internal/websocket"
)

// Store is the data access surface the handlers depend on. *database.DB
// satisfies it; tests substitute fakes.
type Store interface {
	Ping(ctx context.Context) error

	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListNonAdminUsers(ctx context.Context) ([]*models.User, error)
	UpdateUserImage(ctx context.Context, userID, image string) error
	VerifyUser(ctx context.Context, userID string) error
	SetUserRole(ctx context.Context, userID, role string) error
	UpsertUserInfo(ctx context.Context, userID string, info *models.UserInfo) error
	ReplaceDiseases(ctx context.Context, userID string, names []string) error

	LatestSensorReading(ctx context.Context) (*models.SensorReading, error)

	LatestWearableReading(ctx context.Context, userID string) (*models.WearableReading, error)
	UnassignedWearables(ctx context.Context) ([]*models.WearableDevice, error)
	AssignedWearables(ctx context.Context) ([]*models.WearableDevice, error)
	ConnectWearable(ctx context.Context, userID, serial string) (*models.WearableDevice, error)

	ChatMessages(ctx context.Context, userID string) ([]*models.ChatMessage, error)
	InsertChatMessage(ctx context.Context, m *models.ChatMessage) error

	CreateAlert(ctx context.Context, userID string, at time.Time) (*models.Alert, error)
	ListAlerts(ctx context.Context) ([]*models.Alert, error)
}

// overviewCacheTTL bounds staleness of the admin wearable overview between
// explicit invalidations.
const overviewCacheTTL = 30 * time.Second

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	store         Store
	authenticator auth.Authenticator
	authMW        *auth.Middleware
	completer     ai.Completer
	registry      *websocket.Registry
	cfg           *config.Config
	authProxy     http.Handler
	overviewCache *cache.Cache
}

// New creates the handler set. The identity provider's own route surface is
// reverse-proxied under /api/auth/.
func New(store Store, authenticator auth.Authenticator, completer ai.Completer, registry *websocket.Registry, cfg *config.Config) (*Handler, error) {
	target, err := url.Parse(cfg.Auth.ProviderURL)
	if err != nil {
		return nil, err
	}

	return &Handler{
		store:         store,
		authenticator: authenticator,
		authMW:        auth.NewMiddleware(authenticator, store),
		completer:     completer,
		registry:      registry,
		cfg:           cfg,
		authProxy:     httputil.NewSingleHostReverseProxy(target),
		overviewCache: cache.New(overviewCacheTTL),
	}, nil
}
