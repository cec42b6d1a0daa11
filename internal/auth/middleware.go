// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package auth

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/models"
)

type contextKey string

const sessionContextKey contextKey = "session"

// UserSource resolves a full account record for role checks.
type UserSource interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Middleware enforces authentication and role requirements on HTTP routes.
type Middleware struct {
	authenticator Authenticator
	users         UserSource
}

// NewMiddleware creates authentication middleware backed by the given
// session authenticator and account source.
func NewMiddleware(authenticator Authenticator, users UserSource) *Middleware {
	return &Middleware{authenticator: authenticator, users: users}
}

// SessionFromContext returns the session attached by Authenticate, or nil.
func SessionFromContext(ctx context.Context) *models.Session {
	session, _ := ctx.Value(sessionContextKey).(*models.Session)
	return session
}

// ContextWithSession attaches a session to the context. Exported for handler
// tests that bypass the middleware chain.
func ContextWithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// Authenticate rejects requests without a live session and stores the
// resolved session in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.authenticator.Session(r.Context(), r.Header)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Request rejected without session")
			writeMessage(w, http.StatusUnauthorized, "not authenticated.")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
	})
}

// RequireAdmin rejects authenticated requests whose account does not hold
// the administrator role. Must run after Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		if session == nil {
			writeMessage(w, http.StatusUnauthorized, "not authenticated.")
			return
		}

		user, err := m.users.GetUser(r.Context(), session.UserID)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("user_id", session.UserID).Msg("Failed to resolve account for role check")
			writeMessage(w, http.StatusUnauthorized, "not authorized.")
			return
		}
		if !user.IsAdmin() {
			writeMessage(w, http.StatusUnauthorized, "not authorized.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
