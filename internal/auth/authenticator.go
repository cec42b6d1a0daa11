// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/aerowatch/aerowatch/internal/config"
	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/metrics"
	"github.com/aerowatch/aerowatch/internal/models"
)

// ErrNoSession indicates the request carries no valid session.
var ErrNoSession = errors.New("no active session")

// Authenticator resolves the session attached to an incoming request.
type Authenticator interface {
	Session(ctx context.Context, header http.Header) (*models.Session, error)
}

// HTTPAuthenticator validates sessions against the external identity
// provider's get-session endpoint, forwarding the request's cookies and
// bearer token. Provider calls run behind a circuit breaker.
type HTTPAuthenticator struct {
	providerURL string
	client      *http.Client
	cb          *gobreaker.CircuitBreaker[*models.Session]
	name        string
}

// NewHTTPAuthenticator creates an authenticator for the configured identity
// provider.
func NewHTTPAuthenticator(cfg *config.AuthConfig) *HTTPAuthenticator {
	cbName := "auth-provider"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*models.Session](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("Auth provider circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
		// A request without a session is a normal outcome, not a provider
		// failure. Only transport and server errors count toward tripping.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoSession)
		},
	})

	return &HTTPAuthenticator{
		providerURL: strings.TrimRight(cfg.ProviderURL, "/"),
		client:      &http.Client{Timeout: cfg.Timeout},
		cb:          cb,
		name:        cbName,
	}
}

// sessionEnvelope mirrors the provider's get-session response body.
type sessionEnvelope struct {
	User *struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// Session resolves the session for the given request headers. Returns
// ErrNoSession when the provider reports no live session.
func (a *HTTPAuthenticator) Session(ctx context.Context, header http.Header) (*models.Session, error) {
	start := time.Now()
	session, err := a.cb.Execute(func() (*models.Session, error) {
		return a.fetchSession(ctx, header)
	})
	switch {
	case err == nil:
		metrics.RecordUpstreamRequest(a.name, "success", time.Since(start))
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordUpstreamRequest(a.name, "rejected", time.Since(start))
	default:
		metrics.RecordUpstreamRequest(a.name, "failure", time.Since(start))
	}
	return session, err
}

func (a *HTTPAuthenticator) fetchSession(ctx context.Context, header http.Header) (*models.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.providerURL+"/api/auth/get-session", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}

	// The provider identifies the caller from the original request's
	// credentials, so they are forwarded verbatim.
	for _, cookie := range header.Values("Cookie") {
		req.Header.Add("Cookie", cookie)
	}
	if authz := header.Get("Authorization"); authz != "" {
		req.Header.Set("Authorization", authz)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach identity provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrNoSession
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read session response: %w", err)
	}

	// The provider answers 200 with a null body when no session exists.
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil, ErrNoSession
	}

	var envelope sessionEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	if envelope.User == nil || envelope.User.ID == "" {
		return nil, ErrNoSession
	}

	return &models.Session{
		UserID: envelope.User.ID,
		Email:  envelope.User.Email,
	}, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
