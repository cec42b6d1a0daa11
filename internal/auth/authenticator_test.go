// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aerowatch/aerowatch/internal/config"
	"github.com/aerowatch/aerowatch/internal/logging"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

func newProviderServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *HTTPAuthenticator) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	authenticator := NewHTTPAuthenticator(&config.AuthConfig{
		ProviderURL: server.URL,
		Timeout:     2 * time.Second,
	})
	return server, authenticator
}

func TestSessionResolvesUser(t *testing.T) {
	var gotCookie, gotAuthz string
	_, authenticator := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/get-session" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotCookie = r.Header.Get("Cookie")
		gotAuthz = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"session":{"id":"s1"},"user":{"id":"u1","email":"rahim@example.com"}}`))
	})

	header := http.Header{}
	header.Set("Cookie", "better-auth.session_token=abc")
	header.Set("Authorization", "Bearer xyz")

	session, err := authenticator.Session(context.Background(), header)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if session.UserID != "u1" || session.Email != "rahim@example.com" {
		t.Fatalf("unexpected session %+v", session)
	}
	if gotCookie != "better-auth.session_token=abc" {
		t.Fatalf("expected cookie forwarded, got %q", gotCookie)
	}
	if gotAuthz != "Bearer xyz" {
		t.Fatalf("expected authorization forwarded, got %q", gotAuthz)
	}
}

func TestSessionNullBody(t *testing.T) {
	_, authenticator := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`null`))
	})

	_, err := authenticator.Session(context.Background(), http.Header{})
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionUnauthorizedStatus(t *testing.T) {
	_, authenticator := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := authenticator.Session(context.Background(), http.Header{})
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionProviderError(t *testing.T) {
	_, authenticator := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := authenticator.Session(context.Background(), http.Header{})
	if err == nil || errors.Is(err, ErrNoSession) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestSessionMissingUser(t *testing.T) {
	_, authenticator := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"session":null,"user":null}`))
	})

	_, err := authenticator.Session(context.Background(), http.Header{})
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
