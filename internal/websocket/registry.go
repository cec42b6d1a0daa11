// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package websocket

import (
	"sort"
	"sync"

	"github.com/aerowatch/aerowatch/internal/logging"
)

// Registry tracks the live push connection per user. Each user has at most
// one client; registering a new client for the same user supersedes and
// closes the previous one.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register stores the client as the user's live connection. A previously
// registered client for the same user is closed and returned.
func (r *Registry) Register(client *Client) *Client {
	r.mu.Lock()
	previous := r.clients[client.userID]
	r.clients[client.userID] = client
	total := len(r.clients)
	r.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	logging.Info().Str("user_id", client.userID).Int("total_clients", total).Msg("websocket client connected")
	return previous
}

// Remove deletes the user's registration only if the given client is still
// the registered one. A stale connection closing after being superseded must
// not evict its successor.
func (r *Registry) Remove(userID string, client *Client) {
	r.mu.Lock()
	current, ok := r.clients[userID]
	if ok && current == client {
		delete(r.clients, userID)
	}
	total := len(r.clients)
	r.mu.Unlock()

	if ok && current == client {
		logging.Info().Str("user_id", userID).Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// Get returns the user's live client, or nil.
func (r *Registry) Get(userID string) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[userID]
}

// Len returns the number of connected users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast queues the envelope on every connected client. Clients whose
// send buffer is full have the message dropped rather than blocking the
// broadcast. Delivery iterates users in sorted order so behavior is
// reproducible under test.
func (r *Registry) Broadcast(env Envelope) int {
	clients := r.snapshot()
	delivered := 0
	for _, client := range clients {
		if client.Send(env) {
			delivered++
		}
	}
	return delivered
}

// ForEach invokes fn once per connected client, in sorted user ID order.
func (r *Registry) ForEach(fn func(client *Client)) {
	for _, client := range r.snapshot() {
		fn(client)
	}
}

// CloseAll closes every registered client and empties the registry. Used
// during shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	clients := make([]*Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}
	r.clients = make(map[string]*Client)
	r.mu.Unlock()

	sort.Slice(clients, func(i, j int) bool { return clients[i].userID < clients[j].userID })
	for _, client := range clients {
		client.Close()
	}
	logging.Info().Int("clients_closed", len(clients)).Msg("closed all websocket clients")
}

func (r *Registry) snapshot() []*Client {
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}
	r.mu.RUnlock()

	sort.Slice(clients, func(i, j int) bool { return clients[i].userID < clients[j].userID })
	return clients
}
