// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024

	sendBufferSize = 256
)

// Client wraps one user's websocket connection.
type Client struct {
	userID   string
	conn     *websocket.Conn
	registry *Registry
	send     chan Envelope

	closeOnce sync.Once
}

// NewClient creates a client for the given user's connection. The client is
// inert until Start is called.
func NewClient(registry *Registry, conn *websocket.Conn, userID string) *Client {
	return &Client{
		userID:   userID,
		conn:     conn,
		registry: registry,
		send:     make(chan Envelope, sendBufferSize),
	}
}

// UserID returns the owning user's ID.
func (c *Client) UserID() string {
	return c.userID
}

// Send queues an envelope for delivery. Returns false if the client's send
// buffer is full or already closed; the envelope is dropped in that case.
func (c *Client) Send(env Envelope) bool {
	defer func() {
		// Send may race with Close; a send on the closed channel is
		// treated as a dropped message rather than a crash.
		if recover() != nil {
			metrics.WebsocketSendFailures.Inc()
		}
	}()

	select {
	case c.send <- env:
		metrics.WebsocketMessagesSent.WithLabelValues(env.Type).Inc()
		return true
	default:
		metrics.WebsocketSendFailures.Inc()
		logging.Warn().Str("user_id", c.userID).Str("type", env.Type).Msg("websocket send buffer full, dropping message")
		return false
	}
}

// Close shuts down the client's send channel exactly once. The write pump
// then sends a close frame and tears down the connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// Start begins the read and write pumps.
func (c *Client) Start() {
	metrics.WebsocketConnections.Inc()
	go c.writePump()
	go c.readPump()
}

// readPump consumes inbound frames. Clients only ever send ping envelopes;
// everything else is ignored. Exiting the loop removes the client from the
// registry.
func (c *Client) readPump() {
	defer func() {
		c.registry.Remove(c.userID, c)
		c.Close()
		_ = c.conn.Close()
		metrics.WebsocketConnections.Dec()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logging.Warn().Err(err).Str("user_id", c.userID).Msg("unexpected websocket close")
			}
			return
		}
		if env.Type == TypePing {
			c.Send(Envelope{Type: TypePong})
		}
	}
}

// writePump drains the send channel to the connection and keeps the
// connection alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				logging.Debug().Err(err).Str("user_id", c.userID).Msg("failed to write websocket message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
