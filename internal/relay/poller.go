// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

// Package relay polls the sensor store for new readings and pushes them to
// connected websocket clients. The poller runs as a supervised service.
package relay

import (
	"context"
	"sync"
	"time"

	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/metrics"
	"github.com/aerowatch/aerowatch/internal/models"
	"github.com/aerowatch/aerowatch/internal/websocket"
)

// Store provides the sensor readings to relay.
type Store interface {
	SensorReadingsSince(ctx context.Context, since time.Time) ([]*models.SensorReading, error)
}

// Broadcaster fans an envelope out to connected clients.
type Broadcaster interface {
	Broadcast(env websocket.Envelope) int
	Len() int
}

// Poller periodically queries for readings newer than its checkpoint and
// broadcasts them. The checkpoint only advances to the newest timestamp
// actually observed, so readings committed with slightly older timestamps
// between polls are never skipped, and a failed poll leaves the checkpoint
// untouched for retry on the next cycle.
type Poller struct {
	store       Store
	broadcaster Broadcaster
	interval    time.Duration

	mu         sync.Mutex
	checkpoint time.Time
}

// New creates a poller. Readings at or before start are never delivered.
func New(store Store, broadcaster Broadcaster, interval time.Duration, start time.Time) *Poller {
	return &Poller{
		store:       store,
		broadcaster: broadcaster,
		interval:    interval,
		checkpoint:  start,
	}
}

// String identifies the service in supervisor logs.
func (p *Poller) String() string {
	return "sensor-relay"
}

// Serve runs the poll loop until the context is canceled. Implements
// suture.Service.
func (p *Poller) Serve(ctx context.Context) error {
	logging.Info().Dur("interval", p.interval).Time("checkpoint", p.Checkpoint()).Msg("sensor relay started")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("sensor relay stopped")
			return ctx.Err()
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick performs one poll cycle. Exported so tests and tooling can drive the
// poller without the timer.
func (p *Poller) Tick(ctx context.Context) {
	checkpoint := p.Checkpoint()

	readings, err := p.store.SensorReadingsSince(ctx, checkpoint)
	if err != nil {
		// Checkpoint stays put; the next cycle retries the same window.
		logging.Error().Err(err).Time("checkpoint", checkpoint).Msg("failed to poll sensor readings")
		metrics.RelayPollsTotal.WithLabelValues("error").Inc()
		return
	}
	if len(readings) == 0 {
		metrics.RelayPollsTotal.WithLabelValues("empty").Inc()
		return
	}

	// Readings arrive newest first; deliver oldest first so clients see
	// them in chronological order.
	newest := readings[0].Timestamp
	for i := len(readings) - 1; i >= 0; i-- {
		reading := readings[i]
		if reading.Timestamp.After(newest) {
			newest = reading.Timestamp
		}
		p.broadcaster.Broadcast(websocket.Envelope{
			Type:    websocket.TypeSensorUpdate,
			Payload: reading,
		})
		metrics.RelayReadingsDelivered.Inc()
	}

	p.setCheckpoint(newest)
	metrics.RelayPollsTotal.WithLabelValues("delivered").Inc()
	metrics.RelayCheckpointTimestamp.Set(float64(newest.Unix()))

	logging.Debug().
		Int("readings", len(readings)).
		Int("clients", p.broadcaster.Len()).
		Time("checkpoint", newest).
		Msg("relayed sensor readings")
}

// Checkpoint returns the current delivery checkpoint.
func (p *Poller) Checkpoint() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checkpoint
}

func (p *Poller) setCheckpoint(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t.After(p.checkpoint) {
		p.checkpoint = t
	}
}
