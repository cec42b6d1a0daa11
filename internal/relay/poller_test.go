// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package relay

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/models"
	"github.com/aerowatch/aerowatch/internal/websocket"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

// fakeStore serves readings newer than the requested checkpoint, newest
// first, mirroring the real store's ordering.
type fakeStore struct {
	readings []*models.SensorReading
	err      error
	calls    []time.Time
}

func (f *fakeStore) SensorReadingsSince(_ context.Context, since time.Time) ([]*models.SensorReading, error) {
	f.calls = append(f.calls, since)
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.SensorReading
	for _, r := range f.readings {
		if r.Timestamp.After(since) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

type fakeBroadcaster struct {
	envelopes []websocket.Envelope
}

func (f *fakeBroadcaster) Broadcast(env websocket.Envelope) int {
	f.envelopes = append(f.envelopes, env)
	return 1
}

func (f *fakeBroadcaster) Len() int { return 1 }

func reading(ts time.Time, co2 float64) *models.SensorReading {
	return &models.SensorReading{ID: ts.Format(time.RFC3339Nano), Timestamp: ts, CO2: co2}
}

func TestTickDeliversNewReadingsInOrder(t *testing.T) {
	start := time.Now().UTC()
	t1 := start.Add(1 * time.Second)
	t2 := start.Add(2 * time.Second)
	t3 := start.Add(3 * time.Second)

	store := &fakeStore{readings: []*models.SensorReading{
		reading(t1, 401), reading(t2, 402), reading(t3, 403),
	}}
	sink := &fakeBroadcaster{}
	p := New(store, sink, time.Second, start)

	p.Tick(context.Background())

	if len(sink.envelopes) != 3 {
		t.Fatalf("expected 3 envelopes, got %d", len(sink.envelopes))
	}
	for i, wantCO2 := range []float64{401, 402, 403} {
		env := sink.envelopes[i]
		if env.Type != websocket.TypeSensorUpdate {
			t.Fatalf("unexpected envelope type %q", env.Type)
		}
		r, ok := env.Payload.(*models.SensorReading)
		if !ok {
			t.Fatalf("unexpected payload type %T", env.Payload)
		}
		if r.CO2 != wantCO2 {
			t.Fatalf("expected chronological delivery, envelope %d has co2 %v", i, r.CO2)
		}
	}
	if !p.Checkpoint().Equal(t3) {
		t.Fatalf("expected checkpoint %v, got %v", t3, p.Checkpoint())
	}
}

func TestTickAdvancesCheckpointToNewestObserved(t *testing.T) {
	start := time.Now().UTC()
	t1 := start.Add(1 * time.Second)

	store := &fakeStore{readings: []*models.SensorReading{reading(t1, 401)}}
	sink := &fakeBroadcaster{}
	p := New(store, sink, time.Second, start)

	p.Tick(context.Background())
	if !p.Checkpoint().Equal(t1) {
		t.Fatalf("expected checkpoint %v, got %v", t1, p.Checkpoint())
	}

	// A reading committed with a timestamp after t1 but before the next
	// tick must still be delivered.
	t2 := start.Add(1500 * time.Millisecond)
	store.readings = append(store.readings, reading(t2, 402))

	p.Tick(context.Background())
	if len(sink.envelopes) != 2 {
		t.Fatalf("expected late reading delivered, got %d envelopes", len(sink.envelopes))
	}
	if !p.Checkpoint().Equal(t2) {
		t.Fatalf("expected checkpoint %v, got %v", t2, p.Checkpoint())
	}
}

func TestTickEmptyBatchKeepsCheckpoint(t *testing.T) {
	start := time.Now().UTC()
	store := &fakeStore{}
	sink := &fakeBroadcaster{}
	p := New(store, sink, time.Second, start)

	p.Tick(context.Background())

	if len(sink.envelopes) != 0 {
		t.Fatalf("expected no envelopes, got %d", len(sink.envelopes))
	}
	if !p.Checkpoint().Equal(start) {
		t.Fatalf("expected unchanged checkpoint, got %v", p.Checkpoint())
	}
}

func TestTickQueryFailureRetriesSameWindow(t *testing.T) {
	start := time.Now().UTC()
	t1 := start.Add(time.Second)

	store := &fakeStore{
		readings: []*models.SensorReading{reading(t1, 401)},
		err:      errors.New("database unavailable"),
	}
	sink := &fakeBroadcaster{}
	p := New(store, sink, time.Second, start)

	p.Tick(context.Background())
	if len(sink.envelopes) != 0 {
		t.Fatal("expected no delivery on query failure")
	}
	if !p.Checkpoint().Equal(start) {
		t.Fatalf("expected checkpoint unchanged on failure, got %v", p.Checkpoint())
	}

	// Next cycle recovers and queries the same window.
	store.err = nil
	p.Tick(context.Background())
	if len(sink.envelopes) != 1 {
		t.Fatalf("expected recovery delivery, got %d envelopes", len(sink.envelopes))
	}
	if len(store.calls) != 2 || !store.calls[1].Equal(start) {
		t.Fatalf("expected retry from original checkpoint, calls %v", store.calls)
	}
}

func TestServeStopsOnContextCancel(t *testing.T) {
	store := &fakeStore{}
	p := New(store, &fakeBroadcaster{}, 10*time.Millisecond, time.Now().UTC())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Serve(ctx) }()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not stop after cancel")
	}

	if len(store.calls) == 0 {
		t.Fatal("expected at least one poll while serving")
	}
}
