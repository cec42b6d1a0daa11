// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package websocket

import (
	"io"
	"testing"

	"github.com/aerowatch/aerowatch/internal/logging"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

// newIdleClient builds a client that never starts its pumps, so the send
// channel can be inspected directly.
func newIdleClient(r *Registry, userID string) *Client {
	return NewClient(r, nil, userID)
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	c := newIdleClient(r, "u1")

	if prev := r.Register(c); prev != nil {
		t.Fatalf("expected no previous client, got %v", prev)
	}
	if got := r.Get("u1"); got != c {
		t.Fatal("expected registered client")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 client, got %d", r.Len())
	}
	if r.Get("u2") != nil {
		t.Fatal("expected nil for unknown user")
	}
}

func TestRegisterSupersedesPrevious(t *testing.T) {
	r := NewRegistry()
	first := newIdleClient(r, "u1")
	second := newIdleClient(r, "u1")

	r.Register(first)
	prev := r.Register(second)

	if prev != first {
		t.Fatal("expected first client returned as superseded")
	}
	if r.Get("u1") != second {
		t.Fatal("expected second client to be live")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 client, got %d", r.Len())
	}

	r.ForEach(func(c *Client) {
		if c == first {
			t.Fatal("superseded client must not be visible to ForEach")
		}
	})

	// The superseded client's send channel must be closed.
	select {
	case _, ok := <-first.send:
		if ok {
			t.Fatal("expected closed send channel on superseded client")
		}
	default:
		t.Fatal("expected closed send channel on superseded client")
	}
}

func TestRemoveIdentityGuard(t *testing.T) {
	r := NewRegistry()
	first := newIdleClient(r, "u1")
	second := newIdleClient(r, "u1")

	r.Register(first)
	r.Register(second)

	// The stale first connection closing must not evict its successor.
	r.Remove("u1", first)
	if r.Get("u1") != second {
		t.Fatal("expected successor to survive stale remove")
	}

	r.Remove("u1", second)
	if r.Get("u1") != nil {
		t.Fatal("expected client removed")
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

func TestBroadcastDeliversToAllClients(t *testing.T) {
	r := NewRegistry()
	a := newIdleClient(r, "a")
	b := newIdleClient(r, "b")
	r.Register(a)
	r.Register(b)

	delivered := r.Broadcast(Envelope{Type: TypeSensorUpdate, Payload: "x"})
	if delivered != 2 {
		t.Fatalf("expected delivery to 2 clients, got %d", delivered)
	}

	for _, c := range []*Client{a, b} {
		select {
		case env := <-c.send:
			if env.Type != TypeSensorUpdate {
				t.Fatalf("unexpected envelope type %q", env.Type)
			}
		default:
			t.Fatalf("expected envelope queued for %s", c.UserID())
		}
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	r := NewRegistry()
	c := newIdleClient(r, "u1")
	r.Register(c)

	for i := 0; i < sendBufferSize; i++ {
		if !c.Send(Envelope{Type: TypeSensorUpdate}) {
			t.Fatalf("expected send %d to succeed", i)
		}
	}

	if delivered := r.Broadcast(Envelope{Type: TypeSensorUpdate}); delivered != 0 {
		t.Fatalf("expected drop on full buffer, delivered %d", delivered)
	}
}

func TestSendAfterCloseDoesNotPanic(t *testing.T) {
	r := NewRegistry()
	c := newIdleClient(r, "u1")
	c.Close()
	c.Close() // idempotent

	if c.Send(Envelope{Type: TypeSensorUpdate}) {
		t.Fatal("expected send on closed client to report failure")
	}
}

func TestCloseAll(t *testing.T) {
	r := NewRegistry()
	a := newIdleClient(r, "a")
	b := newIdleClient(r, "b")
	r.Register(a)
	r.Register(b)

	r.CloseAll()
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
	for _, c := range []*Client{a, b} {
		if _, ok := <-c.send; ok {
			t.Fatalf("expected closed send channel for %s", c.UserID())
		}
	}
}

func TestMarshalEnvelope(t *testing.T) {
	data, err := MarshalEnvelope(Envelope{Type: TypeWelcome})
	if err != nil {
		t.Fatalf("MarshalEnvelope: %v", err)
	}
	if string(data) != `{"type":"welcome"}` {
		t.Fatalf("unexpected JSON %s", data)
	}
}
