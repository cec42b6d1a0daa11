// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "v")

	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("expected hit with %q, got %v (%v)", "v", got, ok)
	}
	if _, ok := c.Get("absent"); ok {
		t.Fatal("expected miss for absent key")
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestExpiration(t *testing.T) {
	c := New(time.Minute)
	c.SetWithTTL("k", "v", 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if stats := c.GetStats(); stats.Evictions != 1 {
		t.Fatalf("expected eviction recorded, got %+v", stats)
	}
}

func TestDeleteAndClear(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected deleted key to miss")
	}

	c.Clear()
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected cleared cache to miss")
	}
	if stats := c.GetStats(); stats.TotalKeys != 0 {
		t.Fatalf("expected empty cache, got %+v", stats)
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	c := New(time.Minute)
	c.SetWithTTL("old", 1, -time.Second)
	c.Set("fresh", 2)

	c.sweep()

	c.mu.RLock()
	_, oldThere := c.entries["old"]
	_, freshThere := c.entries["fresh"]
	c.mu.RUnlock()
	if oldThere || !freshThere {
		t.Fatalf("sweep kept old=%v fresh=%v", oldThere, freshThere)
	}
}
