package cache

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a")
	}
	c.Set("c", "3")
	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("a should survive, got %q %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
	c := NewLRUCache[int](10, time.Minute, WithClock(clock.Now))
	c.Set("a", 1)
	c.Set("b", 2)

	clock.t = clock.t.Add(30 * time.Second)
	if !c.Touch("a") {
		t.Fatalf("touch should succeed")
	}
	clock.t = clock.t.Add(45 * time.Second)
	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should be expired")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("a was touched and should be alive")
	}

	clock.t = clock.t.Add(2 * time.Minute)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("expected 1 cleaned, got %d", n)
	}
	s := c.Stats()
	if s.Size != 0 || s.Hits != 1 || s.Misses != 1 {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestJanitorSweep(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
	c := NewLRUCache[int](10, time.Second, WithClock(clock.Now))
	c.Set("a", 1)
	j := NewJanitor()
	j.Register("test", c)

	clock.t = clock.t.Add(time.Hour)
	if n := j.Sweep(context.Background()); n != 1 {
		t.Fatalf("expected 1 swept, got %d", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := j.Run(ctx, time.Millisecond); err != nil {
		t.Fatalf("run: %v", err)
	}
}
