package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_Reserve(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	window := Window{MaxCalls: 3, Period: time.Second}
	base := time.Unix(1700000000, 0)

	// First three calls fit in the window
	for i := 0; i < 3; i++ {
		wait, err := store.Reserve(ctx, "scryfall", window, base.Add(time.Duration(i)*100*time.Millisecond))
		if err != nil {
			t.Fatalf("Reserve() error = %v", err)
		}
		if wait != 0 {
			t.Fatalf("call %d: wait = %v, want 0", i, wait)
		}
	}

	// Fourth call must wait until the first leaves the window
	wait, err := store.Reserve(ctx, "scryfall", window, base.Add(500*time.Millisecond))
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if wait != 500*time.Millisecond {
		t.Errorf("wait = %v, want 500ms", wait)
	}

	// Exactly one period after the first call a slot frees up
	wait, _ = store.Reserve(ctx, "scryfall", window, base.Add(time.Second))
	if wait != 0 {
		t.Errorf("wait after period = %v, want 0", wait)
	}
}

func TestMemoryStore_UpstreamsIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	window := Window{MaxCalls: 1, Period: time.Minute}
	now := time.Now()

	if wait, _ := store.Reserve(ctx, "mtgjson", window, now); wait != 0 {
		t.Fatalf("mtgjson wait = %v, want 0", wait)
	}
	if wait, _ := store.Reserve(ctx, "scryfall", window, now); wait != 0 {
		t.Errorf("scryfall should not share mtgjson's window, wait = %v", wait)
	}
	if wait, _ := store.Reserve(ctx, "mtgjson", window, now); wait == 0 {
		t.Error("second mtgjson call should wait")
	}
}

func TestMemoryStore_InFlight(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	window := Window{MaxCalls: 5, Period: time.Second}
	base := time.Now()

	store.Reserve(ctx, "vectors", window, base)
	store.Reserve(ctx, "vectors", window, base.Add(600*time.Millisecond))

	if got := store.InFlight("vectors", window, base.Add(700*time.Millisecond)); got != 2 {
		t.Errorf("InFlight() = %d, want 2", got)
	}
	if got := store.InFlight("vectors", window, base.Add(1200*time.Millisecond)); got != 1 {
		t.Errorf("InFlight() after expiry = %d, want 1", got)
	}
}
