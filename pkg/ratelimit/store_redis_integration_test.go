//go:build integration

package ratelimit

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container and returns a client
func setupRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func TestRedisStore_Integration_Reserve(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	store := NewRedisStore(redisClient)
	ctx := context.Background()
	window := Window{MaxCalls: 2, Period: time.Second}
	base := time.Now()

	for i := 0; i < 2; i++ {
		wait, err := store.Reserve(ctx, "scryfall", window, base.Add(time.Duration(i)*100*time.Millisecond))
		if err != nil {
			t.Fatalf("Reserve() error = %v", err)
		}
		if wait != 0 {
			t.Fatalf("call %d: wait = %v, want 0", i, wait)
		}
	}

	wait, err := store.Reserve(ctx, "scryfall", window, base.Add(400*time.Millisecond))
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if wait < 590*time.Millisecond || wait > 600*time.Millisecond {
		t.Errorf("wait = %v, want ~600ms", wait)
	}

	if err := store.Reset(ctx, "scryfall"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	wait, _ = store.Reserve(ctx, "scryfall", window, base.Add(500*time.Millisecond))
	if wait != 0 {
		t.Errorf("wait after reset = %v, want 0", wait)
	}
}

// Two limiters stand in for two processes sharing one Redis.
func TestRedisStore_Integration_SharedAcrossLimiters(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	window := Window{MaxCalls: 3, Period: 200 * time.Millisecond}
	var (
		mu       sync.Mutex
		admitted []time.Time
	)

	limiters := make([]*Limiter, 2)
	for i := range limiters {
		limiters[i] = NewLimiter(NewRedisStore(redisClient), zerolog.Nop())
		if err := limiters[i].SetWindow("mtgjson", window); err != nil {
			t.Fatal(err)
		}
	}

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(l *Limiter) {
			defer wg.Done()
			if err := l.Acquire(ctx, "mtgjson"); err != nil {
				t.Errorf("Acquire() error = %v", err)
				return
			}
			mu.Lock()
			admitted = append(admitted, time.Now())
			mu.Unlock()
		}(limiters[i%2])
	}
	wg.Wait()

	sort.Slice(admitted, func(i, j int) bool { return admitted[i].Before(admitted[j]) })

	// 12 calls at 3 per 200ms need at least three full periods
	if span := admitted[len(admitted)-1].Sub(admitted[0]); span < 3*window.Period-20*time.Millisecond {
		t.Errorf("12 shared acquires spanned %v, want >= ~%v", span, 3*window.Period)
	}
}
