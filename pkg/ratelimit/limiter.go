package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limiting.
var (
	rateLimitAcquiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexproof_rate_limit_acquired_total",
		Help: "Total number of call slots granted by upstream",
	}, []string{"upstream"})

	rateLimitWaitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexproof_rate_limit_waits_total",
		Help: "Total number of calls that had to wait for a slot by upstream",
	}, []string{"upstream"})

	rateLimitWaitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hexproof_rate_limit_wait_seconds",
		Help:    "Time spent waiting for a slot by upstream",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"upstream"})
)

// Limiter gates calls per upstream. Create one per process and share it.
type Limiter struct {
	store    Store
	fallback *MemoryStore
	logger   zerolog.Logger

	mu      sync.RWMutex
	windows map[string]Window

	// Clock overrides time.Now (tests).
	Clock func() time.Time
}

// NewLimiter creates a limiter over store, seeded with DefaultWindows.
// A nil store means an in-process MemoryStore.
func NewLimiter(store Store, logger zerolog.Logger) *Limiter {
	if store == nil {
		store = NewMemoryStore()
	}

	windows := make(map[string]Window, len(DefaultWindows))
	for upstream, w := range DefaultWindows {
		windows[upstream] = w
	}

	return &Limiter{
		store:    store,
		fallback: NewMemoryStore(),
		logger:   logger,
		windows:  windows,
	}
}

// SetWindow configures the window for an upstream.
func (l *Limiter) SetWindow(upstream string, w Window) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("window for %q: %w", upstream, err)
	}

	l.mu.Lock()
	l.windows[upstream] = w
	l.mu.Unlock()
	return nil
}

// Window returns the window in effect for an upstream.
func (l *Limiter) Window(upstream string) Window {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if w, ok := l.windows[upstream]; ok {
		return w
	}
	return FallbackWindow
}

// Acquire blocks until a call slot for upstream is free and claims it.
// It returns an error only when ctx ends first.
func (l *Limiter) Acquire(ctx context.Context, upstream string) error {
	window := l.Window(upstream)
	start := time.Now()
	waited := false

	for {
		wait, err := l.store.Reserve(ctx, upstream, window, l.now())
		if err != nil {
			l.logger.Warn().
				Err(err).
				Str("upstream", upstream).
				Msg("Rate limit store unavailable, using local window")
			wait, _ = l.fallback.Reserve(ctx, upstream, window, l.now())
		}

		if wait <= 0 {
			rateLimitAcquiredTotal.WithLabelValues(upstream).Inc()
			if waited {
				rateLimitWaitSeconds.WithLabelValues(upstream).Observe(time.Since(start).Seconds())
			}
			return nil
		}

		if !waited {
			waited = true
			rateLimitWaitsTotal.WithLabelValues(upstream).Inc()
			l.logger.Debug().
				Str("upstream", upstream).
				Str("window", window.String()).
				Dur("wait", wait).
				Msg("Waiting for rate limit slot")
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: waiting for rate limit slot: %w", ErrContextCancelled, ctx.Err())
		case <-timer.C:
		}
	}
}

func (l *Limiter) now() time.Time {
	if l.Clock != nil {
		return l.Clock()
	}
	return time.Now()
}
