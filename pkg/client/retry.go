package client

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexproof_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hexproof_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"error_class"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexproof_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// RetryPolicy bounds exponential-backoff retries of a fallible operation.
type RetryPolicy struct {
	// MaxAttempts is the maximum number of invocations, including the first.
	MaxAttempts int

	// BaseDelay is the sleep before the first retry; it doubles per attempt.
	BaseDelay time.Duration

	// MaxDelay caps a single sleep. Zero means uncapped.
	MaxDelay time.Duration

	// MaxTotalTime bounds the cumulative sleep. Zero means unbounded.
	MaxTotalTime time.Duration

	// Jitter randomizes each sleep by ±Jitter (0.2 = ±20%). Zero disables it.
	Jitter float64

	// Retryable decides whether an error is worth another attempt.
	// Nil means IsRetryable.
	Retryable func(error) bool

	// Notify is called before each backoff sleep.
	Notify func(attempt int, err error, delay time.Duration)
}

// DefaultRetryPolicy returns the default retry configuration.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		BaseDelay:    500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		MaxTotalTime: 5 * time.Second,
	}
}

// Validate checks the policy bounds.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be >= 1 (got %d)", p.MaxAttempts)
	}
	if p.BaseDelay < 0 || p.MaxDelay < 0 || p.MaxTotalTime < 0 {
		return fmt.Errorf("retry delays must not be negative")
	}
	if p.Jitter < 0 || p.Jitter >= 1 {
		return fmt.Errorf("jitter must be in [0, 1) (got %v)", p.Jitter)
	}
	return nil
}

func (p RetryPolicy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = p.Jitter
	b.MaxInterval = p.MaxDelay
	if b.MaxInterval <= 0 {
		b.MaxInterval = time.Duration(math.MaxInt64)
	}
	// Attempt and total-time bounds are enforced by Do.
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// policy bounds are reached. Non-retryable errors are returned as is;
// exhaustion returns a *RetryExhaustedError wrapping the last error.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	b := p.newBackOff()
	var (
		lastErr error
		slept   time.Duration
		attempt int
	)

	for attempt = 1; attempt <= maxAttempts; attempt++ {
		err := op()
		if err == nil {
			if attempt > 1 {
				log.Info().
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return nil
		}

		lastErr = err

		if !retryable(err) {
			return err
		}

		if attempt == maxAttempts {
			break
		}

		delay := b.NextBackOff()
		if delay == backoff.Stop {
			break
		}
		if p.MaxTotalTime > 0 && slept+delay > p.MaxTotalTime {
			log.Debug().
				Int("attempt", attempt).
				Dur("slept", slept).
				Dur("max_total_time", p.MaxTotalTime).
				Msg("Retry time budget spent")
			break
		}

		errorClass := string(ClassOf(err))
		retriesTotal.WithLabelValues(errorClass).Inc()
		retryBackoffSeconds.WithLabelValues(errorClass).Observe(delay.Seconds())

		if p.Notify != nil {
			p.Notify(attempt, err, delay)
		}

		log.Debug().
			Err(err).
			Str("error_class", errorClass).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("Retrying request after backoff")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Warn().
				Str("error_class", errorClass).
				Int("attempt", attempt).
				Msg("Context cancelled during retry backoff")
			return fmt.Errorf("%w: retry backoff: %w", ErrContextCancelled, ctx.Err())
		case <-timer.C:
		}

		slept += delay
	}

	errorClass := string(ClassOf(lastErr))
	retryExhaustedTotal.WithLabelValues(errorClass).Inc()
	log.Warn().
		Err(lastErr).
		Str("error_class", errorClass).
		Int("attempts", attempt).
		Msg("Retry attempts exhausted")

	return &RetryExhaustedError{Attempts: attempt, Err: lastErr}
}
