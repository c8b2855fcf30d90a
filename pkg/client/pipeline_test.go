package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sternrassler/hexproof-client/pkg/ratelimit"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Operation) Operation {
			return func(ctx context.Context) error {
				order = append(order, name)
				return next(ctx)
			}
		}
	}

	op := Chain(func(context.Context) error {
		order = append(order, "op")
		return nil
	}, tag("outer"), tag("inner"))

	require.NoError(t, op(context.Background()))
	assert.Equal(t, []string{"outer", "inner", "op"}, order)
}

func TestChain_NoMiddleware(t *testing.T) {
	sentinel := errors.New("boom")
	op := Chain(func(context.Context) error { return sentinel })
	assert.ErrorIs(t, op(context.Background()), sentinel)
}

func TestWithRetry_WithRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(nil, zerolog.Nop())
	require.NoError(t, limiter.SetWindow("test", ratelimit.Window{MaxCalls: 100, Period: time.Second}))

	calls := 0
	op := Chain(func(context.Context) error {
		calls++
		if calls < 3 {
			return serverErr
		}
		return nil
	}, WithRetry(fastPolicy(3)), WithRateLimit(limiter, "test"))

	require.NoError(t, op(context.Background()))
	assert.Equal(t, 3, calls)
}

func TestWithRateLimit_Cancelled(t *testing.T) {
	limiter := ratelimit.NewLimiter(nil, zerolog.Nop())
	require.NoError(t, limiter.SetWindow("test", ratelimit.Window{MaxCalls: 1, Period: time.Hour}))

	called := 0
	op := Chain(func(context.Context) error {
		called++
		return nil
	}, WithRateLimit(limiter, "test"))

	require.NoError(t, op(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := op(ctx)
	assert.ErrorIs(t, err, ratelimit.ErrContextCancelled)
	assert.ErrorIs(t, err, ErrContextCancelled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, called)
}
