package client

import (
	"context"

	"github.com/Sternrassler/hexproof-client/pkg/ratelimit"
)

// Operation is one unit of upstream work.
type Operation func(ctx context.Context) error

// Middleware decorates an Operation.
type Middleware func(next Operation) Operation

// Chain wraps op with mws; the first middleware is the outermost.
func Chain(op Operation, mws ...Middleware) Operation {
	for i := len(mws) - 1; i >= 0; i-- {
		op = mws[i](op)
	}
	return op
}

// WithRetry re-runs the wrapped operation under policy.
func WithRetry(policy RetryPolicy) Middleware {
	return func(next Operation) Operation {
		return func(ctx context.Context) error {
			return policy.Do(ctx, func() error {
				return next(ctx)
			})
		}
	}
}

// WithRateLimit claims a slot for upstream before every invocation.
func WithRateLimit(limiter *ratelimit.Limiter, upstream string) Middleware {
	return func(next Operation) Operation {
		return func(ctx context.Context) error {
			if err := limiter.Acquire(ctx, upstream); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}
