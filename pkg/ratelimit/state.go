// Package ratelimit implements per-upstream call rate limiting.
// Each upstream gets a rolling window of at most MaxCalls call starts per
// Period; callers block in Acquire until the window admits them.
package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

// RedisKeyPrefix prefixes the sorted-set keys holding shared window state.
const RedisKeyPrefix = "hexproof:rate_limit:"

// ErrContextCancelled is matched when the context ends while waiting for a
// slot. The context's own error stays in the chain.
var ErrContextCancelled = errors.New("context cancelled")

// Window describes a rolling rate limit: at most MaxCalls call starts
// inside any Period-wide interval.
type Window struct {
	MaxCalls int           `json:"max_calls" mapstructure:"calls"`
	Period   time.Duration `json:"period" mapstructure:"period"`
}

// Validate reports whether the window can admit calls at all.
func (w Window) Validate() error {
	if w.MaxCalls <= 0 {
		return fmt.Errorf("max calls must be > 0 (got %d)", w.MaxCalls)
	}
	if w.Period <= 0 {
		return fmt.Errorf("period must be > 0 (got %s)", w.Period)
	}
	return nil
}

// Interval returns the average spacing between calls at full rate.
func (w Window) Interval() time.Duration {
	if w.MaxCalls <= 0 {
		return 0
	}
	return w.Period / time.Duration(w.MaxCalls)
}

// String renders the window as "N/period".
func (w Window) String() string {
	return fmt.Sprintf("%d/%s", w.MaxCalls, w.Period)
}

// DefaultWindows are the windows applied per upstream unless overridden.
//
// MTGJSON publishes no limit for static JSON files; 20/s keeps us polite.
// Scryfall asks for 50-100ms between requests, 20/s is its documented floor.
var DefaultWindows = map[string]Window{
	"mtgjson":  {MaxCalls: 20, Period: time.Second},
	"scryfall": {MaxCalls: 20, Period: time.Second},
	"vectors":  {MaxCalls: 20, Period: time.Second},
}

// FallbackWindow applies to upstreams with no configured window.
var FallbackWindow = Window{MaxCalls: 10, Period: time.Second}
