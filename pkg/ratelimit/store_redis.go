package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// reserveScript implements a sliding log on a sorted set scored in microseconds.
// Returns 0 when the call was admitted, otherwise the wait in microseconds (>= 1).
var reserveScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local period = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - period)

if redis.call('ZCARD', key) < max then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, math.ceil(period / 1000) + 1000)
	return 0
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local wait = tonumber(oldest[2]) + period - now
if wait < 1 then
	wait = 1
end
return wait
`)

// RedisStore shares window state between processes through Redis.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{redis: redisClient}
}

// Reserve implements Store.
func (s *RedisStore) Reserve(ctx context.Context, upstream string, window Window, now time.Time) (time.Duration, error) {
	wait, err := reserveScript.Run(ctx, s.redis, []string{RedisKeyPrefix + upstream},
		now.UnixMicro(),
		window.Period.Microseconds(),
		window.MaxCalls,
		uuid.NewString(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("reserve rate limit slot in redis: %w", err)
	}
	return time.Duration(wait) * time.Microsecond, nil
}

// Reset drops the shared window for an upstream.
func (s *RedisStore) Reset(ctx context.Context, upstream string) error {
	if err := s.redis.Del(ctx, RedisKeyPrefix+upstream).Err(); err != nil {
		return fmt.Errorf("reset rate limit window: %w", err)
	}
	return nil
}
