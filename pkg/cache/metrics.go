package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts fresh entries served from Redis
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hexproof_cache_hits_total",
			Help: "Total number of fresh response cache hits",
		},
	)

	// CacheStale counts expired entries returned for revalidation
	CacheStale = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hexproof_cache_stale_total",
			Help: "Total number of stale response cache entries found",
		},
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hexproof_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// CacheWrites tracks stored entries
	CacheWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hexproof_cache_writes_total",
			Help: "Total number of response cache writes",
		},
	)

	// NotModifiedResponses tracks 304 Not Modified responses
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hexproof_304_responses_total",
			Help: "Total number of 304 Not Modified responses",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hexproof_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
