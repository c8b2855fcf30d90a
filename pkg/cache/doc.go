// Package cache provides the Redis response cache used by the request client.
//
// Manifest-style resources (MTGJSON Meta, Scryfall sets, the vectors
// manifest) change rarely, so JSON bodies are kept in Redis and revalidated
// with conditional requests instead of being downloaded again.
//
// # Basic Usage
//
//	manager := cache.NewManager(redisClient)
//
//	u, _ := url.Parse("https://api.scryfall.com/sets/mh2")
//	key := cache.KeyFromURL("scryfall", u)
//
//	entry, err := manager.Get(ctx, key)
//	switch {
//	case errors.Is(err, cache.ErrCacheMiss):
//		// fetch from upstream
//	case entry.IsExpired() && entry.CanRevalidate():
//		cache.AddConditionalHeaders(req, entry)
//	}
//
// # Freshness
//
// Entries are fresh until Cache-Control max-age, else Expires, else the
// configured default TTL. Expired entries stay in Redis for StaleRetention
// so their ETag or Last-Modified can be sent as If-None-Match or
// If-Modified-Since. A 304 Not Modified response refreshes the entry with
// UpdateTTL and the cached body is reused.
//
// # Metrics
//
//   - hexproof_cache_hits_total - fresh entries served
//   - hexproof_cache_stale_total - expired entries found
//   - hexproof_cache_misses_total - cache misses
//   - hexproof_cache_writes_total - entries stored
//   - hexproof_304_responses_total - successful revalidations
//   - hexproof_cache_errors_total{operation} - Redis failures
package cache
