package cache

import (
	"time"
)

// CacheEntry represents a cached upstream response.
type CacheEntry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// ETag for conditional requests (If-None-Match)
	ETag string `json:"etag,omitempty"`

	// LastModified for conditional requests (If-Modified-Since)
	LastModified time.Time `json:"last_modified,omitempty"`

	// Expires is when the entry stops being served without revalidation
	Expires time.Time `json:"expires"`

	// ContentType of the cached body
	ContentType string `json:"content_type,omitempty"`

	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// CachedAt is when we cached this response
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired returns true once the entry needs revalidation.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *CacheEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// CanRevalidate reports whether the entry carries a validator.
func (e *CacheEntry) CanRevalidate() bool {
	return e.ETag != "" || !e.LastModified.IsZero()
}
