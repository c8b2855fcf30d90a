package cache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTTL is the fallback TTL when the response carries no freshness info
	DefaultTTL = 5 * time.Minute
)

// NewEntry builds a CacheEntry from a response and its already-read body.
// defaultTTL applies when neither Cache-Control max-age nor Expires is usable.
func NewEntry(resp *http.Response, body []byte, defaultTTL time.Duration) *CacheEntry {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}

	now := time.Now()
	entry := &CacheEntry{
		Data:        body,
		ETag:        resp.Header.Get("ETag"),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		CachedAt:    now,
		Expires:     ExpiresFromHeaders(resp.Header, now, defaultTTL),
	}

	if lastModStr := resp.Header.Get("Last-Modified"); lastModStr != "" {
		if lastMod, err := http.ParseTime(lastModStr); err == nil {
			entry.LastModified = lastMod
		}
	}

	return entry
}

// ExpiresFromHeaders derives the freshness deadline of a response.
// Cache-Control max-age wins over Expires; no-store and no-cache make the
// entry immediately stale.
func ExpiresFromHeaders(headers http.Header, now time.Time, defaultTTL time.Duration) time.Time {
	if cc := headers.Get("Cache-Control"); cc != "" {
		for _, directive := range strings.Split(cc, ",") {
			directive = strings.TrimSpace(strings.ToLower(directive))
			switch {
			case directive == "no-store" || directive == "no-cache":
				return now
			case strings.HasPrefix(directive, "max-age="):
				if seconds, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age=")); err == nil && seconds >= 0 {
					return now.Add(time.Duration(seconds) * time.Second)
				}
			}
		}
	}

	if expiresStr := headers.Get("Expires"); expiresStr != "" {
		if expires, err := http.ParseTime(expiresStr); err == nil {
			if expires.Before(now) {
				return now
			}
			return expires
		}
	}

	return now.Add(defaultTTL)
}

// AddConditionalHeaders adds If-None-Match (ETag) or If-Modified-Since headers
// to the request if the cache entry supports conditional requests.
func AddConditionalHeaders(req *http.Request, entry *CacheEntry) {
	if entry == nil || req == nil {
		return
	}

	// Prefer ETag over Last-Modified (more accurate)
	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	} else if !entry.LastModified.IsZero() {
		req.Header.Set("If-Modified-Since", entry.LastModified.UTC().Format(http.TimeFormat))
	}
}
