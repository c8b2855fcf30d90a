package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CacheKey identifies a cached upstream response.
type CacheKey struct {
	// Upstream is the logical provider name (e.g., "scryfall")
	Upstream string

	// Endpoint is host plus path (e.g., "api.scryfall.com/sets/mh2")
	Endpoint string

	// QueryParams are the query parameters (e.g., {"q": "t:goblin"})
	QueryParams url.Values
}

// KeyFromURL builds the cache key for a request URL.
func KeyFromURL(upstream string, u *url.URL) CacheKey {
	return CacheKey{
		Upstream:    upstream,
		Endpoint:    u.Host + u.EscapedPath(),
		QueryParams: u.Query(),
	}
}

// String generates a deterministic cache key string.
// Format: hexproof:cache:upstream:endpoint:query1=val1:query1=val2
//
// Example:
//
//	hexproof:cache:scryfall:api.scryfall.com/cards/search:page=2:q=t:goblin
func (k CacheKey) String() string {
	parts := []string{"hexproof", "cache"}

	if k.Upstream != "" {
		parts = append(parts, k.Upstream)
	}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Sorted keys, values kept in request order
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			for _, value := range k.QueryParams[key] {
				parts = append(parts, fmt.Sprintf("%s=%s", key, value))
			}
		}
	}

	return strings.Join(parts, ":")
}
