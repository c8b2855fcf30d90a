// Package metrics exposes the Prometheus registry used by hexproof-client.
// Metrics are defined in their respective packages (client, cache, ratelimit,
// download) to keep packages independent; this package serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all hexproof metrics are created on.
// promauto registers with the default registerer.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer Handler serves.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - hexproof_rate_limit_acquired_total{upstream} (Counter): Call slots granted
//   - hexproof_rate_limit_waits_total{upstream} (Counter): Calls that waited for a slot
//   - hexproof_rate_limit_wait_seconds{upstream} (Histogram): Time spent waiting
//
// Cache Metrics (pkg/cache):
//   - hexproof_cache_hits_total (Counter): Fresh entries served
//   - hexproof_cache_stale_total (Counter): Expired entries found for revalidation
//   - hexproof_cache_misses_total (Counter): Cache misses
//   - hexproof_cache_writes_total (Counter): Entries stored
//   - hexproof_304_responses_total (Counter): 304 Not Modified responses
//   - hexproof_cache_errors_total{operation} (Counter): Redis failures
//
// Request Metrics (pkg/client):
//   - hexproof_requests_total{upstream, status} (Counter): Requests by upstream and HTTP status
//   - hexproof_request_duration_seconds{upstream} (Histogram): Request duration
//   - hexproof_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - hexproof_retries_total{error_class} (Counter): Retry attempts
//   - hexproof_retry_backoff_seconds{error_class} (Histogram): Backoff sleeps
//   - hexproof_retry_exhausted_total{error_class} (Counter): Operations that ran out of attempts
//
// Download Metrics (pkg/download):
//   - hexproof_download_bytes_total{upstream} (Counter): Bytes written to disk
//   - hexproof_downloads_total{upstream, result} (Counter): Downloads by result (ok, interrupted, failed)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(hexproof_cache_hits_total[5m])) /
//   (sum(rate(hexproof_cache_hits_total[5m])) + sum(rate(hexproof_cache_misses_total[5m])))
//
//   # Scryfall throttling
//   rate(hexproof_rate_limit_waits_total{upstream="scryfall"}[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(hexproof_request_duration_seconds_bucket[5m]))
