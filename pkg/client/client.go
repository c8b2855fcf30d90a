// Package client provides the upstream request client with rate limiting,
// retries, response caching, and streamed downloads.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Sternrassler/hexproof-client/pkg/cache"
	"github.com/Sternrassler/hexproof-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxErrorBody caps how much of a failing response is kept on UpstreamError.
const maxErrorBody = 4 << 10

// Prometheus metrics for upstream requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexproof_requests_total",
		Help: "Total upstream requests by upstream and status",
	}, []string{"upstream", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hexproof_request_duration_seconds",
		Help:    "Upstream request duration in seconds by upstream",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"upstream"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexproof_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// Client is the shared request client for all upstreams.
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// UserAgent is sent with every request. Required.
	UserAgent string

	// Accept is the default Accept header.
	Accept string

	// Timeout bounds a JSON request attempt and the wait for response
	// headers of a download. The download body itself is not bounded.
	Timeout time.Duration

	// Retry is the policy for every network call.
	Retry RetryPolicy

	// RetryableStatuses are retried in addition to 5xx and 429.
	RetryableStatuses []int

	// Windows overrides rate limit windows per upstream.
	Windows map[string]ratelimit.Window

	// Redis enables the shared rate limit store and the response cache.
	// Nil keeps rate limiting in process and disables caching.
	Redis *redis.Client

	// CacheTTL applies to responses without Cache-Control or Expires.
	CacheTTL time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent: userAgent,
		Accept:    "application/json",
		Timeout:   30 * time.Second,
		Retry:     DefaultRetryPolicy(),
		CacheTTL:  cache.DefaultTTL,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.UserAgent == "" {
		return fmt.Errorf("user-agent is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if err := c.Retry.Validate(); err != nil {
		return fmt.Errorf("retry policy: %w", err)
	}
	for upstream, w := range c.Windows {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("window for %q: %w", upstream, err)
		}
	}
	return nil
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Accept == "" {
		cfg.Accept = "application/json"
	}
	if cfg.Retry.Retryable == nil {
		cfg.Retry.Retryable = retryableStatuses(cfg.RetryableStatuses)
	}

	logger := log.With().Str("component", "hexproof-client").Logger()

	var store ratelimit.Store
	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		store = ratelimit.NewRedisStore(cfg.Redis)
		cacheManager = cache.NewManager(cfg.Redis)
	}

	limiter := ratelimit.NewLimiter(store, logger)
	for upstream, w := range cfg.Windows {
		if err := limiter.SetWindow(upstream, w); err != nil {
			return nil, err
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout

	return &Client{
		httpClient: &http.Client{Transport: transport},
		limiter:    limiter,
		cache:      cacheManager,
		config:     cfg,
		logger:     logger,
	}, nil
}

// GetJSON fetches rawURL and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, upstream, rawURL string, out any, opts ...RequestOption) error {
	ro := newRequestOptions(opts)

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url %q: %w", rawURL, err)
	}

	var (
		cacheKey cache.CacheKey
		cached   *cache.CacheEntry
	)
	useCache := c.cache != nil && !ro.noCache
	if useCache {
		cacheKey = cache.KeyFromURL(upstream, u)
		cached, err = c.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("url", rawURL).Msg("Cache get error")
		}
		if cached != nil && !cached.IsExpired() {
			err := decode(rawURL, cached.Data, out)
			if err == nil {
				c.logger.Debug().Str("url", rawURL).Msg("Serving fresh cache entry")
				return nil
			}
			c.logger.Warn().Err(err).Str("url", rawURL).Msg("Dropping undecodable cache entry")
			c.dropEntry(ctx, cacheKey, rawURL)
			cached = nil
		}
	}

	var (
		body        []byte
		fresh       *cache.CacheEntry
		revalidated bool
	)

	attempt := func(ctx context.Context) error {
		attemptCtx := ctx
		if c.config.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, c.config.Timeout)
			defer cancel()
		}

		req, err := c.newRequest(attemptCtx, rawURL, ro)
		if err != nil {
			return err
		}
		if cached != nil && cached.CanRevalidate() {
			cache.AddConditionalHeaders(req, cached)
		}

		resp, err := c.send(ctx, upstream, req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotModified && cached != nil {
			cache.NotModifiedResponses.Inc()
			body = cached.Data
			fresh = cached
			fresh.Expires = cache.ExpiresFromHeaders(resp.Header, time.Now(), c.config.CacheTTL)
			revalidated = true
			return nil
		}

		if err := checkStatus(rawURL, resp); err != nil {
			return err
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &TransportError{URL: rawURL, Err: err}
		}

		body = data
		revalidated = false
		if resp.StatusCode == http.StatusOK {
			fresh = cache.NewEntry(resp, data, c.config.CacheTTL)
		}
		return nil
	}

	if err := c.run(ctx, upstream, attempt); err != nil {
		return err
	}

	// Only bodies that decode are cached.
	if err := decode(rawURL, body, out); err != nil {
		if useCache && revalidated {
			c.dropEntry(ctx, cacheKey, rawURL)
		}
		return err
	}
	if !useCache || fresh == nil || !json.Valid(body) {
		return nil
	}

	if revalidated {
		if err := c.cache.UpdateTTL(ctx, cacheKey, fresh.Expires); err != nil {
			c.logger.Warn().Err(err).Str("url", rawURL).Msg("Failed to update cache TTL")
		}
	} else if err := c.cache.Set(ctx, cacheKey, fresh); err != nil {
		c.logger.Warn().Err(err).Str("url", rawURL).Msg("Failed to cache response")
	}
	return nil
}

func (c *Client) dropEntry(ctx context.Context, key cache.CacheKey, rawURL string) {
	if err := c.cache.Delete(ctx, key); err != nil {
		c.logger.Warn().Err(err).Str("url", rawURL).Msg("Failed to delete cache entry")
	}
}

// StreamToFile downloads rawURL into dest in reads of at most chunkSize
// bytes and returns the number of bytes written. Only obtaining the
// response is retried; a failure after that leaves the partial file in
// place and returns a *DownloadError.
func (c *Client) StreamToFile(ctx context.Context, upstream, rawURL, dest string, chunkSize int, opts ...RequestOption) (int64, error) {
	if chunkSize <= 0 {
		return 0, fmt.Errorf("chunk size must be positive (got %d)", chunkSize)
	}
	ro := newRequestOptions(opts)

	var resp *http.Response
	attempt := func(ctx context.Context) error {
		req, err := c.newRequest(ctx, rawURL, ro)
		if err != nil {
			return err
		}

		r, err := c.send(ctx, upstream, req)
		if err != nil {
			return err
		}
		if err := checkStatus(rawURL, r); err != nil {
			r.Body.Close()
			return err
		}

		resp = r
		return nil
	}

	if err := c.run(ctx, upstream, attempt); err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, &DownloadError{URL: rawURL, Path: dest, Err: err}
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, &DownloadError{URL: rawURL, Path: dest, Err: err}
	}

	written, copyErr := copyChunks(f, resp.Body, chunkSize)
	closeErr := f.Close()

	if copyErr == nil && resp.ContentLength >= 0 && written != resp.ContentLength {
		copyErr = fmt.Errorf("%w: got %d of %d bytes", io.ErrUnexpectedEOF, written, resp.ContentLength)
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		c.logger.Warn().
			Err(copyErr).
			Str("upstream", upstream).
			Str("path", dest).
			Int64("written", written).
			Msg("Download interrupted")
		return written, &DownloadError{URL: rawURL, Path: dest, Written: written, Err: copyErr}
	}

	c.logger.Debug().
		Str("upstream", upstream).
		Str("path", dest).
		Int64("bytes", written).
		Msg("Download complete")
	return written, nil
}

// copyChunks writes each chunk before reading the next.
func copyChunks(w io.Writer, r io.Reader, chunkSize int) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			m, err := w.Write(buf[:n])
			written += int64(m)
			if err != nil {
				return written, err
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

// run executes one network call under retry and rate limiting. The slot
// is acquired before every attempt.
func (c *Client) run(ctx context.Context, upstream string, attempt Operation) error {
	return Chain(attempt,
		WithRetry(c.config.Retry),
		WithRateLimit(c.limiter, upstream),
	)(ctx)
}

func (c *Client) newRequest(ctx context.Context, rawURL string, ro *requestOptions) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", c.config.Accept)
	for k, v := range ro.headers {
		req.Header[k] = v
	}
	return req, nil
}

// send performs one HTTP round trip and records metrics. Failures of the
// caller's ctx are returned as is so they are never retried.
func (c *Client) send(ctx context.Context, upstream string, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(upstream).Observe(time.Since(start).Seconds())

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(upstream, "network_error").Inc()
		c.logger.Warn().
			Err(err).
			Str("upstream", upstream).
			Str("url", req.URL.String()).
			Msg("HTTP request failed")
		return nil, &TransportError{URL: req.URL.String(), Err: err}
	}

	requestsTotal.WithLabelValues(upstream, strconv.Itoa(resp.StatusCode)).Inc()
	if class := classifyStatus(resp.StatusCode); class != "" {
		errorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Str("upstream", upstream).
			Str("url", req.URL.String()).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Upstream request error")
	}
	return resp, nil
}

// checkStatus turns anything but 2xx into an *UpstreamError, keeping the
// head of the body for diagnostics.
func checkStatus(rawURL string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	class := classifyStatus(resp.StatusCode)
	if class == "" {
		class = ErrorClassClient
	}
	return &UpstreamError{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		ErrorClass: class,
		Body:       body,
	}
}

func decode(rawURL string, body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{URL: rawURL, Err: err}
	}
	return nil
}

// Limiter returns the shared rate limiter.
func (c *Client) Limiter() *ratelimit.Limiter {
	return c.limiter
}

// Cache returns the response cache, or nil when caching is disabled.
func (c *Client) Cache() *cache.Manager {
	return c.cache
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
