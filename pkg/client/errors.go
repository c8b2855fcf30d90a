package client

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/Sternrassler/hexproof-client/pkg/ratelimit"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is matched by errors returned once all retry attempts are used.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is matched when the context ends during a retry
	// backoff or a rate limit wait. It is the same value as
	// ratelimit.ErrContextCancelled.
	ErrContextCancelled = ratelimit.ErrContextCancelled
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 Too Many Requests.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents connection and timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// TransportError is a connection-level failure: refused, reset, timeout.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying failure was a timeout.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// UpstreamError is a response with a failing HTTP status.
type UpstreamError struct {
	URL        string
	StatusCode int
	Status     string
	ErrorClass ErrorClass
	// Body holds at most maxErrorBody bytes of the response.
	Body []byte
}

func (e *UpstreamError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("upstream %s error (status %d) for %s: %s",
			e.ErrorClass, e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("upstream %s error (status %d) for %s",
		e.ErrorClass, e.StatusCode, e.URL)
}

// RetryExhaustedError carries the last error seen before retries ran out.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%v after %d attempts: %v", ErrRetryExhausted, e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

// Is matches ErrRetryExhausted.
func (e *RetryExhaustedError) Is(target error) bool {
	return target == ErrRetryExhausted
}

// DownloadError is a failure while writing a streamed body to disk.
// The file at Path may hold Written bytes of partial content.
type DownloadError struct {
	URL     string
	Path    string
	Written int64
	Err     error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s to %s failed after %d bytes: %v", e.URL, e.Path, e.Written, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// DecodeError is a 2xx response whose body is not the expected JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// classifyStatus maps a failing HTTP status onto an error class.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// ClassOf returns the error class of err, or "" for local errors.
func ClassOf(err error) ErrorClass {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.ErrorClass
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return ErrorClassNetwork
	}

	return ""
}

// IsRetryable is the default retry predicate: transport failures, 5xx and 429.
func IsRetryable(err error) bool {
	return shouldRetry(ClassOf(err))
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassClient:
		// 4xx won't change on retry
		return false
	case ErrorClassServer, ErrorClassRateLimit, ErrorClassNetwork:
		return true
	default:
		return false
	}
}

// retryableStatuses extends IsRetryable with explicitly configured status codes.
func retryableStatuses(codes []int) func(error) bool {
	if len(codes) == 0 {
		return IsRetryable
	}

	set := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}

	return func(err error) bool {
		if IsRetryable(err) {
			return true
		}
		var upstreamErr *UpstreamError
		if errors.As(err, &upstreamErr) {
			_, ok := set[upstreamErr.StatusCode]
			return ok
		}
		return false
	}
}
