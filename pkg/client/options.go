package client

import "net/http"

// RequestOption adjusts a single GetJSON or StreamToFile call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers http.Header
	noCache bool
}

func newRequestOptions(opts []RequestOption) *requestOptions {
	ro := &requestOptions{headers: make(http.Header)}
	for _, opt := range opts {
		opt(ro)
	}
	return ro
}

// WithHeader sets a request header, replacing any default of the same name.
func WithHeader(key, value string) RequestOption {
	return func(ro *requestOptions) {
		ro.headers.Set(key, value)
	}
}

// WithHeaders sets several request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(ro *requestOptions) {
		for k, v := range headers {
			ro.headers.Set(k, v)
		}
	}
}

// WithBearerToken sends "Authorization: Bearer <token>". An empty token is ignored.
func WithBearerToken(token string) RequestOption {
	return func(ro *requestOptions) {
		if token != "" {
			ro.headers.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithoutCache bypasses the response cache for one call.
func WithoutCache() RequestOption {
	return func(ro *requestOptions) {
		ro.noCache = true
	}
}
