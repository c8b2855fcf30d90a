package pagination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/hexproof-client/pkg/client"
	"github.com/rs/zerolog/log"
)

// ErrMalformedPagination is matched by every *MalformedPaginationError.
var ErrMalformedPagination = errors.New("malformed pagination")

// MalformedPaginationError reports a list that cannot be followed safely.
type MalformedPaginationError struct {
	URL    string
	Page   int
	Reason string
}

func (e *MalformedPaginationError) Error() string {
	return fmt.Sprintf("%v at page %d (%s): %s", ErrMalformedPagination, e.Page, e.URL, e.Reason)
}

// Is matches ErrMalformedPagination.
func (e *MalformedPaginationError) Is(target error) bool {
	return target == ErrMalformedPagination
}

// Page is one decoded page of a list.
type Page[T any] struct {
	Data     []T
	HasMore  bool
	NextPage string
}

// ParseFunc decodes a raw page body.
type ParseFunc[T any] func(raw json.RawMessage) (Page[T], error)

// Getter is the single-request interface the paginator needs.
// *client.Client implements it.
type Getter interface {
	GetJSON(ctx context.Context, upstream, url string, out any, opts ...client.RequestOption) error
}

// Config holds paginator configuration.
type Config struct {
	// MaxPages stops runaway lists
	MaxPages int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxPages: 1000,
	}
}

// Paginator collects every page of a list from one upstream.
type Paginator[T any] struct {
	getter   Getter
	upstream string
	config   Config
	opts     []client.RequestOption
}

// New creates a paginator. Request options apply to every page.
func New[T any](getter Getter, upstream string, config Config, opts ...client.RequestOption) *Paginator[T] {
	if config.MaxPages <= 0 {
		config.MaxPages = DefaultConfig().MaxPages
	}

	return &Paginator[T]{
		getter:   getter,
		upstream: upstream,
		config:   config,
		opts:     opts,
	}
}

// CollectAll fetches url and every following page, concatenating the data
// in page order. Any page error aborts the whole collection.
func (p *Paginator[T]) CollectAll(ctx context.Context, url string, parse ParseFunc[T]) ([]T, error) {
	start := time.Now()

	var (
		items   []T
		visited = map[string]struct{}{}
		next    = url
		pages   int
	)

	for {
		if pages >= p.config.MaxPages {
			return nil, &MalformedPaginationError{
				URL:    next,
				Page:   pages + 1,
				Reason: fmt.Sprintf("more than %d pages", p.config.MaxPages),
			}
		}
		if _, seen := visited[next]; seen {
			return nil, &MalformedPaginationError{URL: next, Page: pages + 1, Reason: "next page already visited"}
		}
		visited[next] = struct{}{}

		var raw json.RawMessage
		if err := p.getter.GetJSON(ctx, p.upstream, next, &raw, p.opts...); err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", pages+1, err)
		}

		page, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse page %d: %w", pages+1, err)
		}
		pages++
		items = append(items, page.Data...)

		if !page.HasMore {
			break
		}
		if page.NextPage == "" {
			return nil, &MalformedPaginationError{URL: next, Page: pages, Reason: "has_more without next_page"}
		}
		next = page.NextPage

		if pages%10 == 0 {
			log.Info().
				Str("upstream", p.upstream).
				Int("pages", pages).
				Int("items", len(items)).
				Msg("Pagination progress")
		}
	}

	log.Debug().
		Str("upstream", p.upstream).
		Str("url", url).
		Int("pages", pages).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Pagination complete")

	return items, nil
}

// listEnvelope is the common list body: {"data": [...], "has_more": ..., "next_page": ...}.
type listEnvelope[T any] struct {
	Data     []T    `json:"data"`
	HasMore  bool   `json:"has_more"`
	NextPage string `json:"next_page"`
}

// DecodeList parses the common list envelope.
func DecodeList[T any](raw json.RawMessage) (Page[T], error) {
	var env listEnvelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return Page[T]{}, fmt.Errorf("decode list: %w", err)
	}
	return Page[T]{Data: env.Data, HasMore: env.HasMore, NextPage: env.NextPage}, nil
}
