// Package scryfall fetches sets and cards from the Scryfall API.
package scryfall

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Sternrassler/hexproof-client/pkg/client"
	"github.com/Sternrassler/hexproof-client/pkg/download"
	"github.com/Sternrassler/hexproof-client/pkg/pagination"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// Upstream is the rate limit key for Scryfall.
	Upstream = "scryfall"

	// DefaultBaseURL is the Scryfall API root.
	DefaultBaseURL = "https://api.scryfall.com"
)

// Fetcher reads Scryfall resources through the shared client.
type Fetcher struct {
	client     *client.Client
	downloader *download.Downloader
	logger     zerolog.Logger

	// BaseURL overrides DefaultBaseURL (tests, mirrors).
	BaseURL string

	// Pagination bounds list traversal.
	Pagination pagination.Config
}

// NewFetcher creates a fetcher on c.
func NewFetcher(c *client.Client) *Fetcher {
	logger := log.With().Str("component", "scryfall").Logger()
	return &Fetcher{
		client:     c,
		downloader: download.New(c, logger),
		logger:     logger,
		BaseURL:    DefaultBaseURL,
		Pagination: pagination.DefaultConfig(),
	}
}

func (f *Fetcher) url(path string) string {
	return strings.TrimRight(f.BaseURL, "/") + path
}

// GetSet returns the set with code (e.g. "MH2").
func (f *Fetcher) GetSet(ctx context.Context, code string) (*Set, error) {
	if code == "" {
		return nil, fmt.Errorf("set code is required")
	}

	var set Set
	if err := f.client.GetJSON(ctx, Upstream, f.url("/sets/"+url.PathEscape(strings.ToLower(code))), &set); err != nil {
		return nil, fmt.Errorf("get scryfall set %s: %w", code, err)
	}
	return &set, nil
}

// GetSetList returns every Scryfall set.
func (f *Fetcher) GetSetList(ctx context.Context) ([]Set, error) {
	sets, err := pagination.New[Set](f.client, Upstream, f.Pagination).
		CollectAll(ctx, f.url("/sets"), pagination.DecodeList[Set])
	if err != nil {
		return nil, fmt.Errorf("get scryfall set list: %w", err)
	}
	return sets, nil
}

// SearchCards runs a full-text card search and returns every match.
func (f *Fetcher) SearchCards(ctx context.Context, query string) ([]Card, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}

	q := url.Values{"q": []string{query}}
	cards, err := pagination.New[Card](f.client, Upstream, f.Pagination).
		CollectAll(ctx, f.url("/cards/search?"+q.Encode()), pagination.DecodeList[Card])
	if err != nil {
		return nil, fmt.Errorf("search scryfall cards %q: %w", query, err)
	}
	return cards, nil
}

// SaveSetList streams the /sets resource into path.
func (f *Fetcher) SaveSetList(ctx context.Context, path string) (string, error) {
	dest, err := f.downloader.Download(ctx, Upstream, f.url("/sets"), path, download.DefaultChunkSize)
	if err != nil {
		if discardErr := download.Discard(path); discardErr != nil {
			f.logger.Warn().Err(discardErr).Str("path", path).Msg("Failed to remove partial download")
		}
		return "", err
	}
	return dest, nil
}
