// Package mtgjson fetches MTGJSON metadata, set files and the AllSetFiles bundle.
package mtgjson

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sternrassler/hexproof-client/pkg/archive"
	"github.com/Sternrassler/hexproof-client/pkg/client"
	"github.com/Sternrassler/hexproof-client/pkg/download"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// Upstream is the rate limit key for MTGJSON.
	Upstream = "mtgjson"

	// DefaultBaseURL is the MTGJSON v5 API root.
	DefaultBaseURL = "https://mtgjson.com/api/v5"

	allSetFiles = "AllSetFiles.tar.gz"
)

// envelope is the {"data": ...} wrapper around every MTGJSON file.
type envelope[T any] struct {
	Data T `json:"data"`
}

// Fetcher reads MTGJSON resources through the shared client.
type Fetcher struct {
	client     *client.Client
	downloader *download.Downloader
	logger     zerolog.Logger

	// BaseURL overrides DefaultBaseURL (tests, mirrors).
	BaseURL string
}

// NewFetcher creates a fetcher on c.
func NewFetcher(c *client.Client) *Fetcher {
	logger := log.With().Str("component", "mtgjson").Logger()
	return &Fetcher{
		client:     c,
		downloader: download.New(c, logger),
		logger:     logger,
		BaseURL:    DefaultBaseURL,
	}
}

func (f *Fetcher) url(name string) string {
	return strings.TrimRight(f.BaseURL, "/") + "/" + name
}

// GetMeta returns the current MTGJSON build metadata.
func (f *Fetcher) GetMeta(ctx context.Context) (*Meta, error) {
	var env envelope[Meta]
	if err := f.client.GetJSON(ctx, Upstream, f.url("Meta.json"), &env); err != nil {
		return nil, fmt.Errorf("get mtgjson meta: %w", err)
	}
	return &env.Data, nil
}

// GetSet returns the full set file for code (e.g. "mh2").
func (f *Fetcher) GetSet(ctx context.Context, code string) (*Set, error) {
	if code == "" {
		return nil, fmt.Errorf("set code is required")
	}

	var env envelope[Set]
	if err := f.client.GetJSON(ctx, Upstream, f.url(strings.ToUpper(code)+".json"), &env); err != nil {
		return nil, fmt.Errorf("get mtgjson set %s: %w", code, err)
	}
	return &env.Data, nil
}

// GetSetList returns the summary of every set.
func (f *Fetcher) GetSetList(ctx context.Context) ([]SetList, error) {
	var env envelope[[]SetList]
	if err := f.client.GetJSON(ctx, Upstream, f.url("SetList.json"), &env); err != nil {
		return nil, fmt.Errorf("get mtgjson set list: %w", err)
	}
	return env.Data, nil
}

// DownloadAllSets downloads AllSetFiles.tar.gz into dir and expands it
// into dir/AllSetFiles, which is returned. A failed download is removed.
func (f *Fetcher) DownloadAllSets(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	dest := filepath.Join(dir, allSetFiles)
	if _, err := f.downloader.Download(ctx, Upstream, f.url(allSetFiles), dest, download.DefaultChunkSize); err != nil {
		if discardErr := download.Discard(dest); discardErr != nil {
			f.logger.Warn().Err(discardErr).Str("path", dest).Msg("Failed to remove partial download")
		}
		return "", err
	}

	expanded, err := archive.Expand(dest, archive.FormatTarGz)
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", dest, err)
	}

	f.logger.Info().Str("dir", expanded).Msg("AllSetFiles ready")
	return expanded, nil
}
