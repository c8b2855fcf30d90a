// Package vectors fetches the mtg-vectors symbol manifest and package.
package vectors

import (
	"context"
	"encoding/json"
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
	// Upstream is the rate limit key for the vectors repository.
	Upstream = "vectors"

	// DefaultBaseURL is the raw content root of the mtg-vectors repository.
	DefaultBaseURL = "https://raw.githubusercontent.com/Investigamer/mtg-vectors/main"

	manifestFile = "manifest.json"
	packageFile  = "package.zip"
)

// Fetcher reads the vectors repository through the shared client.
type Fetcher struct {
	client *client.Client
	logger zerolog.Logger

	// BaseURL overrides DefaultBaseURL (tests, forks).
	BaseURL string

	// AuthToken is sent as a bearer token when set, which raises
	// GitHub's rate limits.
	AuthToken string
}

// NewFetcher creates a fetcher on c.
func NewFetcher(c *client.Client) *Fetcher {
	return &Fetcher{
		client:  c,
		logger:  log.With().Str("component", "vectors").Logger(),
		BaseURL: DefaultBaseURL,
	}
}

func (f *Fetcher) url(name string) string {
	return strings.TrimRight(f.BaseURL, "/") + "/" + name
}

// GetManifest fetches the manifest and writes it to dir/manifest.json.
func (f *Fetcher) GetManifest(ctx context.Context, dir string) (*Manifest, error) {
	var raw json.RawMessage
	if err := f.client.GetJSON(ctx, Upstream, f.url(manifestFile), &raw, client.WithBearerToken(f.AuthToken)); err != nil {
		return nil, fmt.Errorf("get vectors manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("decode vectors manifest: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, manifestFile)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	f.logger.Debug().
		Str("path", path).
		Str("version", manifest.Meta.Version).
		Msg("Manifest saved")
	return &manifest, nil
}

// GetPackage downloads package.zip into dir and expands it there.
// chunkSize <= 0 uses download.DefaultChunkSize.
func (f *Fetcher) GetPackage(ctx context.Context, dir string, chunkSize int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	d := download.New(f.client, f.logger, client.WithBearerToken(f.AuthToken))
	dest := filepath.Join(dir, packageFile)
	if _, err := d.Download(ctx, Upstream, f.url(packageFile), dest, chunkSize); err != nil {
		if discardErr := download.Discard(dest); discardErr != nil {
			f.logger.Warn().Err(discardErr).Str("path", dest).Msg("Failed to remove partial download")
		}
		return "", err
	}

	if err := archive.ExpandTo(dest, archive.FormatZip, dir); err != nil {
		return "", fmt.Errorf("expand vectors package: %w", err)
	}
	return dir, nil
}

// UpdateManifest fetches the manifest and reports whether its version
// differs from current. force reports a change regardless.
func (f *Fetcher) UpdateManifest(ctx context.Context, dir, current string, force bool) (*Manifest, bool, error) {
	manifest, err := f.GetManifest(ctx, dir)
	if err != nil {
		return nil, false, err
	}

	if manifest.Meta.Version == current && !force {
		f.logger.Info().Str("version", current).Msg("Set symbols already up-to-date")
		return manifest, false, nil
	}

	f.logger.Info().
		Str("current", current).
		Str("latest", manifest.Meta.Version).
		Bool("force", force).
		Msg("Set symbols update available")
	return manifest, true, nil
}
