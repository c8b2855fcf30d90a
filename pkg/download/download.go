// Package download streams large upstream resources to disk.
package download

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Sternrassler/hexproof-client/pkg/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// DefaultChunkSize is the read size used when none is given.
const DefaultChunkSize = 8 << 20

var (
	downloadBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexproof_download_bytes_total",
		Help: "Total bytes written to disk by upstream",
	}, []string{"upstream"})

	downloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hexproof_downloads_total",
		Help: "Total downloads by upstream and result",
	}, []string{"upstream", "result"})
)

// Streamer is the part of *client.Client a Downloader needs.
type Streamer interface {
	StreamToFile(ctx context.Context, upstream, url, dest string, chunkSize int, opts ...client.RequestOption) (int64, error)
}

// Downloader writes upstream resources to local files.
type Downloader struct {
	streamer Streamer
	logger   zerolog.Logger
	opts     []client.RequestOption
}

// New creates a downloader. Request options apply to every download.
func New(streamer Streamer, logger zerolog.Logger, opts ...client.RequestOption) *Downloader {
	return &Downloader{
		streamer: streamer,
		logger:   logger.With().Str("component", "downloader").Logger(),
		opts:     opts,
	}
}

// Download streams url into dest and returns dest. A nil error means the
// file is complete. On failure a partial file may remain at dest; see Discard.
func (d *Downloader) Download(ctx context.Context, upstream, url, dest string, chunkSize int) (string, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	d.logger.Info().
		Str("upstream", upstream).
		Str("url", url).
		Str("dest", dest).
		Msg("Downloading")

	n, err := d.streamer.StreamToFile(ctx, upstream, url, dest, chunkSize, d.opts...)
	downloadBytesTotal.WithLabelValues(upstream).Add(float64(n))
	if err != nil {
		downloadsTotal.WithLabelValues(upstream, result(err)).Inc()
		return "", fmt.Errorf("download %s: %w", url, err)
	}

	downloadsTotal.WithLabelValues(upstream, "ok").Inc()
	d.logger.Info().
		Str("upstream", upstream).
		Str("dest", dest).
		Int64("bytes", n).
		Msg("Download complete")
	return dest, nil
}

func result(err error) string {
	var downloadErr *client.DownloadError
	if errors.As(err, &downloadErr) {
		return "interrupted"
	}
	return "failed"
}

// Discard removes a partial download. A missing file is not an error.
func Discard(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("discard %s: %w", path, err)
	}
	return nil
}
