// Package archive expands downloaded tar.gz and zip bundles.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"
)

// Format is an archive container format.
type Format string

const (
	FormatTarGz Format = "tar.gz"
	FormatZip   Format = "zip"
)

var (
	// ErrUnsupportedArchive is matched by *UnsupportedArchiveError.
	ErrUnsupportedArchive = errors.New("unsupported archive format")

	// ErrCorruptArchive is matched by *CorruptArchiveError.
	ErrCorruptArchive = errors.New("corrupt archive")
)

// UnsupportedArchiveError names a format this package cannot expand.
type UnsupportedArchiveError struct {
	Path   string
	Format Format
}

func (e *UnsupportedArchiveError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrUnsupportedArchive, e.Format, e.Path)
}

// Is matches ErrUnsupportedArchive.
func (e *UnsupportedArchiveError) Is(target error) bool {
	return target == ErrUnsupportedArchive
}

// CorruptArchiveError reports an archive that cannot be read, or an entry
// that would land outside the destination directory.
type CorruptArchiveError struct {
	Path  string
	Entry string
	Err   error
}

func (e *CorruptArchiveError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("%v %s (entry %q): %v", ErrCorruptArchive, e.Path, e.Entry, e.Err)
	}
	return fmt.Sprintf("%v %s: %v", ErrCorruptArchive, e.Path, e.Err)
}

func (e *CorruptArchiveError) Unwrap() error {
	return e.Err
}

// Is matches ErrCorruptArchive.
func (e *CorruptArchiveError) Is(target error) bool {
	return target == ErrCorruptArchive
}

// FormatFromPath detects the format from a file name.
func FormatFromPath(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return FormatTarGz, nil
	case strings.HasSuffix(name, ".zip"):
		return FormatZip, nil
	default:
		return "", &UnsupportedArchiveError{Path: path, Format: Format(filepath.Ext(name))}
	}
}

// Expand unpacks archivePath into a sibling directory named after the
// archive (AllSetFiles.tar.gz expands into AllSetFiles/) and returns it.
func Expand(archivePath string, format Format) (string, error) {
	dir := filepath.Join(filepath.Dir(archivePath), baseName(archivePath))
	if err := ExpandTo(archivePath, format, dir); err != nil {
		return "", err
	}
	return dir, nil
}

// ExpandTo unpacks archivePath into dir, creating it if needed. The archive
// itself is left in place.
func ExpandTo(archivePath string, format Format, dir string) error {
	var expand func(string, string) error
	switch format {
	case FormatTarGz:
		expand = expandTarGz
	case FormatZip:
		expand = expandZip
	default:
		return &UnsupportedArchiveError{Path: archivePath, Format: format}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	if err := expand(archivePath, dir); err != nil {
		return err
	}

	log.Debug().
		Str("archive", archivePath).
		Str("format", string(format)).
		Str("dir", dir).
		Msg("Archive expanded")
	return nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	lower := strings.ToLower(name)
	for _, suffix := range []string{".tar.gz", ".tgz", ".zip"} {
		if strings.HasSuffix(lower, suffix) {
			return name[:len(name)-len(suffix)]
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// entryPath resolves an entry name inside dir and rejects escapes.
func entryPath(dir, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("absolute path")
	}
	target := filepath.Join(dir, name)
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes destination")
	}
	return target, nil
}

func expandTarGz(archivePath, dir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return &CorruptArchiveError{Path: archivePath, Err: err}
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &CorruptArchiveError{Path: archivePath, Err: err}
		}

		target, err := entryPath(dir, hdr.Name)
		if err != nil {
			return &CorruptArchiveError{Path: archivePath, Entry: hdr.Name, Err: err}
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, fileMode(hdr.FileInfo().Mode())); err != nil {
				if errors.Is(err, errWrite) {
					return err
				}
				return &CorruptArchiveError{Path: archivePath, Entry: hdr.Name, Err: err}
			}
		default:
			log.Debug().
				Str("archive", archivePath).
				Str("entry", hdr.Name).
				Msg("Skipping non-regular archive entry")
		}
	}
}

func expandZip(archivePath, dir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return &CorruptArchiveError{Path: archivePath, Err: err}
	}
	defer r.Close()

	for _, zf := range r.File {
		target, err := entryPath(dir, zf.Name)
		if err != nil {
			return &CorruptArchiveError{Path: archivePath, Entry: zf.Name, Err: err}
		}

		mode := zf.FileInfo().Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case mode.IsRegular():
			rc, err := zf.Open()
			if err != nil {
				return &CorruptArchiveError{Path: archivePath, Entry: zf.Name, Err: err}
			}
			err = writeFile(target, rc, fileMode(mode))
			rc.Close()
			if err != nil {
				if errors.Is(err, errWrite) {
					return err
				}
				return &CorruptArchiveError{Path: archivePath, Entry: zf.Name, Err: err}
			}
		default:
			log.Debug().
				Str("archive", archivePath).
				Str("entry", zf.Name).
				Msg("Skipping non-regular archive entry")
		}
	}
	return nil
}

// errWrite marks local filesystem failures, as opposed to bad archive data.
var errWrite = errors.New("write entry")

// entryWriter tags write failures with errWrite so a full disk is not
// reported as a corrupt archive.
type entryWriter struct {
	w io.Writer
}

func (ew entryWriter) Write(p []byte) (int, error) {
	n, err := ew.w.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %w", errWrite, err)
	}
	return n, nil
}

// copyEntry copies one entry body. Errors from w match errWrite; errors
// from r are returned as is.
func copyEntry(w io.Writer, r io.Reader) error {
	_, err := io.Copy(entryWriter{w: w}, r)
	return err
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("%w: %w", errWrite, err)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("%w: %w", errWrite, err)
	}

	if err := copyEntry(out, r); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %w", errWrite, err)
	}
	return nil
}

func fileMode(m os.FileMode) os.FileMode {
	perm := m.Perm()
	if perm == 0 {
		return 0o644
	}
	return perm | 0o600
}
