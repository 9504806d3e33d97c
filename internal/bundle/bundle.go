// Package bundle downloads a stack's zipped compose files and extracts them.
package bundle

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/rancher-client/internal/logging"
	"github.com/conn-castle/rancher-client/internal/messages"
)

// DefaultMaxBytes caps both the downloaded archive and each extracted entry.
const DefaultMaxBytes = int64(32 * 1024 * 1024) // 32 MiB

var osCreateTemp = os.CreateTemp

// ArchiveError reports a failure to download or extract the bundle.
// Entry is empty when the failure is not tied to one archive entry.
type ArchiveError struct {
	Entry string
	Err   error
}

func (e *ArchiveError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf(messages.BundleArchiveErrFmt, e.Err)
	}
	return fmt.Sprintf(messages.BundleArchiveEntryErrFmt, e.Entry, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// Opener streams an authenticated response body.
type Opener interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// Fetcher downloads bundles through an Opener.
type Fetcher struct {
	API      Opener
	Logger   *log.Logger
	MaxBytes int64
}

// Fetch downloads the archive at url and writes its files under dir.
// Every entry is checked before anything is written: an entry that is
// absolute, escapes dir, or is not a regular file or directory fails the
// whole fetch. It returns the written file paths in archive order.
func (f *Fetcher) Fetch(ctx context.Context, url string, dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, &ArchiveError{Err: fmt.Errorf(messages.BundleDirRequired)}
	}
	logger := logging.OrDiscard(f.Logger)
	maxBytes := f.maxBytes()

	tmp, err := osCreateTemp("", "rancher-compose-*.zip")
	if err != nil {
		return nil, &ArchiveError{Err: fmt.Errorf(messages.BundleCreateTempFmt, err)}
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	logger.Debug("downloading compose bundle", "url", url)
	size, err := f.download(ctx, url, tmp, maxBytes)
	if err != nil {
		return nil, &ArchiveError{Err: err}
	}

	// ErrInsecurePath still yields a usable reader; entryTarget applies the
	// containment rules itself.
	reader, err := zip.NewReader(tmp, size)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, &ArchiveError{Err: fmt.Errorf(messages.BundleOpenZipFmt, err)}
	}

	targets := make([]string, len(reader.File))
	for i, entry := range reader.File {
		target, err := entryTarget(dir, entry)
		if err != nil {
			return nil, &ArchiveError{Entry: entry.Name, Err: err}
		}
		targets[i] = target
	}

	var written []string
	for i, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(targets[i], 0o755); err != nil {
				return written, &ArchiveError{Entry: entry.Name, Err: fmt.Errorf(messages.BundleCreateDirFmt, err)}
			}
			continue
		}
		logger.Debug("extracting", "entry", entry.Name)
		if err := extractFile(entry, targets[i], maxBytes); err != nil {
			return written, &ArchiveError{Entry: entry.Name, Err: err}
		}
		written = append(written, targets[i])
	}
	return written, nil
}

func (f *Fetcher) maxBytes() int64 {
	if f.MaxBytes > 0 {
		return f.MaxBytes
	}
	return DefaultMaxBytes
}

// download copies the response body into dest and returns its size.
func (f *Fetcher) download(ctx context.Context, url string, dest *os.File, maxBytes int64) (int64, error) {
	body, err := f.API.Open(ctx, url)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	n, err := io.Copy(dest, io.LimitReader(body, maxBytes+1))
	if err != nil {
		return 0, fmt.Errorf(messages.BundleDownloadFmt, url, err)
	}
	if n > maxBytes {
		return 0, fmt.Errorf(messages.BundleTooLargeFmt, maxBytes)
	}
	return n, nil
}

// entryTarget resolves where entry would be written and rejects anything
// that would land outside dir.
func entryTarget(dir string, entry *zip.File) (string, error) {
	mode := entry.FileInfo().Mode()
	if !mode.IsRegular() && !mode.IsDir() {
		return "", fmt.Errorf(messages.BundleEntryUnsupportedType)
	}
	name := entry.Name
	if name == "" || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf(messages.BundleEntryEscapes)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf(messages.BundleEntryEscapes)
	}
	return target, nil
}

func extractFile(entry *zip.File, target string, maxBytes int64) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf(messages.BundleCreateDirFmt, err)
	}
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf(messages.BundleWriteEntryFmt, err)
	}
	n, copyErr := io.Copy(dst, io.LimitReader(src, maxBytes+1))
	closeErr := dst.Close()
	if copyErr != nil {
		return fmt.Errorf(messages.BundleWriteEntryFmt, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf(messages.BundleWriteEntryFmt, closeErr)
	}
	if n > maxBytes {
		return fmt.Errorf(messages.BundleTooLargeFmt, maxBytes)
	}
	return nil
}
