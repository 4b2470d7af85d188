// Package artifact downloads print-ready design output from Zakeke and
// turns it into an embeddable data URI. Every fetch works in its own
// scratch directory, which is removed again on all paths.
package artifact

import (
	"archive/zip"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/printeers/zakeke-sync/internal/metrics"
	"github.com/printeers/zakeke-sync/internal/zakeke"
)

// Fetcher errors.
var (
	ErrNoOutputURL = errors.New("design has no output file url")
	ErrNoPrintFile = errors.New("archive contains no print image")
)

const archiveName = "output.zip"

// Fetcher retrieves the print-ready artifact for a design.
type Fetcher struct {
	client      zakeke.Client
	httpClient  *http.Client
	scratchRoot string
}

// FetcherOption configures the Fetcher.
type FetcherOption func(*Fetcher)

// WithFetcherHTTPClient overrides the HTTP client used for downloads.
func WithFetcherHTTPClient(hc *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = hc
	}
}

// NewFetcher creates a Fetcher that stages downloads under scratchRoot.
func NewFetcher(client zakeke.Client, scratchRoot string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		httpClient:  &http.Client{Timeout: 2 * time.Minute},
		scratchRoot: scratchRoot,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch resolves the output-file URL for a design, downloads and extracts
// the archive, and returns the print image as a base64 data URI. The
// scratch directory used for staging is removed before returning, on
// success and failure alike.
func (f *Fetcher) Fetch(ctx context.Context, designID string) (string, error) {
	out, err := f.client.DesignOutputFiles(ctx, designID)
	if err != nil {
		metrics.ArtifactErrorsTotal.Inc()
		return "", fmt.Errorf("resolving output files for design %s: %w", designID, err)
	}

	if err := validateOutputURL(out.URL); err != nil {
		metrics.ArtifactErrorsTotal.Inc()
		return "", fmt.Errorf("design %s: %w", designID, err)
	}

	dir := filepath.Join(f.scratchRoot, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	archivePath := filepath.Join(dir, archiveName)
	if err := f.download(ctx, out.URL, archivePath); err != nil {
		metrics.ArtifactErrorsTotal.Inc()
		return "", fmt.Errorf("downloading design %s: %w", designID, err)
	}

	extractDir := filepath.Join(dir, "extracted")
	if err := extractArchive(archivePath, extractDir); err != nil {
		metrics.ArtifactErrorsTotal.Inc()
		return "", fmt.Errorf("extracting design %s: %w", designID, err)
	}

	imagePath, err := locatePrintImage(extractDir)
	if err != nil {
		metrics.ArtifactErrorsTotal.Inc()
		return "", fmt.Errorf("design %s: %w", designID, err)
	}

	dataURI, err := encodeDataURI(imagePath)
	if err != nil {
		return "", fmt.Errorf("encoding design %s: %w", designID, err)
	}

	metrics.ArtifactsFetchedTotal.Inc()
	return dataURI, nil
}

func validateOutputURL(raw string) error {
	if raw == "" {
		return ErrNoOutputURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrNoOutputURL, raw)
	}
	return nil
}

// download streams the archive to disk so large outputs never sit in memory.
func (f *Fetcher) download(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating download request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed (status %d)", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("writing archive file: %w", err)
	}
	return out.Close()
}

func extractArchive(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if err := extractEntry(entry, destDir); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(entry *zip.File, destDir string) error {
	// Reject entries that would escape the extraction root.
	dest := filepath.Join(destDir, filepath.FromSlash(entry.Name))
	if !strings.HasPrefix(dest, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("archive entry %q escapes extraction directory", entry.Name)
	}

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", entry.Name, err)
	}

	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("opening archive entry %s: %w", entry.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", entry.Name, err)
	}
	return out.Close()
}

// locatePrintImage walks the extraction directory for PNG files. When the
// archive carries several, the last one in path order is the composed
// print-ready output, so that one wins.
func locatePrintImage(dir string) (string, error) {
	var pngs []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".png") {
			pngs = append(pngs, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking extraction directory: %w", err)
	}

	if len(pngs) == 0 {
		return "", ErrNoPrintFile
	}

	sort.Strings(pngs)
	return pngs[len(pngs)-1], nil
}

func encodeDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading print image: %w", err)
	}

	// The extension keeps its case as found in the archive.
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return "data:image/" + ext + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
