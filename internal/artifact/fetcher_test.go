package artifact_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printeers/zakeke-sync/internal/artifact"
	"github.com/printeers/zakeke-sync/internal/zakeke"
)

// stubClient serves canned output-file URLs; the import methods are never
// reached from the fetcher.
type stubClient struct {
	url string
	err error
}

func (s *stubClient) ImportProducts(context.Context, io.Reader, string) (string, error) {
	panic("not used")
}

func (s *stubClient) ImportResult(context.Context, string) (*zakeke.ImportResult, error) {
	panic("not used")
}

func (s *stubClient) DesignOutputFiles(context.Context, string) (*zakeke.OutputFiles, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &zakeke.OutputFiles{URL: s.url}, nil
}

func buildZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func serveZip(t *testing.T, archive []byte) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/zip")
			_, _ = w.Write(archive)
		}),
	)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	printImage := []byte("composed-print-output")
	archive := buildZip(t, map[string][]byte{
		"preview/a-preview.png": []byte("preview"),
		"print/z-output.PNG":    printImage,
		"design.json":           []byte("{}"),
	})
	srv := serveZip(t, archive)

	scratch := t.TempDir()
	f := artifact.NewFetcher(&stubClient{url: srv.URL + "/out.zip"}, scratch)

	dataURI, err := f.Fetch(context.Background(), "d-1")
	require.NoError(t, err)

	// The winning file is print/z-output.PNG; its extension case is kept.
	require.True(t, strings.HasPrefix(dataURI, "data:image/PNG;base64,"))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURI, "data:image/PNG;base64,"))
	require.NoError(t, err)
	assert.Equal(t, printImage, decoded)
}

func TestFetcher_FetchCleansScratchDir(t *testing.T) {
	t.Parallel()

	archive := buildZip(t, map[string][]byte{"out.png": []byte("img")})
	srv := serveZip(t, archive)

	scratch := t.TempDir()
	f := artifact.NewFetcher(&stubClient{url: srv.URL + "/out.zip"}, scratch)

	_, err := f.Fetch(context.Background(), "d-1")
	require.NoError(t, err)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetcher_FetchCleansScratchDirOnFailure(t *testing.T) {
	t.Parallel()

	// Archive without any PNG: the fetch fails after extraction.
	archive := buildZip(t, map[string][]byte{"design.json": []byte("{}")})
	srv := serveZip(t, archive)

	scratch := t.TempDir()
	f := artifact.NewFetcher(&stubClient{url: srv.URL + "/out.zip"}, scratch)

	_, err := f.Fetch(context.Background(), "d-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, artifact.ErrNoPrintFile)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetcher_FetchMissingOutputURL(t *testing.T) {
	t.Parallel()

	f := artifact.NewFetcher(&stubClient{url: ""}, t.TempDir())

	_, err := f.Fetch(context.Background(), "d-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, artifact.ErrNoOutputURL)
}

func TestFetcher_FetchInvalidOutputURL(t *testing.T) {
	t.Parallel()

	f := artifact.NewFetcher(&stubClient{url: "not-a-url"}, t.TempDir())

	_, err := f.Fetch(context.Background(), "d-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, artifact.ErrNoOutputURL)
}

func TestFetcher_FetchDownloadFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}),
	)
	t.Cleanup(srv.Close)

	scratch := t.TempDir()
	f := artifact.NewFetcher(&stubClient{url: srv.URL + "/out.zip"}, scratch)

	_, err := f.Fetch(context.Background(), "d-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetcher_FetchCorruptArchive(t *testing.T) {
	t.Parallel()

	srv := serveZip(t, []byte("definitely not a zip"))

	scratch := t.TempDir()
	f := artifact.NewFetcher(&stubClient{url: srv.URL + "/out.zip"}, scratch)

	_, err := f.Fetch(context.Background(), "d-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extracting design")

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
