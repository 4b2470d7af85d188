package importer_test

import (
	"archive/zip"
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printeers/zakeke-sync/internal/importer"
)

func TestPayload_Archive(t *testing.T) {
	t.Parallel()

	payload, err := importer.Build("p-1", printItem())
	require.NoError(t, err)

	data, err := payload.Archive()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(
		t,
		[]string{"areas.txt", "printTypes.txt", "products.txt", "sides.txt"},
		names,
	)

	// Spot-check one entry round-trips through the archive.
	for _, f := range zr.File {
		if f.Name != "areas.txt" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Contains(t, string(content), `"MasterProductID",`)
		assert.Contains(t, string(content), `"p-1",`)
	}
}

func TestPayload_MultipartUpload(t *testing.T) {
	t.Parallel()

	payload, err := importer.Build("p-1", printItem())
	require.NoError(t, err)

	body, contentType, err := payload.MultipartUpload()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)
	require.NotEmpty(t, params["boundary"])

	mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	part, err := mr.NextPart()
	require.NoError(t, err)

	assert.Equal(t, "data", part.FormName())
	assert.Equal(t, "IP15-CLEAR.zip", part.FileName())
	assert.Equal(t, "application/zip", part.Header.Get("Content-Type"))

	archive, err := io.ReadAll(part)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	assert.Len(t, zr.File, 4)

	_, err = mr.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestPayload_ArchivePropagatesDatasetErrors(t *testing.T) {
	t.Parallel()

	payload, err := importer.Build("p-1", printItem())
	require.NoError(t, err)

	// Break one dataset: width no longer matches the header.
	payload.Sides.AppendRow([]string{"only-one-column"})

	_, archiveErr := payload.Archive()
	require.Error(t, archiveErr)
	assert.ErrorIs(t, archiveErr, importer.ErrRowWidth)
	assert.True(t, strings.Contains(archiveErr.Error(), "sides.txt"))
}
