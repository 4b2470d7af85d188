package importer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

// Archive serializes the four datasets and bundles them into a zip archive.
func (p *Payload) Archive() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, ds := range []*Dataset{p.Areas, p.PrintTypes, p.Products, p.Sides} {
		data, err := ds.Marshal()
		if err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", ds.Name, err)
		}

		f, err := zw.Create(ds.Name)
		if err != nil {
			return nil, fmt.Errorf("adding %s to archive: %w", ds.Name, err)
		}
		if _, err := f.Write(data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", ds.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return buf.Bytes(), nil
}

// MultipartUpload wraps the archive in a multipart/form-data body ready for
// the bulk-import endpoint. It returns the body and its Content-Type header
// value including the boundary.
func (p *Payload) MultipartUpload() ([]byte, string, error) {
	archive, err := p.Archive()
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set(
		"Content-Disposition",
		fmt.Sprintf(`form-data; name="data"; filename=%q`, p.ArchiveName),
	)
	header.Set("Content-Type", "application/zip")

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating form part: %w", err)
	}
	if _, err := part.Write(archive); err != nil {
		return nil, "", fmt.Errorf("writing archive part: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return buf.Bytes(), mw.FormDataContentType(), nil
}
