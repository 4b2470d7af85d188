package importer

import (
	"bytes"
	"errors"
	"fmt"
)

// Dataset errors.
var (
	// ErrTooFewRows marks a dataset without at least a header and one
	// data row.
	ErrTooFewRows = errors.New("dataset needs a header row and at least one data row")

	// ErrRowWidth marks a row whose column count differs from the header.
	ErrRowWidth = errors.New("every dataset row must match the header column count")
)

// Dataset is one fixed-schema tabular file inside an import archive.
// The first row is the header; Marshal rejects datasets without data rows
// or with rows whose width differs from the header.
type Dataset struct {
	Name string
	rows [][]string
}

// NewDataset creates a dataset with the given file name and header row.
func NewDataset(name string, header []string) *Dataset {
	return &Dataset{
		Name: name,
		rows: [][]string{header},
	}
}

// AppendRow adds one data row.
func (d *Dataset) AppendRow(row []string) {
	d.rows = append(d.rows, row)
}

// Rows returns all rows including the header.
func (d *Dataset) Rows() [][]string {
	return d.rows
}

// Marshal serializes the dataset in the Zakeke CSV dialect: every value
// double-quoted and comma-terminated, rows terminated by CRLF.
func (d *Dataset) Marshal() ([]byte, error) {
	if len(d.rows) < 2 {
		return nil, fmt.Errorf("%s: %w", d.Name, ErrTooFewRows)
	}

	width := len(d.rows[0])
	for i, row := range d.rows {
		if len(row) != width {
			return nil, fmt.Errorf(
				"%s row %d: %w (got %d, header has %d)",
				d.Name, i, ErrRowWidth, len(row), width,
			)
		}
	}

	var buf bytes.Buffer
	for _, row := range d.rows {
		for _, col := range row {
			buf.WriteByte('"')
			buf.WriteString(col)
			buf.WriteString(`",`)
		}
		buf.WriteString("\r\n")
	}

	return buf.Bytes(), nil
}
