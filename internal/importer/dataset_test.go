package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printeers/zakeke-sync/internal/importer"
)

// parseDataset reverses the Zakeke CSV dialect: quoted, comma-terminated
// values with CRLF row terminators.
func parseDataset(t *testing.T, data []byte) [][]string {
	t.Helper()

	var rows [][]string
	for _, line := range strings.Split(string(data), "\r\n") {
		if line == "" {
			continue
		}
		trimmed := strings.TrimSuffix(line, `,`)
		trimmed = strings.TrimPrefix(trimmed, `"`)
		trimmed = strings.TrimSuffix(trimmed, `"`)
		rows = append(rows, strings.Split(trimmed, `","`))
	}
	return rows
}

func TestDataset_MarshalRoundTrip(t *testing.T) {
	t.Parallel()

	ds := importer.NewDataset("areas.txt", []string{"MasterProductID", "SideName", "ClipOut"})
	ds.AppendRow([]string{"p-1", "Back", "false"})
	ds.AppendRow([]string{"p-2", "Front", "true"})

	data, err := ds.Marshal()
	require.NoError(t, err)

	rows := parseDataset(t, data)
	assert.Equal(t, [][]string{
		{"MasterProductID", "SideName", "ClipOut"},
		{"p-1", "Back", "false"},
		{"p-2", "Front", "true"},
	}, rows)
}

func TestDataset_MarshalFormat(t *testing.T) {
	t.Parallel()

	ds := importer.NewDataset("sides.txt", []string{"A", "B"})
	ds.AppendRow([]string{"1", "2"})

	data, err := ds.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "\"A\",\"B\",\r\n\"1\",\"2\",\r\n", string(data))
}

func TestDataset_MarshalHeaderOnly(t *testing.T) {
	t.Parallel()

	ds := importer.NewDataset("products.txt", []string{"A"})

	_, err := ds.Marshal()
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrTooFewRows)
}

func TestDataset_MarshalRowWidthMismatch(t *testing.T) {
	t.Parallel()

	ds := importer.NewDataset("products.txt", []string{"A", "B", "C"})
	ds.AppendRow([]string{"1", "2", "3"})
	ds.AppendRow([]string{"short"})

	_, err := ds.Marshal()
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrRowWidth)
	assert.Contains(t, err.Error(), "row 2")
}
