package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableData(t *testing.T) {
	table := NewTableData("Path", "Dir")

	assert.Equal(t, []string{"Path", "Dir"}, table.Headers())
	assert.Empty(t, table.Rows())
	assert.Empty(t, table.Footer())

	table.AddRow("/uploads/a.png", "uploads")
	table.AddRow("/uploads/thumbs/a-thumb.png", "thumbs")

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"/uploads/a.png", "uploads"}, rows[0])
	assert.Equal(t, []string{"/uploads/thumbs/a-thumb.png", "thumbs"}, rows[1])
}

func TestPrintTable(t *testing.T) {
	table := NewTableData("Path", "Status")
	table.AddRow("/uploads/a.png", "deleted")
	table.AddRow("/uploads/b.png", "missing")
	table.SetFooter("2 files", "")

	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, table))

	out := buf.String()
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "/uploads/a.png")
	assert.Contains(t, out, "deleted")
	assert.Contains(t, out, "/uploads/b.png")
	assert.Contains(t, out, "2 FILES")
}

func TestKeyValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, KeyValues(&buf, [][2]string{
		{"Candidates", "3"},
		{"Orphans", "1"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Candidates")
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "Orphans")
}
