package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/sqlrunner/internal/query"
)

var testColumns = []query.ColumnDefinition{
	{Key: "id", Label: "ID", Type: query.TypeNumber, Width: 80, Visible: true},
	{Key: "name", Label: "Name", Type: query.TypeString, Width: 150, Visible: true},
	{Key: "email", Label: "Email", Type: query.TypeString, Width: 200, Visible: true},
	{Key: "hidden", Label: "Hidden", Type: query.TypeString, Width: 100, Visible: false},
}

var testRows = []query.Row{
	{"id": 1.0, "name": "John Doe", "email": "john@example.com", "hidden": "secret1"},
	{"id": 2.0, "name": "Jane Smith", "email": "jane@example.com", "hidden": "secret2"},
}

func TestConvertToCSVBasic(t *testing.T) {
	out := ConvertToCSV(testColumns, testRows, Options{})
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Name,Email", lines[0])
	assert.Equal(t, "1,John Doe,john@example.com", lines[1])
	assert.Equal(t, "2,Jane Smith,jane@example.com", lines[2])
}

func TestConvertToCSVExcludesHiddenColumnsByDefault(t *testing.T) {
	out := ConvertToCSV(testColumns, testRows, Options{})
	assert.NotContains(t, out, "Hidden")
	assert.NotContains(t, out, "secret1")

	out = ConvertToCSV(testColumns, testRows, Options{AllColumns: true})
	assert.Contains(t, out, "Hidden")
	assert.Contains(t, out, "secret1")
}

func TestConvertToCSVSkipHeaders(t *testing.T) {
	out := ConvertToCSV(testColumns, testRows, Options{SkipHeaders: true})
	assert.True(t, strings.HasPrefix(out, "1,John Doe"))
}

func TestConvertToCSVCustomDelimiter(t *testing.T) {
	out := ConvertToCSV(testColumns, testRows, Options{Delimiter: ";"})
	assert.True(t, strings.HasPrefix(out, "ID;Name;Email"))
	// Comma no longer needs quoting but still gets it, since escaping
	// tracks the standard CSV specials rather than the active delimiter.
	assert.Contains(t, out, "1;John Doe;john@example.com")
}

func TestEscaping(t *testing.T) {
	rows := []query.Row{
		{"id": 1.0, "name": "Doe, John", "email": "a@b.c"},
		{"id": 2.0, "name": `John "Johnny" Doe`, "email": "a@b.c"},
		{"id": 3.0, "name": "John\nDoe", "email": "a@b.c"},
		{"id": 4.0, "name": "John\rDoe", "email": "a@b.c"},
		{"id": 5.0, "name": nil, "email": nil},
	}
	out := ConvertToCSV(testColumns, rows, Options{})

	assert.Contains(t, out, `"Doe, John"`)
	assert.Contains(t, out, `"John ""Johnny"" Doe"`)
	assert.Contains(t, out, "\"John\nDoe\"")
	assert.Contains(t, out, "\"John\rDoe\"")
	assert.Contains(t, out, "5,,")
}

func TestStringifyNumbers(t *testing.T) {
	rows := []query.Row{
		{"id": 1.0, "name": "a", "email": "x"},
		{"id": 2.5, "name": "b", "email": "y"},
		{"id": 1234567.0, "name": "c", "email": "z"},
	}
	out := ConvertToCSV(testColumns, rows, Options{SkipHeaders: true})
	lines := strings.Split(out, "\n")

	assert.Equal(t, "1,a,x", lines[0])
	assert.Equal(t, "2.5,b,y", lines[1])
	// No exponent notation or grouping in exports.
	assert.Equal(t, "1234567,c,z", lines[2])
}

func TestConvertToCSVEmptyRows(t *testing.T) {
	assert.Equal(t, "ID,Name,Email", ConvertToCSV(testColumns, nil, Options{}))
}

func TestEstimateSize(t *testing.T) {
	// 3 visible columns, 2 rows, 20 bytes per cell.
	assert.Equal(t, 120, EstimateSize(testColumns, testRows))
	assert.Equal(t, 0, EstimateSize(testColumns, nil))
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0 Bytes"},
		{500, "500 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{2621440, "2.5 MB"},
		{1073741824, "1 GB"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatBytes(tc.in), "bytes: %d", tc.in)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteFile(filepath.Join(dir, "out"), testColumns, testRows, Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.csv"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "\uFEFF"), "BOM prefix expected")
	assert.Contains(t, string(raw), "ID,Name,Email")
}
