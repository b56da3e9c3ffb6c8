// Package export converts query results to CSV with spreadsheet-friendly
// quoting and writes them to disk.
package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nhath/sqlrunner/internal/query"
)

// DefaultFilename is the base name used when the caller provides none.
const DefaultFilename = "query_results"

// Options controls CSV conversion. The zero value exports visible columns
// only, with headers, comma-delimited.
type Options struct {
	Delimiter   string // defaults to ","
	SkipHeaders bool
	AllColumns  bool // include hidden columns too
}

// escapeValue quotes a cell when it contains the characters a spreadsheet
// would misparse, doubling any embedded quotes.
func escapeValue(v any) string {
	if v == nil {
		return ""
	}
	s := stringify(v)
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// stringify renders a cell value without exponent notation or trailing
// zeros on numbers.
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func exportColumns(columns []query.ColumnDefinition, all bool) []query.ColumnDefinition {
	if all {
		return columns
	}
	out := make([]query.ColumnDefinition, 0, len(columns))
	for _, c := range columns {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// ConvertToCSV renders rows as CSV text, newline-joined without a trailing
// newline. Hidden columns are excluded unless opts.AllColumns is set.
func ConvertToCSV(columns []query.ColumnDefinition, rows []query.Row, opts Options) string {
	delim := opts.Delimiter
	if delim == "" {
		delim = ","
	}
	cols := exportColumns(columns, opts.AllColumns)

	var lines []string
	if !opts.SkipHeaders {
		header := make([]string, len(cols))
		for i, c := range cols {
			header[i] = escapeValue(c.Label)
		}
		lines = append(lines, strings.Join(header, delim))
	}
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = escapeValue(row[c.Key])
		}
		lines = append(lines, strings.Join(cells, delim))
	}
	return strings.Join(lines, "\n")
}

// EstimateSize predicts the export size in bytes from the row and visible
// column counts, assuming 20 bytes per cell.
func EstimateSize(columns []query.ColumnDefinition, rows []query.Row) int {
	visible := 0
	for _, c := range columns {
		if c.Visible {
			visible++
		}
	}
	return len(rows) * visible * 20
}

// FormatBytes renders a byte count with base-1024 units, trimming trailing
// zeros: "0 Bytes", "1 KB", "1.5 KB".
func FormatBytes(bytes int) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + units[i]
}

// WriteFile writes the CSV to filename (extended to an absolute path and a
// .csv extension, with the date stamped into the default name) and returns
// the final path. A UTF-8 BOM is prepended so spreadsheets detect the
// encoding.
func WriteFile(filename string, columns []query.ColumnDefinition, rows []query.Row, opts Options) (string, error) {
	if filename == "" {
		filename = fmt.Sprintf("%s_%s", DefaultFilename, time.Now().Format("2006-01-02"))
	}
	path := filename
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		path = filepath.Join(cwd, path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		path += ".csv"
	}

	content := "\uFEFF" + ConvertToCSV(columns, rows, opts)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}
