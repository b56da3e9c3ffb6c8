package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhath/sqlrunner/internal/query"
)

func TestCellNil(t *testing.T) {
	assert.Equal(t, "—", Cell(nil, query.TypeString))
	assert.Equal(t, "—", Cell(nil, query.TypeNumber))
}

func TestCellNumbers(t *testing.T) {
	assert.Equal(t, "1,234,567", Cell(float64(1234567), query.TypeNumber))
	assert.Equal(t, "42", Cell(float64(42), query.TypeNumber))
	assert.Equal(t, "99.99", Cell(99.99, query.TypeNumber))
	assert.Equal(t, "7", Cell(7, query.TypeNumber))
	assert.Equal(t, "7", Cell(int64(7), query.TypeNumber))
}

func TestCellBooleans(t *testing.T) {
	assert.Equal(t, "Yes", Cell(true, query.TypeBoolean))
	assert.Equal(t, "No", Cell(false, query.TypeBoolean))
	// Untyped columns still render booleans readably.
	assert.Equal(t, "Yes", Cell(true, query.TypeString))
}

func TestCellStrings(t *testing.T) {
	assert.Equal(t, "hello", Cell("hello", query.TypeString))
	// Number-typed column with a non-numeric value falls through.
	assert.Equal(t, "n/a", Cell("n/a", query.TypeNumber))
}

func TestNumberGrouping(t *testing.T) {
	assert.Equal(t, "0", Number(0))
	assert.Equal(t, "1,000", Number(1000))
	assert.Equal(t, "-1,234", Number(-1234))
	assert.Equal(t, "3.14", Number(3.14))
}

func TestDatetimePlainDatePassesThrough(t *testing.T) {
	assert.Equal(t, "2024-06-01", Datetime("2024-06-01"))
	assert.Equal(t, "not a date", Datetime("not a date"))
	assert.Equal(t, "TBD", Datetime("TBD"))
}

func TestDatetimeParsesISO(t *testing.T) {
	in := "2024-06-01T15:04:05Z"
	want := time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC).Local().Format("Jan 2, 2006 3:04 PM")
	assert.Equal(t, want, Datetime(in))
}
