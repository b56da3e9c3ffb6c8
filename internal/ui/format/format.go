// Package format renders result cell values for display.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/nhath/sqlrunner/internal/query"
)

// NullCell is shown for missing values.
const NullCell = "—"

var printer = message.NewPrinter(language.English)

// Cell renders a value according to the column's display type: numbers get
// locale grouping, booleans become Yes/No, ISO timestamps become readable
// datetimes and nil becomes an em dash.
func Cell(v any, colType query.ColumnType) string {
	if v == nil {
		return NullCell
	}

	switch colType {
	case query.TypeNumber:
		if f, ok := toFloat(v); ok {
			return Number(f)
		}
	case query.TypeBoolean:
		if b, ok := v.(bool); ok {
			if b {
				return "Yes"
			}
			return "No"
		}
	case query.TypeDate:
		if s, ok := v.(string); ok {
			return Datetime(s)
		}
	}

	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case float64:
		return Number(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Number renders a float with thousands separators, keeping fractional
// digits only when the value has them.
func Number(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return printer.Sprint(number.Decimal(int64(f)))
	}
	return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(4)))
}

// Datetime renders ISO timestamps as a readable local datetime. Plain
// dates (no "T") and unparseable strings pass through unchanged.
func Datetime(s string) string {
	if !strings.Contains(s, "T") {
		return s
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}
