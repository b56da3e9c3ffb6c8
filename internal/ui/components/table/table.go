// Package table builds bubble-table models from query results, used for
// the static views: share snapshots and expanded history entries.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/sqlrunner/internal/query"
	"github.com/nhath/sqlrunner/internal/ui/format"
)

// Nord palette
const (
	ColorForeground = "#D8DEE9"
	ColorComment    = "#4C566A"
	ColorGreen      = "#A3BE8C"
	ColorOrange     = "#D08770"
	ColorPurple     = "#B48EAD"
	ColorYellow     = "#EBCB8B"
	ColorTeal       = "#8FBCBB"
)

// New creates a bubble-table with the shared theme.
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorForeground))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorTeal)).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGreen)).
			Bold(true)).
		Focused(true).
		BorderRounded()
}

// FromResult builds a paginated table from a result, formatting cells the
// same way the live grid does. maxRows of 0 means all rows.
func FromResult(res *query.Result, maxRows int) bbtable.Model {
	if res == nil {
		return bbtable.New(nil)
	}

	visible := make([]query.ColumnDefinition, 0, len(res.Columns))
	for _, c := range res.Columns {
		if c.Visible {
			visible = append(visible, c)
		}
	}

	rows := res.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	rendered := make([][]string, len(rows))
	for i, r := range rows {
		line := make([]string, len(visible))
		for j, c := range visible {
			line[j] = format.Cell(r[c.Key], c.Type)
		}
		rendered[i] = line
	}

	widths := fitWidths(visible, rendered)
	cols := make([]bbtable.Column, len(visible))
	for i, c := range visible {
		cols[i] = bbtable.NewColumn(c.Key, c.Label, widths[i])
	}

	var tableRows []bbtable.Row
	for i, r := range rows {
		data := bbtable.RowData{}
		for j, c := range visible {
			data[c.Key] = bbtable.NewStyledCell(rendered[i][j], cellStyle(r[c.Key], c.Type))
		}
		tableRows = append(tableRows, bbtable.NewRow(data))
	}

	return New(cols).
		WithRows(tableRows).
		WithPageSize(20).
		WithStaticFooter("q close · n/p page")
}

// fitWidths sizes each column to its widest rendered cell, capped at 40.
func fitWidths(cols []query.ColumnDefinition, rendered [][]string) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c.Label)
	}
	for _, row := range rendered {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] += 2
		if widths[i] > 40 {
			widths[i] = 40
		}
	}
	return widths
}

func cellStyle(v any, colType query.ColumnType) lipgloss.Style {
	if v == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple)).Italic(true)
	}
	switch colType {
	case query.TypeNumber:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple))
	case query.TypeBoolean:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOrange))
	case query.TypeDate:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorTeal))
	}
	if s, ok := v.(string); ok && strings.EqualFold(s, "null") {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorComment)).Italic(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow))
}
