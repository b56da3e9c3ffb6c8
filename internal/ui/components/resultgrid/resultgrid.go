// Package resultgrid renders query results as a windowed table: only the
// rows near the viewport are materialized into styled strings, so result
// sets in the tens of thousands of rows stay responsive.
package resultgrid

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/sqlrunner/internal/query"
	"github.com/nhath/sqlrunner/internal/ui/format"
)

const (
	// Overscan is how many rows beyond the viewport are materialized.
	Overscan = 10
	// LoadMoreThreshold triggers the next batch when the rendered window
	// comes within this many rows of the displayed end.
	LoadMoreThreshold = 10
	// BatchDelay spaces out progressive batch appends.
	BatchDelay = 150 * time.Millisecond
	// DefaultBatch is the initial batch size.
	DefaultBatch = 100
)

// BatchOptions are the selectable progressive-load batch sizes.
var BatchOptions = []int{100, 200, 500, 1000, 2000}

// batchAppliedMsg lands after BatchDelay to append the next batch.
type batchAppliedMsg struct{ seq int }

// Styles controls grid rendering.
type Styles struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Null     lipgloss.Style
	Footer   lipgloss.Style
}

// Model is the grid state. Column widths and visibility live here, local
// to the renderer: they survive result swaps but never mutate the result.
type Model struct {
	columns   []query.ColumnDefinition
	rows      []query.Row
	totalRows int

	displayed   int // rows available to the viewport so far
	batch       int
	loadingMore bool
	loadSeq     int // stale batch ticks carry an old seq and are dropped

	cursor    int
	offset    int
	colOffset int

	width  int
	height int
	styles Styles
}

// New builds an empty grid.
func New(styles Styles) Model {
	return Model{batch: DefaultBatch, styles: styles}
}

// WithBatch sets the starting batch size. Values outside the selectable
// options are ignored.
func (m Model) WithBatch(n int) Model {
	for _, opt := range BatchOptions {
		if opt == n {
			m.batch = n
			break
		}
	}
	return m
}

// SetSize sets the viewport dimensions in cells.
func (m Model) SetSize(w, h int) Model {
	m.width = w
	m.height = h
	return m.clampScroll()
}

// SetResult swaps in a new result. Persisted visibility overrides (column
// key -> hidden) are applied to the renderer-local column copies.
func (m Model) SetResult(res *query.Result, hidden map[string]bool) Model {
	if res == nil {
		m.columns = nil
		m.rows = nil
		m.totalRows = 0
		m.displayed = 0
		m.cursor, m.offset, m.colOffset = 0, 0, 0
		return m
	}
	cols := make([]query.ColumnDefinition, len(res.Columns))
	copy(cols, res.Columns)
	for i := range cols {
		if cols[i].Width < query.MinColumnWidth {
			cols[i].Width = query.MinColumnWidth
		}
		if hidden[cols[i].Key] {
			cols[i].Visible = false
		}
	}
	m.columns = cols
	m.rows = res.Rows
	m.totalRows = res.TotalRows
	m.displayed = min(m.batch, len(res.Rows))
	m.cursor, m.offset, m.colOffset = 0, 0, 0
	m.loadingMore = false
	m.loadSeq++
	return m
}

// Columns returns the renderer-local column state.
func (m Model) Columns() []query.ColumnDefinition { return m.columns }

// Rows returns the full backing row slice.
func (m Model) Rows() []query.Row { return m.rows }

// Displayed reports how many rows have been made available so far.
func (m Model) Displayed() int { return m.displayed }

// Cursor returns the selected row index.
func (m Model) Cursor() int { return m.cursor }

// Batch returns the current batch size.
func (m Model) Batch() int { return m.batch }

// CycleBatch advances to the next batch size option.
func (m Model) CycleBatch() Model {
	for i, opt := range BatchOptions {
		if opt == m.batch {
			m.batch = BatchOptions[(i+1)%len(BatchOptions)]
			return m
		}
	}
	m.batch = DefaultBatch
	return m
}

// ToggleColumn flips a column's visibility and returns the hidden-key set
// for persistence.
func (m Model) ToggleColumn(key string) (Model, map[string]bool) {
	hidden := make(map[string]bool)
	for i := range m.columns {
		if m.columns[i].Key == key {
			m.columns[i].Visible = !m.columns[i].Visible
		}
		if !m.columns[i].Visible {
			hidden[m.columns[i].Key] = true
		}
	}
	return m.clampScroll(), hidden
}

// ResizeColumn adjusts a column's width, clamped at the minimum.
func (m Model) ResizeColumn(key string, delta int) Model {
	for i := range m.columns {
		if m.columns[i].Key != key {
			continue
		}
		w := m.columns[i].Width + delta
		if w < query.MinColumnWidth {
			w = query.MinColumnWidth
		}
		m.columns[i].Width = w
	}
	return m
}

// pageSize is the number of data rows the viewport can show.
func (m Model) pageSize() int {
	// header + separator + footer
	p := m.height - 3
	if p < 1 {
		p = 1
	}
	return p
}

// renderedRange is the materialized window: the viewport plus overscan on
// both sides, clamped to the displayed rows.
func (m Model) renderedRange() (start, stop int) {
	start = m.offset - Overscan
	if start < 0 {
		start = 0
	}
	stop = m.offset + m.pageSize() + Overscan
	if stop > m.displayed {
		stop = m.displayed
	}
	return start, stop
}

// needMore reports whether the rendered window is close enough to the
// displayed end to warrant the next batch.
func (m Model) needMore() bool {
	if m.loadingMore || m.displayed >= len(m.rows) {
		return false
	}
	_, stop := m.renderedRange()
	return m.displayed-stop <= LoadMoreThreshold
}

// maybeLoadMore schedules a batch append when the window demands one. The
// guard flag keeps concurrent ticks from stacking.
func (m Model) maybeLoadMore() (Model, tea.Cmd) {
	if !m.needMore() {
		return m, nil
	}
	m.loadingMore = true
	seq := m.loadSeq
	return m, tea.Tick(BatchDelay, func(time.Time) tea.Msg {
		return batchAppliedMsg{seq: seq}
	})
}

// Update handles navigation keys and batch ticks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case batchAppliedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.loadingMore = false
		m.displayed = min(m.displayed+m.batch, len(m.rows))
		return m.maybeLoadMore()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.cursor--
		case "down", "j":
			m.cursor++
		case "pgup":
			m.cursor -= m.pageSize()
		case "pgdown":
			m.cursor += m.pageSize()
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = m.displayed - 1
		case "left", "h":
			if m.colOffset > 0 {
				m.colOffset--
			}
		case "right", "l":
			if m.colOffset < len(m.visibleColumns())-1 {
				m.colOffset++
			}
		default:
			return m, nil
		}
		m = m.clampScroll()
		return m.maybeLoadMore()
	}
	return m, nil
}

func (m Model) clampScroll() Model {
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > m.displayed-1 {
		m.cursor = m.displayed - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
	return m
}

func (m Model) visibleColumns() []query.ColumnDefinition {
	out := make([]query.ColumnDefinition, 0, len(m.columns))
	for _, c := range m.columns {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// fitColumns picks the columns that fit the viewport width starting at the
// horizontal scroll offset. Terminal cells are narrower than the pixel
// widths the column definitions carry, so widths are scaled down.
func (m Model) fitColumns() []query.ColumnDefinition {
	visible := m.visibleColumns()
	if m.colOffset >= len(visible) {
		return nil
	}
	var out []query.ColumnDefinition
	used := 0
	for _, c := range visible[m.colOffset:] {
		w := c.Width / 8
		if w < 6 {
			w = 6
		}
		if used+w+3 > m.width && len(out) > 0 {
			break
		}
		c.Width = w
		out = append(out, c)
		used += w + 3
	}
	return out
}

func pad(s string, w int) string {
	if lipgloss.Width(s) > w {
		if w <= 1 {
			return "…"
		}
		return lipgloss.NewStyle().MaxWidth(w - 1).Render(s) + "…"
	}
	return s + strings.Repeat(" ", w-lipgloss.Width(s))
}

// View renders the visible window.
func (m Model) View() string {
	if len(m.rows) == 0 {
		return m.styles.Footer.Render("No results to display")
	}

	cols := m.fitColumns()
	var b strings.Builder

	// Header
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = pad(c.Label, c.Width)
	}
	b.WriteString(m.styles.Header.Render(strings.Join(cells, " │ ")))
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(strings.Repeat("─", min(m.width, lipgloss.Width(strings.Join(cells, " │ "))))))
	b.WriteString("\n")

	// Rows in the viewport
	end := min(m.offset+m.pageSize(), m.displayed)
	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		for j, c := range cols {
			v := format.Cell(row[c.Key], c.Type)
			styled := pad(v, c.Width)
			if row[c.Key] == nil {
				styled = m.styles.Null.Render(styled)
			}
			cells[j] = styled
		}
		line := strings.Join(cells, " │ ")
		if i == m.cursor {
			line = m.styles.Selected.Render(line)
		} else {
			line = m.styles.Cell.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Footer
	status := fmt.Sprintf("%s of %s rows", format.Number(float64(m.displayed)), format.Number(float64(m.totalRows)))
	if m.loadingMore {
		status += " · loading more…"
	}
	b.WriteString(m.styles.Footer.Render(status))
	return b.String()
}
