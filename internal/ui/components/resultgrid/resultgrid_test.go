package resultgrid

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/sqlrunner/internal/query"
)

func makeResult(n int) *query.Result {
	cols := []query.ColumnDefinition{
		{Key: "id", Label: "ID", Type: query.TypeNumber, Width: 80, Visible: true},
		{Key: "name", Label: "Name", Type: query.TypeString, Width: 10, Visible: true},
	}
	rows := make([]query.Row, n)
	for i := range rows {
		rows[i] = query.Row{"id": float64(i + 1), "name": fmt.Sprintf("row-%d", i+1)}
	}
	return &query.Result{Columns: cols, Rows: rows, TotalRows: n}
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	panic("unknown key " + s)
}

func TestSetResultInitialBatch(t *testing.T) {
	g := New(Styles{}).SetSize(120, 20)
	g = g.SetResult(makeResult(500), nil)

	assert.Equal(t, DefaultBatch, g.Displayed())
	assert.Equal(t, 500, len(g.Rows()))
	assert.Equal(t, 0, g.Cursor())
}

func TestSetResultSmallerThanBatch(t *testing.T) {
	g := New(Styles{})
	g = g.SetResult(makeResult(30), nil)
	assert.Equal(t, 30, g.Displayed())
}

func TestSetResultEnforcesMinWidth(t *testing.T) {
	g := New(Styles{}).SetResult(makeResult(5), nil)
	for _, c := range g.Columns() {
		assert.GreaterOrEqual(t, c.Width, query.MinColumnWidth)
	}
}

func TestSetResultAppliesHiddenSet(t *testing.T) {
	g := New(Styles{}).SetResult(makeResult(5), map[string]bool{"name": true})
	cols := g.Columns()
	require.Len(t, cols, 2)
	assert.True(t, cols[0].Visible)
	assert.False(t, cols[1].Visible)
}

func TestSetResultNilClears(t *testing.T) {
	g := New(Styles{}).SetResult(makeResult(5), nil)
	g = g.SetResult(nil, nil)
	assert.Empty(t, g.Columns())
	assert.Zero(t, g.Displayed())
}

func TestBatchAppend(t *testing.T) {
	g := New(Styles{}).SetSize(120, 20)
	g = g.SetResult(makeResult(250), nil)
	require.Equal(t, 100, g.Displayed())

	// Jump near the end of the displayed window so a load is warranted.
	g, cmd := g.Update(keyMsg("end"))
	require.NotNil(t, cmd, "load-more tick should be scheduled")

	g, _ = g.Update(batchAppliedMsg{seq: g.loadSeq})
	assert.Equal(t, 200, g.Displayed())

	g, _ = g.Update(batchAppliedMsg{seq: g.loadSeq})
	assert.Equal(t, 250, g.Displayed(), "final batch clamps to row count")
}

func TestStaleBatchTickDropped(t *testing.T) {
	g := New(Styles{}).SetSize(120, 20)
	g = g.SetResult(makeResult(250), nil)

	stale := g.loadSeq
	g = g.SetResult(makeResult(250), nil) // bumps the sequence
	g, _ = g.Update(batchAppliedMsg{seq: stale})
	assert.Equal(t, 100, g.Displayed())
}

func TestNeedMoreThreshold(t *testing.T) {
	g := New(Styles{}).SetSize(120, 20)
	g = g.SetResult(makeResult(250), nil)

	// At the top, the rendered window is nowhere near row 100.
	assert.False(t, g.needMore())

	g, _ = g.Update(keyMsg("end"))
	g.loadingMore = false
	assert.True(t, g.needMore())
}

func TestNeedMoreFalseWhenExhausted(t *testing.T) {
	g := New(Styles{}).SetSize(120, 20)
	g = g.SetResult(makeResult(50), nil)
	g, _ = g.Update(keyMsg("end"))
	assert.False(t, g.needMore())
}

func TestCursorClamping(t *testing.T) {
	g := New(Styles{}).SetSize(120, 10)
	g = g.SetResult(makeResult(5), nil)

	for i := 0; i < 20; i++ {
		g, _ = g.Update(keyMsg("down"))
	}
	assert.Equal(t, 4, g.Cursor())

	g, _ = g.Update(keyMsg("g"))
	assert.Equal(t, 0, g.Cursor())
}

func TestCycleBatch(t *testing.T) {
	g := New(Styles{})
	assert.Equal(t, 100, g.Batch())
	g = g.CycleBatch()
	assert.Equal(t, 200, g.Batch())
	g = g.CycleBatch()
	assert.Equal(t, 500, g.Batch())
	for i := 0; i < 3; i++ {
		g = g.CycleBatch()
	}
	assert.Equal(t, 100, g.Batch(), "options wrap around")
}

func TestWithBatch(t *testing.T) {
	g := New(Styles{}).WithBatch(500)
	assert.Equal(t, 500, g.Batch())

	g = New(Styles{}).WithBatch(123)
	assert.Equal(t, DefaultBatch, g.Batch(), "unknown sizes are ignored")
}

func TestToggleColumnReturnsHiddenSet(t *testing.T) {
	g := New(Styles{}).SetResult(makeResult(5), nil)

	g, hidden := g.ToggleColumn("name")
	assert.Equal(t, map[string]bool{"name": true}, hidden)

	g, hidden = g.ToggleColumn("name")
	assert.Empty(t, hidden)
}

func TestResizeColumnClampsAtMin(t *testing.T) {
	g := New(Styles{}).SetResult(makeResult(5), nil)
	g = g.ResizeColumn("id", -500)
	assert.Equal(t, query.MinColumnWidth, g.Columns()[0].Width)

	g = g.ResizeColumn("id", 30)
	assert.Equal(t, query.MinColumnWidth+30, g.Columns()[0].Width)
}

func TestViewShowsCounts(t *testing.T) {
	g := New(Styles{}).SetSize(120, 10)
	g = g.SetResult(makeResult(250), nil)

	out := g.View()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "100 of 250 rows")
}

func TestViewEmpty(t *testing.T) {
	g := New(Styles{}).SetSize(120, 10)
	assert.Contains(t, g.View(), "No results")
}
