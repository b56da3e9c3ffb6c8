package tabs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/sqlrunner/internal/query"
	"github.com/nhath/sqlrunner/internal/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.Store) {
	t.Helper()
	s, err := storage.Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	m := NewManager(s)
	t.Cleanup(m.Close)
	return m, s
}

func TestNewManagerStartsWithOneActiveTab(t *testing.T) {
	m, _ := newTestManager(t)

	ts := m.Tabs()
	require.Len(t, ts, 1)
	assert.Equal(t, "Query 1", ts[0].Name)
	assert.Equal(t, DefaultSQL, ts[0].SQL)
	assert.Equal(t, ts[0].ID, m.ActiveTabID())
}

func TestAddTabAppendsAndActivates(t *testing.T) {
	m, _ := newTestManager(t)

	tab := m.AddTab("")
	assert.Equal(t, "Query 2", tab.Name)
	assert.Len(t, m.Tabs(), 2)
	assert.Equal(t, tab.ID, m.ActiveTabID())
}

func TestCollectionNeverEmpty(t *testing.T) {
	m, _ := newTestManager(t)

	// Arbitrary add/close sequence; the invariant must hold throughout and
	// the active id must always resolve to a present tab.
	m.AddTab("")
	m.AddTab("")
	for i := 0; i < 6; i++ {
		ts := m.Tabs()
		m.CloseTab(ts[0].ID)

		ts = m.Tabs()
		require.GreaterOrEqual(t, len(ts), 1)
		found := false
		for _, tab := range ts {
			if tab.ID == m.ActiveTabID() {
				found = true
			}
		}
		assert.True(t, found, "active id must refer to an open tab")
	}
}

func TestCloseLastTabReplacesWithFreshTab(t *testing.T) {
	m, _ := newTestManager(t)

	old := m.Tabs()[0]
	m.CloseTab(old.ID)

	ts := m.Tabs()
	require.Len(t, ts, 1)
	assert.NotEqual(t, old.ID, ts[0].ID)
	assert.Equal(t, ts[0].ID, m.ActiveTabID())
}

func TestCloseActiveTabActivatesAdjacent(t *testing.T) {
	m, _ := newTestManager(t)

	a := m.Tabs()[0]
	b := m.AddTab("B")
	c := m.AddTab("C")
	require.Equal(t, c.ID, m.ActiveTabID())

	// Closing the last tab falls back to the new last tab.
	m.CloseTab(c.ID)
	assert.Equal(t, b.ID, m.ActiveTabID())

	// Closing a middle tab keeps the index position.
	d := m.AddTab("D")
	m.SetActiveTab(b.ID)
	m.CloseTab(b.ID)
	assert.Equal(t, d.ID, m.ActiveTabID())
	_ = a
}

func TestCloseInactiveTabKeepsSelection(t *testing.T) {
	m, _ := newTestManager(t)

	a := m.Tabs()[0]
	b := m.AddTab("B")
	m.CloseTab(a.ID)
	assert.Equal(t, b.ID, m.ActiveTabID())
}

func TestCloseUnknownTabIsNoOp(t *testing.T) {
	m, _ := newTestManager(t)
	m.AddTab("B")

	before := m.Tabs()
	m.CloseTab("no-such-id")
	assert.Equal(t, before, m.Tabs())
}

func TestUpdateTabSQLPreservesOtherTabs(t *testing.T) {
	m, _ := newTestManager(t)

	a := m.Tabs()[0]
	b := m.AddTab("B")
	m.UpdateTabSQL(a.ID, "SELECT 1")

	ts := m.Tabs()
	assert.Equal(t, "SELECT 1", ts[0].SQL)
	assert.Equal(t, b.SQL, ts[1].SQL)
}

func TestSetTabResultStampsCompletion(t *testing.T) {
	m, _ := newTestManager(t)
	m.now = func() time.Time { return time.UnixMilli(1700000000000) }

	tab := m.Tabs()[0]
	m.SetTabExecuting(tab.ID, true)
	assert.True(t, m.Tabs()[0].IsExecuting)

	res := &query.Result{TotalRows: 3, Rows: make([]query.Row, 3)}
	m.SetTabResult(tab.ID, res, "")

	got := m.Tabs()[0]
	assert.False(t, got.IsExecuting)
	assert.Equal(t, res, got.Result)
	assert.Empty(t, got.Error)
	assert.Equal(t, int64(1700000000000), got.ExecutedAt)
}

func TestLoadSQLWritesActiveTabOnly(t *testing.T) {
	m, _ := newTestManager(t)

	a := m.Tabs()[0]
	b := m.AddTab("B")
	m.LoadSQL("SELECT 42")

	ts := m.Tabs()
	assert.Equal(t, a.SQL, ts[0].SQL)
	assert.Equal(t, "SELECT 42", ts[1].SQL)
	_ = b
}

func TestDuplicateTabClonesContent(t *testing.T) {
	m, _ := newTestManager(t)

	src := m.Tabs()[0]
	m.UpdateTabSQL(src.ID, "SELECT * FROM orders")

	clone := m.DuplicateTab(src.ID)
	require.NotNil(t, clone)
	assert.NotEqual(t, src.ID, clone.ID)
	assert.Equal(t, "Query 1 (copy)", clone.Name)
	assert.Equal(t, "SELECT * FROM orders", clone.SQL)
	assert.Equal(t, clone.ID, m.ActiveTabID())

	assert.Nil(t, m.DuplicateTab("no-such-id"))
}

func TestExecutionStateNeverPersists(t *testing.T) {
	m, s := newTestManager(t)

	tab := m.Tabs()[0]
	m.SetTabResult(tab.ID, &query.Result{TotalRows: 1, Rows: make([]query.Row, 1)}, "")
	require.NotNil(t, m.Tabs()[0].Result)

	// A second manager over the same store simulates a process restart: it
	// must never see a tab mid-run or with a stale result.
	m2 := NewManager(s)
	defer m2.Close()

	got := m2.Tabs()[0]
	assert.Equal(t, tab.ID, got.ID)
	assert.False(t, got.IsExecuting)
	assert.Nil(t, got.Result)
	assert.Empty(t, got.Error)
	assert.Zero(t, got.ExecutedAt)
}
