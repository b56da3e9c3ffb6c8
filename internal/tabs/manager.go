// Package tabs owns the collection of open query tabs and the active-tab
// selection, persisted through the reactive storage bindings.
package tabs

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhath/sqlrunner/internal/query"
	"github.com/nhath/sqlrunner/internal/storage"
)

// DefaultSQL is the starting buffer for a fresh tab.
const DefaultSQL = `-- Write your SQL query here
-- Try: SELECT * FROM employees (10,000 rows available)
SELECT * FROM employees
WHERE is_active = true;
`

func newTab(name string) query.Tab {
	if name == "" {
		name = "New Query"
	}
	return query.Tab{
		ID:   uuid.NewString(),
		Name: name,
		SQL:  DefaultSQL,
	}
}

// sanitize clears execution state on every read path: a reload must never
// show a tab as still running, and stale results are not resumable.
func sanitize(ts []query.Tab) []query.Tab {
	out := make([]query.Tab, len(ts))
	for i, t := range ts {
		t.IsExecuting = false
		t.Result = nil
		t.Error = ""
		t.ExecutedAt = 0
		out[i] = t
	}
	return out
}

// Manager is the tab state machine. All mutations replace the whole
// collection snapshot, so no partially-updated state is ever observable.
type Manager struct {
	tabs   *storage.Binding[[]query.Tab]
	active *storage.Binding[string]
	now    func() time.Time
}

// NewManager loads persisted tabs (sanitized) and the active-tab selection.
func NewManager(store *storage.Store) *Manager {
	first := newTab("Query 1")
	tabsBinding := storage.NewBinding(store, storage.KeyQueryTabs, []query.Tab{first}, sanitize)
	activeBinding := storage.NewBinding(store, storage.KeyActiveTab, "", nil)

	m := &Manager{
		tabs:   tabsBinding,
		active: activeBinding,
		now:    time.Now,
	}
	if m.active.Get() == "" {
		m.active.Set(m.Tabs()[0].ID)
	}
	return m
}

// Close detaches the manager's bindings.
func (m *Manager) Close() {
	m.tabs.Close()
	m.active.Close()
}

// Tabs returns the current collection, never empty.
func (m *Manager) Tabs() []query.Tab {
	ts := m.tabs.Get()
	if len(ts) == 0 {
		fresh := newTab("Query 1")
		m.tabs.Set([]query.Tab{fresh})
		m.active.Set(fresh.ID)
		return []query.Tab{fresh}
	}
	return ts
}

// ActiveTabID returns the active tab's id.
func (m *Manager) ActiveTabID() string { return m.active.Get() }

// ActiveTab returns the active tab, falling back to the first tab when the
// stored id no longer resolves.
func (m *Manager) ActiveTab() query.Tab {
	ts := m.Tabs()
	id := m.active.Get()
	for _, t := range ts {
		if t.ID == id {
			return t
		}
	}
	return ts[0]
}

// SetActiveTab selects a tab. Unknown ids are ignored.
func (m *Manager) SetActiveTab(id string) {
	for _, t := range m.Tabs() {
		if t.ID == id {
			m.active.Set(id)
			return
		}
	}
}

// AddTab appends a fresh tab, activates it and returns it.
func (m *Manager) AddTab(name string) query.Tab {
	ts := m.Tabs()
	if name == "" {
		name = fmt.Sprintf("Query %d", len(ts)+1)
	}
	tab := newTab(name)
	m.tabs.Set(append(ts, tab))
	m.active.Set(tab.ID)
	return tab
}

// CloseTab removes a tab. Closing the sole remaining tab replaces it with a
// fresh default tab, so the collection is never empty. When the active tab
// is closed, the adjacent tab at min(removedIndex, lastIndex) is activated.
func (m *Manager) CloseTab(id string) {
	ts := m.Tabs()
	if len(ts) <= 1 {
		fresh := newTab("Query 1")
		m.tabs.Set([]query.Tab{fresh})
		m.active.Set(fresh.ID)
		return
	}

	idx := -1
	remaining := make([]query.Tab, 0, len(ts)-1)
	for i, t := range ts {
		if t.ID == id {
			idx = i
			continue
		}
		remaining = append(remaining, t)
	}
	if idx == -1 {
		return
	}
	m.tabs.Set(remaining)

	if id == m.active.Get() {
		next := idx
		if next > len(remaining)-1 {
			next = len(remaining) - 1
		}
		m.active.Set(remaining[next].ID)
	}
}

// UpdateTabSQL replaces a tab's SQL text.
func (m *Manager) UpdateTabSQL(id, sql string) {
	m.patch(id, func(t query.Tab) query.Tab {
		t.SQL = sql
		return t
	})
}

// UpdateTabName renames a tab.
func (m *Manager) UpdateTabName(id, name string) {
	m.patch(id, func(t query.Tab) query.Tab {
		t.Name = name
		return t
	})
}

// SetTabExecuting toggles the execution flag only.
func (m *Manager) SetTabExecuting(id string, executing bool) {
	m.patch(id, func(t query.Tab) query.Tab {
		t.IsExecuting = executing
		return t
	})
}

// SetTabResult records the outcome of a run: result or error message,
// execution flag cleared and the completion time stamped.
func (m *Manager) SetTabResult(id string, result *query.Result, errMsg string) {
	now := m.now().UnixMilli()
	m.patch(id, func(t query.Tab) query.Tab {
		t.Result = result
		t.Error = errMsg
		t.IsExecuting = false
		t.ExecutedAt = now
		return t
	})
}

// LoadSQL writes sql into the active tab.
func (m *Manager) LoadSQL(sql string) {
	m.UpdateTabSQL(m.ActiveTab().ID, sql)
}

// DuplicateTab clones a tab's content under a new id, suffixes the name
// with " (copy)", activates the clone and returns it. Returns nil when the
// source id is unknown.
func (m *Manager) DuplicateTab(id string) *query.Tab {
	ts := m.Tabs()
	for _, t := range ts {
		if t.ID != id {
			continue
		}
		clone := t
		clone.ID = uuid.NewString()
		clone.Name = t.Name + " (copy)"
		clone.IsExecuting = false
		m.tabs.Set(append(ts, clone))
		m.active.Set(clone.ID)
		return &clone
	}
	return nil
}

// OnChange registers a callback fired when another instance or process
// rewrites the tab collection.
func (m *Manager) OnChange(fn func([]query.Tab)) {
	m.tabs.OnChange(fn)
}

// patch maps one tab through fn, preserving every other tab's identity.
func (m *Manager) patch(id string, fn func(query.Tab) query.Tab) {
	m.tabs.Update(func(prev []query.Tab) []query.Tab {
		out := make([]query.Tab, len(prev))
		for i, t := range prev {
			if t.ID == id {
				t = fn(t)
			}
			out[i] = t
		}
		return out
	})
}
