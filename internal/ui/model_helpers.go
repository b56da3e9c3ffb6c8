// internal/ui/model_helpers.go
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// matchKey reports whether the pressed key matches any configured chord.
func matchKey(msg tea.KeyMsg, chords []string) bool {
	pressed := msg.String()
	for _, chord := range chords {
		if pressed == chord {
			return true
		}
	}
	return false
}

// resultsHeight is the vertical space left for the grid after the tab bar,
// editor and status bar.
func (m Model) resultsHeight() int {
	h := m.height - m.editor.Height() - 4
	if h < 3 {
		h = 3
	}
	return h
}

// adjacentTabID returns the id of the tab offset steps from the active
// one, wrapping around.
func (m Model) adjacentTabID(offset int) string {
	ts := m.tabManager.Tabs()
	active := m.tabManager.ActiveTabID()
	for i, t := range ts {
		if t.ID == active {
			idx := (i + offset + len(ts)) % len(ts)
			return ts[idx].ID
		}
	}
	return ts[0].ID
}

func limitString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
