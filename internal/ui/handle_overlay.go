// internal/ui/handle_overlay.go
// Key handling for the full-screen browsing overlays.
package ui

import (
	"sort"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/sqlrunner/internal/config"
	eztable "github.com/nhath/sqlrunner/internal/ui/components/table"
)

func (m Model) handleOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.overlay = OverlayNone
		m.expandedID = ""
		m.expandedTable = bbtable.Model{}
		return m, nil
	}

	switch m.overlay {
	case OverlayHistory:
		return m.handleHistoryOverlay(msg)
	case OverlaySaved:
		return m.handleSavedOverlay(msg)
	case OverlayShares:
		return m.handleSharesOverlay(msg)
	case OverlayColumns:
		return m.handleColumnsOverlay(msg)
	case OverlayTheme:
		return m.handleThemeOverlay(msg)
	case OverlayHelp:
		// Any other key closes help too.
		m.overlay = OverlayNone
		return m, nil
	}
	return m, nil
}

// handleSharesOverlay browses share snapshots; a selected snapshot opens
// as a paginated table.
func (m Model) handleSharesOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snaps := m.shareStore.List()

	if m.expandedID != "" {
		switch msg.String() {
		case "enter", "o":
			m.expandedID = ""
			m.expandedTable = bbtable.Model{}
			return m, nil
		}
		var cmd tea.Cmd
		m.expandedTable, cmd = m.expandedTable.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.overlaySel > 0 {
			m.overlaySel--
		}
	case "down", "j":
		if m.overlaySel < len(snaps)-1 {
			m.overlaySel++
		}
	case "enter", "o":
		if m.overlaySel < len(snaps) && snaps[m.overlaySel].Result != nil {
			m.expandedID = snaps[m.overlaySel].ID
			m.expandedTable = eztable.FromResult(snaps[m.overlaySel].Result, 0).
				WithMaxTotalWidth(m.width - 8)
		}
	case "d":
		if m.overlaySel < len(snaps) {
			m.shareStore.Delete(snaps[m.overlaySel].ID)
			if m.overlaySel > 0 {
				m.overlaySel--
			}
		}
	}
	return m, nil
}

func (m Model) handleHistoryOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.overlaySel > 0 {
			m.overlaySel--
		}
	case "down", "j":
		if m.overlaySel < len(m.historyItems)-1 {
			m.overlaySel++
		}
	case "enter", "e":
		// Load the entry into the active tab.
		if m.overlaySel < len(m.historyItems) {
			m.tabManager.LoadSQL(m.historyItems[m.overlaySel].SQL)
			m.editor.SetValue(m.historyItems[m.overlaySel].SQL)
			m.overlay = OverlayNone
			m.mode = InsertMode
			m.editor.Focus()
			return m, textarea.Blink
		}
	case "x":
		m.historyStore.Clear()
		m.historyItems = nil
		m.overlaySel = 0
	}
	return m, nil
}

func (m Model) handleSavedOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.overlaySel > 0 {
			m.overlaySel--
		}
	case "down", "j":
		if m.overlaySel < len(m.savedItems)-1 {
			m.overlaySel++
		}
	case "enter", "e":
		if m.overlaySel < len(m.savedItems) {
			m.tabManager.LoadSQL(m.savedItems[m.overlaySel].SQL)
			m.editor.SetValue(m.savedItems[m.overlaySel].SQL)
			m.overlay = OverlayNone
			m.mode = InsertMode
			m.editor.Focus()
			return m, textarea.Blink
		}
	case "d":
		if m.overlaySel < len(m.savedItems) {
			m.savedStore.Delete(m.savedItems[m.overlaySel].ID)
			m.savedItems = m.savedStore.List()
			if m.overlaySel >= len(m.savedItems) && m.overlaySel > 0 {
				m.overlaySel--
			}
		}
	}
	return m, nil
}

func (m Model) handleColumnsOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.grid.Columns()
	switch msg.String() {
	case "up", "k":
		if m.overlaySel > 0 {
			m.overlaySel--
		}
	case "down", "j":
		if m.overlaySel < len(cols)-1 {
			m.overlaySel++
		}
	case "enter", " ":
		if m.overlaySel < len(cols) {
			var hidden map[string]bool
			m.grid, hidden = m.grid.ToggleColumn(cols[m.overlaySel].Key)
			m.columnVis.Set(hidden)
		}
	case "+", "=":
		if m.overlaySel < len(cols) {
			m.grid = m.grid.ResizeColumn(cols[m.overlaySel].Key, 10)
		}
	case "-":
		if m.overlaySel < len(cols) {
			m.grid = m.grid.ResizeColumn(cols[m.overlaySel].Key, -10)
		}
	}
	return m, nil
}

func (m Model) handleThemeOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := themeNames()
	switch msg.String() {
	case "up", "k":
		if m.overlaySel > 0 {
			m.overlaySel--
		}
	case "down", "j":
		if m.overlaySel < len(names)-1 {
			m.overlaySel++
		}
	case "enter":
		if m.overlaySel < len(names) {
			name := names[m.overlaySel]
			m.themeName.Set(name)
			if theme, ok := config.GetThemes()[name]; ok {
				InitStyles(theme)
				m.popup = m.popup.SetTheme(theme)
			}
			m.overlay = OverlayNone
		}
	}
	return m, nil
}

func themeNames() []string {
	themes := config.GetThemes()
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
