// internal/ui/handle_visual_mode.go
// Key handling for visual (results navigation) mode.
package ui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// handleVisualMode handles keys in visual mode. Navigation goes to the
// grid; single letters open the browsing overlays.
func (m Model) handleVisualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i", "enter":
		m.mode = InsertMode
		m.editor.Focus()
		return m, textarea.Blink

	case "y":
		m.overlay = OverlayHistory
		m.historyItems = m.historyStore.List()
		m.overlaySel = 0
		m.expandedID = ""
		return m, nil

	case "s":
		m.overlay = OverlaySaved
		m.savedItems = m.savedStore.List()
		m.overlaySel = 0
		return m, nil

	case "v":
		m.overlay = OverlayShares
		m.overlaySel = 0
		m.expandedID = ""
		return m, nil

	case "c":
		if len(m.grid.Columns()) > 0 {
			m.overlay = OverlayColumns
			m.overlaySel = 0
		}
		return m, nil

	case "t":
		m.overlay = OverlayTheme
		m.overlaySel = 0
		return m, nil

	case "b":
		m.grid = m.grid.CycleBatch()
		return m, nil

	case "r":
		m.dialog = DialogRenameTab
		m.renameTabID = m.tabManager.ActiveTabID()
		m.dialogInput.SetValue(m.tabManager.ActiveTab().Name)
		m.dialogInput.Placeholder = "Tab name"
		m.dialogInput.Focus()
		return m, textinput.Blink
	}

	// Tab switching works in both modes.
	switch {
	case matchKey(msg, m.cfg.Keys.NextTab):
		return m.switchToTab(m.adjacentTabID(1)), nil
	case matchKey(msg, m.cfg.Keys.PrevTab):
		return m.switchToTab(m.adjacentTabID(-1)), nil
	case matchKey(msg, m.cfg.Keys.Export):
		tab := m.tabManager.ActiveTab()
		if tab.Result == nil {
			m.errorMsg = "nothing to export: run a query first"
			return m, nil
		}
		m.dialog = DialogExport
		m.dialogInput.SetValue("")
		m.dialogInput.Placeholder = "query_results.csv"
		m.dialogInput.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}
