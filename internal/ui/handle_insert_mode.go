// internal/ui/handle_insert_mode.go
// Key handling while the editor is focused.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// handleInsertMode processes keys in insert mode. Matched chords are
// consumed and never reach the textarea.
func (m Model) handleInsertMode(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, []tea.Cmd) {
	var cmd tea.Cmd
	keys := m.cfg.Keys

	switch {
	case matchKey(msg, keys.Execute):
		return m.startExecution(cmds)

	case matchKey(msg, keys.Cancel):
		tabID := m.tabManager.ActiveTabID()
		if m.engine.Cancel(tabID) {
			m.statusMsg = "Cancelling..."
		}
		return m, cmds

	case matchKey(msg, keys.Save):
		m.dialog = DialogSaveQuery
		m.dialogInput.SetValue("")
		m.dialogInput.Placeholder = "Query name"
		m.dialogInput.Focus()
		return m, append(cmds, textinput.Blink)

	case matchKey(msg, keys.Share):
		return m.createShare(cmds)

	case matchKey(msg, keys.Export):
		tab := m.tabManager.ActiveTab()
		if tab.Result == nil {
			m.errorMsg = "nothing to export: run a query first"
			return m, cmds
		}
		m.dialog = DialogExport
		m.dialogInput.SetValue("")
		m.dialogInput.Placeholder = "query_results.csv"
		m.dialogInput.Focus()
		return m, append(cmds, textinput.Blink)

	case matchKey(msg, keys.NewTab):
		m.tabManager.AddTab("")
		m = m.switchToTab(m.tabManager.ActiveTabID())
		return m, cmds

	case matchKey(msg, keys.CloseTab):
		m.tabManager.CloseTab(m.tabManager.ActiveTabID())
		m = m.switchToTab(m.tabManager.ActiveTabID())
		return m, cmds

	case matchKey(msg, keys.DuplicateTab):
		if clone := m.tabManager.DuplicateTab(m.tabManager.ActiveTabID()); clone != nil {
			m = m.switchToTab(clone.ID)
		}
		return m, cmds

	case matchKey(msg, keys.NextTab):
		m = m.switchToTab(m.adjacentTabID(1))
		return m, cmds

	case matchKey(msg, keys.PrevTab):
		m = m.switchToTab(m.adjacentTabID(-1))
		return m, cmds

	case matchKey(msg, keys.ToggleComment):
		m = m.toggleCommentOnCurrentLine()
		m.tabManager.UpdateTabSQL(m.tabManager.ActiveTabID(), m.editor.Value())
		return m, cmds

	case msg.String() == "esc":
		m.mode = VisualMode
		m.editor.Blur()
		return m, cmds
	}

	m.editor, cmd = m.editor.Update(msg)
	cmds = append(cmds, cmd)
	m.tabManager.UpdateTabSQL(m.tabManager.ActiveTabID(), m.editor.Value())
	return m, cmds
}

// startExecution kicks off a run on the active tab. While the tab already
// has a run in flight the chord is a no-op; rerunning takes an explicit
// cancel first.
func (m Model) startExecution(cmds []tea.Cmd) (tea.Model, []tea.Cmd) {
	tab := m.tabManager.ActiveTab()
	if tab.IsExecuting {
		return m, cmds
	}
	sql := strings.TrimSpace(m.editor.Value())
	if sql == "" {
		m.errorMsg = "query is empty"
		return m, cmds
	}
	m.errorMsg = ""
	m.statusMsg = ""
	m.tabManager.SetTabExecuting(tab.ID, true)
	return m, append(cmds, m.executeQueryCmd(tab.ID, m.editor.Value()))
}

// createShare snapshots the active tab's query and result.
func (m Model) createShare(cmds []tea.Cmd) (tea.Model, []tea.Cmd) {
	tab := m.tabManager.ActiveTab()
	if tab.Result == nil {
		m.errorMsg = "nothing to share: run a query first"
		return m, cmds
	}
	snap := m.shareStore.Create(tab.SQL, tab.Result)
	m.dialog = DialogShare
	m.dialogInput.SetValue(m.shareStore.URL(snap.ID))
	return m, cmds
}

// toggleCommentOnCurrentLine adds or removes the SQL line comment prefix
// on the line under the cursor.
func (m Model) toggleCommentOnCurrentLine() Model {
	lines := strings.Split(m.editor.Value(), "\n")
	row := m.editor.Line()
	if row >= len(lines) {
		return m
	}
	trimmed := strings.TrimLeft(lines[row], " \t")
	indent := lines[row][:len(lines[row])-len(trimmed)]
	if strings.HasPrefix(trimmed, "-- ") {
		lines[row] = indent + strings.TrimPrefix(trimmed, "-- ")
	} else if strings.HasPrefix(trimmed, "--") {
		lines[row] = indent + strings.TrimPrefix(trimmed, "--")
	} else {
		lines[row] = indent + "-- " + trimmed
	}
	m.editor.SetValue(strings.Join(lines, "\n"))
	return m
}
