// internal/ui/handle_dialog.go
// Key handling for the modal input dialogs.
package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.dialog = DialogNone
		m.dialogInput.Blur()
		return m, nil

	case "enter":
		return m.submitDialog()
	}

	// The share dialog is display-only: it shows the generated URL.
	if m.dialog == DialogShare {
		return m, nil
	}

	var cmd tea.Cmd
	m.dialogInput, cmd = m.dialogInput.Update(msg)
	return m, cmd
}

func (m Model) submitDialog() (tea.Model, tea.Cmd) {
	dialog := m.dialog
	value := strings.TrimSpace(m.dialogInput.Value())
	m.dialog = DialogNone
	m.dialogInput.Blur()

	switch dialog {
	case DialogSaveQuery:
		if value == "" {
			m.errorMsg = "saved query needs a name"
			return m, nil
		}
		q := m.savedStore.Save(value, m.tabManager.ActiveTab().SQL, "")
		m.statusMsg = "Saved " + q.Name

	case DialogExport:
		tab := m.tabManager.ActiveTab()
		if tab.Result == nil {
			return m, nil
		}
		return m, m.exportCmd(value, m.grid.Columns(), tab.Result.Rows)

	case DialogShare:
		m.statusMsg = "Share link: " + m.dialogInput.Value()

	case DialogRenameTab:
		if value != "" {
			m.tabManager.UpdateTabName(m.renameTabID, value)
		}
	}
	return m, nil
}
