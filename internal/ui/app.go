// internal/ui/app.go
// Main Update dispatch.
package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/sqlrunner/internal/config"
	"github.com/nhath/sqlrunner/internal/export"
	"github.com/nhath/sqlrunner/internal/mock"
	"github.com/nhath/sqlrunner/internal/storage"
)

// Update routes messages to the focused surface.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(msg.Width - 4)
		m.grid = m.grid.SetSize(msg.Width, m.resultsHeight())
		m.popup = m.popup.SetScreenSize(msg.Width, msg.Height)
		return m, nil

	case QueryResultMsg:
		return m.handleQueryResult(msg)

	case ExportCompleteMsg:
		if msg.Err != nil {
			m.errorMsg = "export failed: " + msg.Err.Error()
		} else {
			m.statusMsg = "Exported to " + msg.Path + " (" + export.FormatBytes(msg.Size) + ")"
		}
		return m, nil

	case StorageChangedMsg:
		m = m.handleStorageChange(msg.Key)
		return m, waitForStorageCmd(m.externalCh)

	case tea.KeyMsg:
		// Global chords fire in every mode.
		switch {
		case matchKey(msg, m.cfg.Keys.Exit) && m.dialog == DialogNone && m.overlay == OverlayNone:
			m.Close()
			return m, tea.Quit
		case matchKey(msg, m.cfg.Keys.Help) && m.dialog == DialogNone:
			if m.overlay == OverlayHelp {
				m.overlay = OverlayNone
			} else {
				m.overlay = OverlayHelp
			}
			return m, nil
		}

		if m.dialog != DialogNone {
			return m.handleDialog(msg)
		}
		if m.overlay != OverlayNone {
			return m.handleOverlay(msg)
		}
		if m.mode == InsertMode {
			model, batched := m.handleInsertMode(msg, cmds)
			return model, tea.Batch(batched...)
		}
		return m.handleVisualMode(msg)
	}

	// Let the grid consume its own tick messages.
	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleQueryResult applies a finished run. Results whose tab has been
// closed since the run started are dropped: last write wins only while the
// tab is still relevant.
func (m Model) handleQueryResult(msg QueryResultMsg) (tea.Model, tea.Cmd) {
	tabExists := false
	for _, t := range m.tabManager.Tabs() {
		if t.ID == msg.TabID {
			tabExists = true
			break
		}
	}
	if !tabExists {
		m.logger.Debug("dropping result for closed tab", "tab", msg.TabID)
		return m, nil
	}

	// A refused re-entrant run must not clear the state of the run that is
	// still in flight on this tab.
	if errors.Is(msg.Err, mock.ErrAlreadyRunning) {
		return m, nil
	}

	if msg.Err != nil {
		if errors.Is(msg.Err, mock.ErrCancelled) {
			m.tabManager.SetTabResult(msg.TabID, nil, "Query cancelled")
		} else {
			m.tabManager.SetTabResult(msg.TabID, nil, msg.Err.Error())
		}
		if msg.TabID == m.tabManager.ActiveTabID() {
			m.grid = m.grid.SetResult(nil, nil)
			m.errorMsg = m.tabManager.ActiveTab().Error
		}
		return m, nil
	}

	m.tabManager.SetTabResult(msg.TabID, msg.Result, "")
	if msg.TabID == m.tabManager.ActiveTabID() {
		m.errorMsg = ""
		m.grid = m.grid.SetResult(msg.Result, m.columnVis.Get())
	}
	return m, nil
}

// handleStorageChange refreshes views from keys another process rewrote.
// The bindings have already re-read the payload by the time this runs.
func (m Model) handleStorageChange(key string) Model {
	switch key {
	case storage.KeyQueryTabs, storage.KeyActiveTab:
		m.editor.SetValue(m.tabManager.ActiveTab().SQL)
	case storage.KeyTheme:
		if theme, ok := config.GetThemes()[m.themeName.Get()]; ok {
			InitStyles(theme)
			m.popup = m.popup.SetTheme(theme)
		}
	case storage.KeyQueryHistory:
		if m.overlay == OverlayHistory {
			m.historyItems = m.historyStore.List()
		}
	case storage.KeySavedQueries:
		if m.overlay == OverlaySaved {
			m.savedItems = m.savedStore.List()
		}
	}
	return m
}

// switchToTab swaps editor and grid state to another tab.
func (m Model) switchToTab(id string) Model {
	m.tabManager.SetActiveTab(id)
	tab := m.tabManager.ActiveTab()
	m.editor.SetValue(tab.SQL)
	m.errorMsg = tab.Error
	m.grid = m.grid.SetResult(tab.Result, m.columnVis.Get())
	return m
}
