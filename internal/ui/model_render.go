// internal/ui/model_render.go
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/sqlrunner/internal/ui/highlight"
)

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	tabBar := m.renderTabBar()
	inputView := InputStyle.Width(m.width - 2).Render(highlight.SQLPreserveANSI(m.editor.View()))
	statusBar := m.renderStatusBar()

	chromeHeight := lipgloss.Height(tabBar) + lipgloss.Height(inputView) + lipgloss.Height(statusBar)
	resultsHeight := m.height - chromeHeight
	if resultsHeight < 3 {
		resultsHeight = 3
	}

	results := m.renderResults(resultsHeight)

	main := lipgloss.JoinVertical(lipgloss.Left,
		tabBar,
		inputView,
		results,
		statusBar,
	)

	if m.dialog != DialogNone {
		return m.renderDialog(main)
	}
	if m.overlay != OverlayNone {
		return m.renderOverlay(main)
	}
	return main
}

// renderTabBar draws one segment per open tab.
func (m Model) renderTabBar() string {
	active := m.tabManager.ActiveTabID()
	var parts []string
	for _, t := range m.tabManager.Tabs() {
		label := limitString(t.Name, 24)
		if t.IsExecuting {
			label += " ⠿"
		}
		if t.ID == active {
			parts = append(parts, ActiveTabStyle.Render(label))
		} else {
			parts = append(parts, TabStyle.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return lipgloss.NewStyle().Width(m.width).Background(BgSecondary()).Render(bar)
}

// renderResults draws the grid, the active error, or the running state.
func (m Model) renderResults(height int) string {
	tab := m.tabManager.ActiveTab()

	var body string
	switch {
	case tab.IsExecuting:
		body = MetaStyle.Render("Running query…  (" + strings.Join(m.cfg.Keys.Cancel, "/") + " to cancel)")
	case tab.Error != "":
		body = ErrorStyle.Render("Error: " + tab.Error)
	case tab.Result == nil:
		body = MetaStyle.Render("Run a query to see results")
	default:
		body = m.grid.SetSize(m.width, height).View()
	}

	return lipgloss.NewStyle().Height(height).Render(body)
}
