// internal/ui/render_overlays.go
// Rendering for overlays and dialogs, composited over the main view.
package ui

import (
	"fmt"
	"strings"
	"time"

	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/nhath/sqlrunner/internal/export"
	"github.com/nhath/sqlrunner/internal/ui/format"
	"github.com/nhath/sqlrunner/internal/ui/highlight"
)

func (m Model) renderOverlay(main string) string {
	var view string
	switch m.overlay {
	case OverlayHistory:
		view = m.renderHistoryOverlay()
	case OverlaySaved:
		view = m.renderSavedOverlay()
	case OverlayShares:
		view = m.renderSharesOverlay()
	case OverlayColumns:
		view = m.renderColumnsOverlay()
	case OverlayTheme:
		view = m.renderThemeOverlay()
	case OverlayHelp:
		view = m.renderHelpPopup()
	default:
		return main
	}
	return overlay.Composite(view, main, overlay.Center, overlay.Center, 0, 0)
}

func (m Model) listPopup(title string, lines []string, footer string) string {
	body := strings.Join(lines, "\n")
	if body == "" {
		body = MetaStyle.Render("(empty)")
	}
	p := m.popup.SetScreenSize(m.width, m.height).Show(title, body, footer)
	return p.View()
}

func (m Model) renderHistoryOverlay() string {
	lines := make([]string, 0, len(m.historyItems))
	for i, item := range m.historyItems {
		when := time.UnixMilli(item.ExecutedAt).Format("Jan 2 15:04")
		meta := MetaStyle.Render(fmt.Sprintf("%s · %s rows · %.0f ms",
			when, format.Number(float64(item.RowCount)), item.ExecutionTime))
		sql := highlight.SQL(limitString(strings.ReplaceAll(item.SQL, "\n", " "), 70))
		line := sql + "  " + meta
		if i == m.overlaySel {
			line = ListSelectedStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return m.listPopup("Query History", lines, "enter load · x clear · esc close")
}

func (m Model) renderSavedOverlay() string {
	lines := make([]string, 0, len(m.savedItems))
	for i, q := range m.savedItems {
		name := QueryStyle.Render(q.Name)
		sql := highlight.SQL(limitString(strings.ReplaceAll(q.SQL, "\n", " "), 60))
		line := name + "  " + sql
		if q.Notes != "" {
			line += "  " + MetaStyle.Render(limitString(q.Notes, 30))
		}
		if i == m.overlaySel {
			line = ListSelectedStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return m.listPopup("Saved Queries", lines, "enter load · d delete · esc close")
}

func (m Model) renderSharesOverlay() string {
	if m.expandedID != "" {
		content := m.expandedTable.View()
		p := m.popup.SetScreenSize(m.width, m.height).
			Show("Shared Snapshot "+m.expandedID, content, "enter back · esc close")
		return p.View()
	}

	snaps := m.shareStore.List()
	lines := make([]string, 0, len(snaps))
	for i, s := range snaps {
		expires := time.UnixMilli(s.ExpiresAt).Format("Jan 2")
		rows := 0
		if s.Result != nil {
			rows = s.Result.TotalRows
		}
		line := QueryStyle.Render(m.shareStore.URL(s.ID)) + "  " +
			MetaStyle.Render(fmt.Sprintf("%d rows · expires %s", rows, expires))
		if i == m.overlaySel {
			line = ListSelectedStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return m.listPopup("Shared Queries", lines, "enter open · d delete · esc close")
}

func (m Model) renderColumnsOverlay() string {
	cols := m.grid.Columns()
	lines := make([]string, 0, len(cols))
	for i, c := range cols {
		mark := "[x]"
		if !c.Visible {
			mark = "[ ]"
		}
		line := fmt.Sprintf("%s %s  %s", mark, c.Label,
			MetaStyle.Render(fmt.Sprintf("%s · %dpx", c.Type, c.Width)))
		if i == m.overlaySel {
			line = ListSelectedStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return m.listPopup("Columns", lines, "enter toggle · +/- resize · esc close")
}

func (m Model) renderThemeOverlay() string {
	names := themeNames()
	current := m.themeName.Get()
	lines := make([]string, 0, len(names))
	for i, name := range names {
		line := name
		if name == current {
			line += " " + SuccessStyle.Render("(current)")
		}
		if i == m.overlaySel {
			line = ListSelectedStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return m.listPopup("Theme", lines, "enter apply · esc close")
}

func (m Model) renderDialog(main string) string {
	var title, body, footer string
	switch m.dialog {
	case DialogSaveQuery:
		title = "Save Query"
		body = PromptStyle.Render("Name:") + " " + m.dialogInput.View()
		footer = "enter save · esc cancel"
	case DialogExport:
		tab := m.tabManager.ActiveTab()
		estimate := ""
		if tab.Result != nil {
			size := export.EstimateSize(m.grid.Columns(), tab.Result.Rows)
			estimate = MetaStyle.Render("estimated size " + export.FormatBytes(size))
		}
		title = "Export CSV"
		body = PromptStyle.Render("File:") + " " + m.dialogInput.View() + "\n" + estimate
		footer = "enter export · esc cancel"
	case DialogShare:
		title = "Share Query"
		body = SuccessStyle.Render(m.dialogInput.Value()) + "\n" +
			MetaStyle.Render("link expires in 7 days")
		footer = "enter done · esc close"
	case DialogRenameTab:
		title = "Rename Tab"
		body = PromptStyle.Render("Name:") + " " + m.dialogInput.View()
		footer = "enter rename · esc cancel"
	default:
		return main
	}

	p := m.popup.SetScreenSize(m.width, m.height).Show(title, body, footer)
	return overlay.Composite(p.View(), main, overlay.Center, overlay.Center, 0, 0)
}
