package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderHelpPopup() string {
	var content strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(AccentColor()).Render("⌨️  Keyboard Shortcuts")
	content.WriteString(title)
	content.WriteString("\n\n")

	keys := m.cfg.Keys

	section := func(name string, bindings []struct{ key, desc string }) {
		header := lipgloss.NewStyle().Bold(true).Foreground(HighlightColor()).Render(name)
		content.WriteString(header + "\n")
		for _, b := range bindings {
			keyStyle := lipgloss.NewStyle().Foreground(SuccessColor()).Width(15)
			descStyle := lipgloss.NewStyle().Foreground(TextSecondary())
			content.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(b.key), descStyle.Render(b.desc)))
		}
		content.WriteString("\n")
	}

	section("Query", []struct{ key, desc string }{
		{strings.Join(keys.Execute, "/"), "Execute query"},
		{strings.Join(keys.Cancel, "/"), "Cancel running query"},
		{strings.Join(keys.Save, "/"), "Save query"},
		{strings.Join(keys.Share, "/"), "Share results"},
		{strings.Join(keys.Export, "/"), "Export CSV"},
		{strings.Join(keys.ToggleComment, "/"), "Toggle comment"},
	})

	section("Tabs", []struct{ key, desc string }{
		{strings.Join(keys.NewTab, "/"), "New tab"},
		{strings.Join(keys.CloseTab, "/"), "Close tab"},
		{strings.Join(keys.DuplicateTab, "/"), "Duplicate tab"},
		{strings.Join(keys.NextTab, "/"), "Next tab"},
		{strings.Join(keys.PrevTab, "/"), "Previous tab"},
		{"r", "Rename tab (visual)"},
	})

	section("Results (visual mode)", []struct{ key, desc string }{
		{"j/k, ↑/↓", "Move cursor"},
		{"h/l, ←/→", "Scroll columns"},
		{"g/G", "Top / bottom"},
		{"pgup/pgdn", "Page up / down"},
		{"b", "Cycle load batch size"},
		{"c", "Column visibility"},
	})

	section("Browse (visual mode)", []struct{ key, desc string }{
		{"y", "Query history"},
		{"s", "Saved queries"},
		{"v", "Shared queries"},
		{"t", "Theme picker"},
		{"i/enter", "Back to insert mode"},
	})

	section("Other", []struct{ key, desc string }{
		{strings.Join(keys.Help, "/"), "Show this help"},
		{strings.Join(keys.Exit, "/"), "Quit"},
	})

	content.WriteString(lipgloss.NewStyle().Faint(true).Render("Press Esc or q to close"))

	popupWidth := 50
	return PopupStyle.
		Width(popupWidth).
		MaxHeight(m.height - 4).
		Render(content.String())
}
