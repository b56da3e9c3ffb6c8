// internal/ui/render_statusbar.go
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/sqlrunner/internal/ui/format"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m Model) renderStatusBar() string {
	var parts []string

	// 1. Mode
	modeStyle := ModeStyle
	if m.mode == InsertMode {
		modeStyle = InsertModeStyle
	}
	parts = append(parts, modeStyle.Render(strings.ToUpper(string(m.mode))))

	// 2. Active tab result summary
	tab := m.tabManager.ActiveTab()
	if tab.Result != nil {
		summary := fmt.Sprintf(" %s rows · %.0f ms ",
			format.Number(float64(tab.Result.TotalRows)), tab.Result.ExecutionTime)
		parts = append(parts, lipgloss.NewStyle().
			Background(CardBg()).Foreground(TextPrimary()).Render(summary))
	}

	// 3. Running indicator
	if tab.IsExecuting {
		frame := spinnerFrames[int(time.Now().UnixMilli()/100)%len(spinnerFrames)]
		parts = append(parts, lipgloss.NewStyle().
			Foreground(AccentColor()).Padding(0, 1).Render(frame+" Running..."))
	}

	// 4. Status message
	if m.statusMsg != "" {
		parts = append(parts, lipgloss.NewStyle().
			Background(SuccessColor()).Foreground(BgPrimary()).Padding(0, 1).
			Render("✓ "+limitString(m.statusMsg, 60)))
	}

	// 5. Error indicator
	if m.errorMsg != "" {
		parts = append(parts, lipgloss.NewStyle().
			Background(ErrorColor()).Foreground(TextPrimary()).Padding(0, 1).
			Render("⚠ "+limitString(m.errorMsg, 40)))
	}

	// 6. Key hints
	hints := strings.Join(m.cfg.Keys.Execute, "/") + " run · " +
		strings.Join(m.cfg.Keys.Help, "/") + " help"
	parts = append(parts, MetaStyle.Padding(0, 1).Render(hints))

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return StatusBarStyle.Width(m.width).Render(content)
}
