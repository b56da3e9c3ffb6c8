// Package popup provides a reusable centered modal component.
package popup

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/sqlrunner/internal/config"
)

// Styles for the popup chrome.
type Styles struct {
	Box    lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Footer lipgloss.Style
}

// StylesFromTheme derives popup styling from the configured theme.
func StylesFromTheme(theme config.Theme) Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Highlight)).
			Padding(1, 2),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Accent)),
		Body: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextPrimary)),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextFaint)).
			Italic(true),
	}
}

// Model represents the popup state.
type Model struct {
	visible   bool
	title     string
	content   string
	footer    string
	maxWidth  int
	maxHeight int
	screenW   int
	screenH   int
	styles    Styles
}

// New creates a hidden popup.
func New(theme config.Theme) Model {
	return Model{maxWidth: 100, styles: StylesFromTheme(theme)}
}

// SetTheme swaps the styling.
func (m Model) SetTheme(theme config.Theme) Model {
	m.styles = StylesFromTheme(theme)
	return m
}

// SetScreenSize sets dimensions used for centering and clamping.
func (m Model) SetScreenSize(w, h int) Model {
	m.screenW = w
	m.screenH = h
	m.maxWidth = min(100, w-4)
	m.maxHeight = h - 4
	return m
}

// Show makes the popup visible with the given content.
func (m Model) Show(title, content, footer string) Model {
	m.visible = true
	m.title = title
	m.content = content
	m.footer = footer
	return m
}

// Hide hides the popup.
func (m Model) Hide() Model {
	m.visible = false
	return m
}

// Visible reports visibility.
func (m Model) Visible() bool { return m.visible }

// Update closes the popup on q/esc.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc":
			m.visible = false
		}
	}
	return m, nil
}

// View renders the popup box. The caller composites it over the main
// view, so this returns just the box rather than a full-screen canvas.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(m.styles.Header.Render(m.title))
		b.WriteString("\n\n")
	}
	b.WriteString(m.styles.Body.Render(m.content))
	if m.footer != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Footer.Render(m.footer))
	}

	return m.styles.Box.
		Width(m.maxWidth).
		MaxHeight(m.maxHeight).
		Render(b.String())
}
