// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nhath/sqlrunner/internal/config"
)

var (
	// Colors (exported via getter functions below)
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color

	bgPrimary   lipgloss.Color
	bgSecondary lipgloss.Color
	cardBg      lipgloss.Color

	// Styles
	StatusBarStyle   lipgloss.Style
	ModeStyle        lipgloss.Style
	InsertModeStyle  lipgloss.Style
	TabStyle         lipgloss.Style
	ActiveTabStyle   lipgloss.Style
	QueryStyle       lipgloss.Style
	MetaStyle        lipgloss.Style
	InputStyle       lipgloss.Style
	PromptStyle      lipgloss.Style
	SuccessStyle     lipgloss.Style
	ErrorStyle       lipgloss.Style
	WarningStyle     lipgloss.Style
	PopupStyle       lipgloss.Style
	ListItemStyle    lipgloss.Style
	ListSelectedStyle lipgloss.Style
)

// Color getter functions for use in components
func TextPrimary() lipgloss.Color    { return textPrimary }
func TextSecondary() lipgloss.Color  { return textSecondary }
func TextFaint() lipgloss.Color      { return textFaint }
func AccentColor() lipgloss.Color    { return accentColor }
func SuccessColor() lipgloss.Color   { return successColor }
func ErrorColor() lipgloss.Color     { return errorColor }
func HighlightColor() lipgloss.Color { return highlightColor }
func WarningColor() lipgloss.Color   { return warningColor }
func BgPrimary() lipgloss.Color      { return bgPrimary }
func BgSecondary() lipgloss.Color    { return bgSecondary }
func CardBg() lipgloss.Color         { return cardBg }

// InitStyles initializes the global styles from the configured theme.
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)

	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)
	cardBg = lipgloss.Color(theme.CardBg)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	ModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(successColor).
		Foreground(bgPrimary)

	InsertModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(accentColor).
		Foreground(bgPrimary)

	TabStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(bgSecondary).
		Foreground(textFaint)

	ActiveTabStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Background(cardBg).
		Foreground(textPrimary)

	QueryStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(textPrimary)

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(textFaint)

	PromptStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		MarginRight(1)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	WarningStyle = lipgloss.NewStyle().
		Foreground(bgPrimary).
		Background(warningColor).
		Bold(true).
		Padding(0, 1)

	PopupStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(1, 2)

	ListItemStyle = lipgloss.NewStyle().
		Foreground(textPrimary)

	ListSelectedStyle = lipgloss.NewStyle().
		Foreground(bgPrimary).
		Background(highlightColor).
		Bold(true)
}
