// internal/ui/model_types.go
// Type definitions for the UI layer.
package ui

// Mode represents the current UI mode (vim-style)
type Mode string

const (
	InsertMode Mode = "INSERT"
	VisualMode Mode = "VISUAL"
)

// Dialog identifies the currently open modal input, if any.
type Dialog int

const (
	DialogNone Dialog = iota
	DialogSaveQuery
	DialogExport
	DialogShare
	DialogRenameTab
)

// Overlay identifies the currently open full-screen browser, if any.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHistory
	OverlaySaved
	OverlayShares
	OverlayColumns
	OverlayHelp
	OverlayTheme
)
