// internal/ui/commands.go
// Async work wrapped as Bubble Tea commands.
package ui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/sqlrunner/internal/export"
	"github.com/nhath/sqlrunner/internal/query"
)

// executeQueryCmd runs the query on the mock engine. The engine blocks for
// the simulated latency, so this always runs off the update loop.
func (m Model) executeQueryCmd(tabID, sql string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		res, err := engine.Execute(context.Background(), tabID, sql)
		return QueryResultMsg{TabID: tabID, Result: res, Err: err}
	}
}

// exportCmd writes the current result to a CSV file.
func (m Model) exportCmd(filename string, cols []query.ColumnDefinition, rows []query.Row) tea.Cmd {
	return func() tea.Msg {
		path, err := export.WriteFile(filename, cols, rows, export.Options{})
		if err != nil {
			return ExportCompleteMsg{Err: err}
		}
		info, statErr := os.Stat(path)
		size := 0
		if statErr == nil {
			size = int(info.Size())
		}
		return ExportCompleteMsg{Path: path, Size: size}
	}
}

// waitForStorageCmd blocks on the external-change feed and resolves to a
// StorageChangedMsg. Re-armed after every delivery.
func waitForStorageCmd(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		key, ok := <-ch
		if !ok {
			return nil
		}
		return StorageChangedMsg{Key: key}
	}
}
