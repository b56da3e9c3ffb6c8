// internal/ui/messages.go
package ui

import (
	"github.com/nhath/sqlrunner/internal/query"
)

// QueryResultMsg is sent when a run finishes, successfully or not. TabID
// identifies the originating tab; results for tabs closed mid-run are
// dropped on arrival.
type QueryResultMsg struct {
	TabID  string
	Result *query.Result
	Err    error
}

// StorageChangedMsg is sent when another process rewrites a store key.
type StorageChangedMsg struct {
	Key string
}

// ExportCompleteMsg is sent when a CSV export finishes.
type ExportCompleteMsg struct {
	Path string
	Size int
	Err  error
}
