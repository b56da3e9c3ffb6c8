// Package query defines the shared data model for the workspace: tabs,
// results, history entries, saved queries and share snapshots.
package query

// ColumnType is the display type of a result column.
type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
)

// MinColumnWidth is the narrowest a column can be resized to.
const MinColumnWidth = 50

// ColumnDefinition describes one result column. Width and Visible are
// display state and may diverge from the result payload after the user
// resizes or hides columns.
type ColumnDefinition struct {
	Key     string     `json:"key"`
	Label   string     `json:"label"`
	Type    ColumnType `json:"type"`
	Width   int        `json:"width"`
	Visible bool       `json:"visible"`
}

// Row is a single result row keyed by column key.
type Row map[string]any

// Result is a materialized query result. Rows may be a prefix of the full
// result; TotalRows is the full potential size, so len(Rows) <= TotalRows.
type Result struct {
	Columns       []ColumnDefinition `json:"columns"`
	Rows          []Row              `json:"rows"`
	TotalRows     int                `json:"totalRows"`
	ExecutionTime float64            `json:"executionTime"` // milliseconds
}

// Tab is an independent SQL buffer with its own execution state.
// ExecutedAt is unix milliseconds, 0 when the tab never ran.
type Tab struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	SQL         string  `json:"sql"`
	IsExecuting bool    `json:"isExecuting"`
	Result      *Result `json:"result"`
	Error       string  `json:"error"`
	ExecutedAt  int64   `json:"executedAt"`
}

// HistoryItem records one completed execution.
type HistoryItem struct {
	ID            string  `json:"id"`
	SQL           string  `json:"sql"`
	ExecutedAt    int64   `json:"executedAt"`
	RowCount      int     `json:"rowCount"`
	ExecutionTime float64 `json:"executionTime"`
	TabID         string  `json:"tabId"`
}

// SavedQuery is a user-curated bookmark.
type SavedQuery struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SQL       string `json:"sql"`
	Notes     string `json:"notes"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// SharedQuery is a time-limited read-only snapshot addressable by a short
// opaque id.
type SharedQuery struct {
	ID        string  `json:"id"`
	SQL       string  `json:"sql"`
	Result    *Result `json:"result"`
	SharedAt  int64   `json:"sharedAt"`
	ExpiresAt int64   `json:"expiresAt"`
}
