// internal/ui/model.go
// Root Model struct, constructor, and Init.
package ui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/sqlrunner/internal/config"
	"github.com/nhath/sqlrunner/internal/history"
	"github.com/nhath/sqlrunner/internal/mock"
	"github.com/nhath/sqlrunner/internal/query"
	"github.com/nhath/sqlrunner/internal/saved"
	"github.com/nhath/sqlrunner/internal/share"
	"github.com/nhath/sqlrunner/internal/storage"
	"github.com/nhath/sqlrunner/internal/tabs"
	"github.com/nhath/sqlrunner/internal/ui/components/popup"
	"github.com/nhath/sqlrunner/internal/ui/components/resultgrid"
)

// Layout is the persisted pane split.
type Layout struct {
	EditorLines int `json:"editorLines"`
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger

	// Domain state
	store        *storage.Store
	tabManager   *tabs.Manager
	engine       *mock.Engine
	historyStore *history.Store
	savedStore   *saved.Store
	shareStore   *share.Store

	// Persisted UI state
	layout    *storage.Binding[Layout]
	themeName *storage.Binding[string]
	columnVis *storage.Binding[map[string]bool]

	// Core state
	mode          Mode
	width, height int

	// Components
	editor textarea.Model
	grid   resultgrid.Model

	// Overlays and dialogs
	overlay       Overlay
	overlaySel    int
	historyItems  []query.HistoryItem
	savedItems    []query.SavedQuery
	expandedID    string
	expandedTable bbtable.Model
	popup         popup.Model
	dialog        Dialog
	dialogInput   textinput.Model
	renameTabID   string

	// Status
	statusMsg string
	errorMsg  string

	// External storage change fan-in
	externalCh  chan string
	unsubscribe func()
}

// NewModel wires the workspace together.
func NewModel(cfg *config.Config, store *storage.Store, engine *mock.Engine,
	historyStore *history.Store, savedStore *saved.Store, shareStore *share.Store,
	logger *slog.Logger) Model {

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ti := textarea.New()
	ti.Placeholder = "Write your SQL query here..."
	ti.Focus()
	ti.CharLimit = 10000
	ti.SetHeight(5)
	ti.SetWidth(80)
	ti.ShowLineNumbers = false
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ti.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ti.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(TextFaint())
	ti.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(TextFaint())

	di := textinput.New()
	di.CharLimit = 256
	di.Width = 40

	gridStyles := resultgrid.Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(HighlightColor()),
		Cell:     lipgloss.NewStyle().Foreground(TextPrimary()),
		Selected: lipgloss.NewStyle().Foreground(BgPrimary()).Background(HighlightColor()),
		Null:     lipgloss.NewStyle().Foreground(TextFaint()).Italic(true),
		Footer:   lipgloss.NewStyle().Foreground(TextFaint()).Italic(true),
	}

	m := Model{
		cfg:          cfg,
		logger:       logger,
		store:        store,
		tabManager:   tabs.NewManager(store),
		engine:       engine,
		historyStore: historyStore,
		savedStore:   savedStore,
		shareStore:   shareStore,
		layout:       storage.NewBinding(store, storage.KeyLayout, Layout{EditorLines: 5}, nil),
		themeName:    storage.NewBinding(store, storage.KeyTheme, "nord", nil),
		columnVis:    storage.NewBinding(store, storage.KeyColumnVisibility, map[string]bool{}, nil),
		mode:         InsertMode,
		editor:       ti,
		dialogInput:  di,
		grid:         resultgrid.New(gridStyles).WithBatch(cfg.BatchSize),
		popup:        popup.New(cfg.Theme),
		externalCh:   make(chan string, 16),
	}

	// Fan external store rewrites into the update loop. Writes from this
	// process carry a sender id and are skipped here; the bindings already
	// applied them.
	ch := m.externalCh
	m.unsubscribe = store.Subscribe(func(key string, _ []byte, senderID string) {
		if senderID != "" {
			return
		}
		select {
		case ch <- key:
		default:
		}
	})

	if theme, ok := config.GetThemes()[m.themeName.Get()]; ok {
		InitStyles(theme)
		m.popup = m.popup.SetTheme(theme)
	}

	m.editor.SetValue(m.tabManager.ActiveTab().SQL)
	if lines := m.layout.Get().EditorLines; lines >= 3 {
		m.editor.SetHeight(lines)
	}

	return m
}

// Init starts the external-change listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForStorageCmd(m.externalCh))
}

// Close releases the model's subscriptions.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.tabManager.Close()
	m.layout.Close()
	m.themeName.Close()
	m.columnVis.Close()
}
