package mock

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhath/sqlrunner/internal/query"
)

var (
	// ErrCancelled is returned when a run is stopped before completion,
	// whether by an explicit Cancel or by context cancellation.
	ErrCancelled = errors.New("Query cancelled")

	// ErrEmptyQuery is returned for blank or whitespace-only SQL.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrAlreadyRunning is returned for a re-entrant Execute on a tab that
	// already has a run in flight. The in-flight run is not disturbed;
	// rerunning requires an explicit Cancel first.
	ErrAlreadyRunning = errors.New("query already running for this tab")
)

// HistoryRecorder receives a record for every successful run.
type HistoryRecorder interface {
	Add(item query.HistoryItem)
}

// Options configures an Engine. Zero values fall back to the defaults the
// UI uses; tests inject tighter delays and a fixed clock.
type Options struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	Samples  *SampleLoader
	History  HistoryRecorder
	Logger   *slog.Logger
	Now      func() time.Time
}

// Engine simulates asynchronous query execution. Each tab holds at most
// one in-flight run, tracked by a cancel token keyed on tab id.
type Engine struct {
	minDelay time.Duration
	maxDelay time.Duration
	samples  *SampleLoader
	history  HistoryRecorder
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	cancels map[string]chan struct{}
}

// NewEngine builds an engine. Delay defaults are 300ms to 1500ms.
func NewEngine(opts Options) *Engine {
	if opts.MinDelay <= 0 {
		opts.MinDelay = 300 * time.Millisecond
	}
	if opts.MaxDelay <= opts.MinDelay {
		opts.MaxDelay = 1500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		minDelay: opts.MinDelay,
		maxDelay: opts.MaxDelay,
		samples:  opts.Samples,
		history:  opts.History,
		logger:   opts.Logger,
		now:      opts.Now,
		cancels:  make(map[string]chan struct{}),
	}
}

// Execute runs sql for the given tab after a simulated latency. Each tab
// holds at most one run: a second Execute for the same tab while one is in
// flight returns ErrAlreadyRunning and leaves the first run untouched.
// Blocks until the run completes, is cancelled, or ctx is done.
func (e *Engine) Execute(ctx context.Context, tabID, sql string) (*query.Result, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, ErrEmptyQuery
	}

	token := make(chan struct{})
	e.mu.Lock()
	if _, ok := e.cancels[tabID]; ok {
		e.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	e.cancels[tabID] = token
	e.mu.Unlock()
	defer e.release(tabID, token)

	start := e.now()
	delay := e.minDelay + rand.N(e.maxDelay-e.minDelay)
	e.logger.Debug("executing query", "tab", tabID, "delay", delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-token:
		return nil, ErrCancelled
	case <-ctx.Done():
		return nil, ErrCancelled
	}

	qt := DetectQueryType(sql)
	cols, rows := e.materialize(ctx, qt, sql)
	elapsed := float64(e.now().Sub(start)) / float64(time.Millisecond)

	result := &query.Result{
		Columns:       cols,
		Rows:          rows,
		TotalRows:     len(rows),
		ExecutionTime: elapsed,
	}
	if e.history != nil {
		e.history.Add(query.HistoryItem{
			ID:            uuid.NewString(),
			SQL:           sql,
			ExecutedAt:    e.now().UnixMilli(),
			RowCount:      len(rows),
			ExecutionTime: elapsed,
			TabID:         tabID,
		})
	}
	e.logger.Debug("query complete", "tab", tabID, "type", qt, "rows", len(rows))
	return result, nil
}

// Cancel stops the in-flight run for tabID. Returns false when the tab has
// no run in flight.
func (e *Engine) Cancel(tabID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	token, ok := e.cancels[tabID]
	if !ok {
		return false
	}
	close(token)
	delete(e.cancels, tabID)
	return true
}

// Running reports whether tabID has a run in flight.
func (e *Engine) Running(tabID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.cancels[tabID]
	return ok
}

// release drops the cancel token, but only if it is still the current one:
// after Cancel, a new run may register a fresh token before the cancelled
// run returns, and that token must survive.
func (e *Engine) release(tabID string, token chan struct{}) {
	e.mu.Lock()
	if current, ok := e.cancels[tabID]; ok && current == token {
		delete(e.cancels, tabID)
	}
	e.mu.Unlock()
}

// materialize builds the result set. Employee, user and generic queries
// prefer the shared sample dataset when it is available; everything else
// (and any sample-load failure) gets synthetic rows. A LIMIT clause bounds
// the row count in both paths.
func (e *Engine) materialize(ctx context.Context, qt QueryType, sql string) ([]query.ColumnDefinition, []query.Row) {
	limit, hasLimit := ExtractRowCount(sql)

	if qt == QueryEmployees || qt == QueryUsers || qt == QueryGeneric {
		if e.samples != nil {
			if ds := e.samples.Load(ctx); ds != nil {
				rows := ds.Rows
				if hasLimit && limit < len(rows) {
					rows = rows[:limit]
				}
				return ds.Columns, rows
			}
		}
	}

	count := rand.IntN(900) + 100
	if hasLimit {
		count = limit
	}
	return Generate(qt, count)
}
