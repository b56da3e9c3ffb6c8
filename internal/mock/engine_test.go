package mock

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/sqlrunner/internal/query"
)

type recordedHistory struct {
	mu    sync.Mutex
	items []query.HistoryItem
}

func (r *recordedHistory) Add(item query.HistoryItem) {
	r.mu.Lock()
	r.items = append(r.items, item)
	r.mu.Unlock()
}

func (r *recordedHistory) all() []query.HistoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]query.HistoryItem(nil), r.items...)
}

func fastEngine(history HistoryRecorder) *Engine {
	return NewEngine(Options{
		MinDelay: time.Millisecond,
		MaxDelay: 5 * time.Millisecond,
		History:  history,
	})
}

func TestExecuteReturnsClassifiedResult(t *testing.T) {
	e := fastEngine(nil)

	res, err := e.Execute(context.Background(), "tab-1", "SELECT * FROM orders LIMIT 40")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 40)
	assert.Equal(t, 40, res.TotalRows)
	assert.Equal(t, "order_id", res.Columns[0].Key)
	assert.GreaterOrEqual(t, res.ExecutionTime, 0.0)
}

func TestExecuteEmptyQuery(t *testing.T) {
	e := fastEngine(nil)

	_, err := e.Execute(context.Background(), "tab-1", "   \n\t")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestExecuteRowCountWithoutLimit(t *testing.T) {
	e := fastEngine(nil)

	res, err := e.Execute(context.Background(), "tab-1", "SELECT * FROM transactions")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(res.Rows), 100)
	assert.Less(t, len(res.Rows), 1000)
}

func TestCancelStopsInFlightRun(t *testing.T) {
	e := NewEngine(Options{MinDelay: time.Second, MaxDelay: 2 * time.Second})

	done := make(chan error, 1)
	go func() {
		_, err := e.Execute(context.Background(), "tab-1", "SELECT * FROM orders")
		done <- err
	}()

	require.Eventually(t, func() bool { return e.Running("tab-1") },
		time.Second, time.Millisecond)
	assert.True(t, e.Cancel("tab-1"))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Equal(t, "Query cancelled", err.Error())
	case <-time.After(time.Second):
		t.Fatal("cancelled run did not return")
	}
	assert.False(t, e.Running("tab-1"))
}

func TestCancelWithoutRunReturnsFalse(t *testing.T) {
	e := fastEngine(nil)
	assert.False(t, e.Cancel("tab-1"))
}

func TestCancelOnlyAffectsTargetTab(t *testing.T) {
	e := NewEngine(Options{MinDelay: 50 * time.Millisecond, MaxDelay: 100 * time.Millisecond})

	type outcome struct {
		tab string
		err error
	}
	results := make(chan outcome, 2)
	for _, tab := range []string{"tab-1", "tab-2"} {
		go func() {
			_, err := e.Execute(context.Background(), tab, "SELECT * FROM products")
			results <- outcome{tab, err}
		}()
	}

	require.Eventually(t, func() bool { return e.Running("tab-1") && e.Running("tab-2") },
		time.Second, time.Millisecond)
	require.True(t, e.Cancel("tab-1"))

	for i := 0; i < 2; i++ {
		out := <-results
		if out.tab == "tab-1" {
			assert.ErrorIs(t, out.err, ErrCancelled)
		} else {
			assert.NoError(t, out.err)
		}
	}
}

func TestReentrantExecuteIsNoOp(t *testing.T) {
	e := NewEngine(Options{MinDelay: 300 * time.Millisecond, MaxDelay: 600 * time.Millisecond})

	first := make(chan error, 1)
	go func() {
		_, err := e.Execute(context.Background(), "tab-1", "SELECT * FROM orders")
		first <- err
	}()
	require.Eventually(t, func() bool { return e.Running("tab-1") },
		time.Second, time.Millisecond)

	// A second Execute on the same tab refuses instead of replacing the run.
	_, err := e.Execute(context.Background(), "tab-1", "SELECT * FROM orders LIMIT 5")
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.True(t, e.Running("tab-1"), "in-flight run keeps its token")

	assert.NoError(t, <-first, "in-flight run completes unaffected")
	assert.False(t, e.Running("tab-1"))
}

func TestCancelThenRerun(t *testing.T) {
	e := NewEngine(Options{MinDelay: 300 * time.Millisecond, MaxDelay: 600 * time.Millisecond})

	first := make(chan error, 1)
	go func() {
		_, err := e.Execute(context.Background(), "tab-1", "SELECT * FROM orders")
		first <- err
	}()
	require.Eventually(t, func() bool { return e.Running("tab-1") },
		time.Second, time.Millisecond)

	// Explicit cancel frees the tab for the next run.
	require.True(t, e.Cancel("tab-1"))
	assert.ErrorIs(t, <-first, ErrCancelled)

	res, err := e.Execute(context.Background(), "tab-1", "SELECT * FROM orders LIMIT 5")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 5)
}

func TestContextCancellation(t *testing.T) {
	e := NewEngine(Options{MinDelay: time.Second, MaxDelay: 2 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := e.Execute(ctx, "tab-1", "SELECT 1")
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestHistoryRecordedOnSuccessOnly(t *testing.T) {
	rec := &recordedHistory{}
	e := fastEngine(rec)

	res, err := e.Execute(context.Background(), "tab-1", "SELECT * FROM users LIMIT 12")
	require.NoError(t, err)

	items := rec.all()
	require.Len(t, items, 1)
	assert.Equal(t, "SELECT * FROM users LIMIT 12", items[0].SQL)
	assert.Equal(t, "tab-1", items[0].TabID)
	assert.Equal(t, len(res.Rows), items[0].RowCount)
	assert.NotEmpty(t, items[0].ID)

	_, err = e.Execute(context.Background(), "tab-1", "")
	require.Error(t, err)
	assert.Len(t, rec.all(), 1, "failed runs must not be recorded")
}

func TestSampleDatasetPreferredForEmployees(t *testing.T) {
	ds := SampleDataset{
		Metadata: SampleMetadata{TotalRecords: 3},
		Columns: []query.ColumnDefinition{
			{Key: "id", Label: "ID", Type: query.TypeNumber, Width: 60, Visible: true},
			{Key: "first_name", Label: "First Name", Type: query.TypeString, Width: 110, Visible: true},
		},
		Rows: []query.Row{
			{"id": 1.0, "first_name": "Ada"},
			{"id": 2.0, "first_name": "Grace"},
			{"id": 3.0, "first_name": "Edsger"},
		},
	}
	var fetches int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		json.NewEncoder(w).Encode(ds)
	}))
	defer srv.Close()

	e := NewEngine(Options{
		MinDelay: time.Millisecond,
		MaxDelay: 5 * time.Millisecond,
		Samples:  NewSampleLoader(srv.URL, nil),
	})

	res, err := e.Execute(context.Background(), "tab-1", "SELECT * FROM employees")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 3)
	assert.Equal(t, "Ada", res.Rows[0]["first_name"])

	// Second run reuses the cache.
	res, err = e.Execute(context.Background(), "tab-1", "SELECT * FROM employees LIMIT 2")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, 1, fetches)

	// Non-sample categories never touch the dataset.
	res, err = e.Execute(context.Background(), "tab-1", "SELECT * FROM orders LIMIT 4")
	require.NoError(t, err)
	assert.Equal(t, "order_id", res.Columns[0].Key)
}

func TestSampleFetchFailureFallsBackToSynthetic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewEngine(Options{
		MinDelay: time.Millisecond,
		MaxDelay: 5 * time.Millisecond,
		Samples:  NewSampleLoader(srv.URL, nil),
	})

	res, err := e.Execute(context.Background(), "tab-1", "SELECT * FROM employees LIMIT 8")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 8)
	assert.Equal(t, "id", res.Columns[0].Key)
}
