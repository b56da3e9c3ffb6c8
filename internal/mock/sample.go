package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nhath/sqlrunner/internal/query"
)

// SampleMetadata describes the shared demo dataset.
type SampleMetadata struct {
	TotalRecords int    `json:"totalRecords"`
	GeneratedAt  string `json:"generatedAt"`
	Description  string `json:"description"`
}

// SampleDataset is the on-the-wire shape of the demo dataset: a fixed
// employee table large enough to exercise windowed rendering.
type SampleDataset struct {
	Metadata SampleMetadata           `json:"metadata"`
	Columns  []query.ColumnDefinition `json:"columns"`
	Rows     []query.Row              `json:"rows"`
}

// SampleLoader fetches the demo dataset once and caches it for the process
// lifetime. Concurrent first loads collapse into a single fetch.
type SampleLoader struct {
	source string
	client *http.Client
	logger *slog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	cached *SampleDataset
}

// NewSampleLoader builds a loader for source, which is either an http(s)
// URL or a local file path.
func NewSampleLoader(source string, logger *slog.Logger) *SampleLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SampleLoader{
		source: source,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Load returns the cached dataset, fetching it on first use. Returns nil
// when the dataset is unavailable; callers fall back to synthetic rows.
func (l *SampleLoader) Load(ctx context.Context) *SampleDataset {
	l.mu.RLock()
	cached := l.cached
	l.mu.RUnlock()
	if cached != nil {
		return cached
	}

	v, err, _ := l.group.Do("sample", func() (any, error) {
		ds, err := l.fetch(ctx)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cached = ds
		l.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		l.logger.Warn("sample dataset unavailable, using synthetic rows",
			"source", l.source, "error", err)
		return nil
	}
	return v.(*SampleDataset)
}

func (l *SampleLoader) fetch(ctx context.Context) (*SampleDataset, error) {
	var raw []byte
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch sample data: unexpected status %s", resp.Status)
		}
		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		raw, err = os.ReadFile(l.source)
		if err != nil {
			return nil, err
		}
	}

	var ds SampleDataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("decode sample data: %w", err)
	}
	if len(ds.Columns) == 0 || len(ds.Rows) == 0 {
		return nil, fmt.Errorf("sample data is empty")
	}
	l.logger.Info("sample dataset loaded",
		"rows", len(ds.Rows), "columns", len(ds.Columns))
	return &ds, nil
}
