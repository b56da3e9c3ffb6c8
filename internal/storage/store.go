// Package storage provides the workspace's key-value persistence layer:
// one JSON blob per namespaced key, stored as files on disk, with
// synchronous change notification to in-process subscribers and an
// fsnotify-based feed for writes made by other processes.
package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Namespaced storage keys. One JSON file per key.
const (
	KeyQueryTabs        = "sql_runner_query_tabs"
	KeyActiveTab        = "sql_runner_active_tab"
	KeyQueryHistory     = "sql_runner_query_history"
	KeySavedQueries     = "sql_runner_saved_queries"
	KeySharedQueries    = "sql_runner_shared_queries"
	KeyLayout           = "sql_runner_layout"
	KeyTheme            = "sql_runner_theme"
	KeyColumnVisibility = "sql_runner_column_visibility"
)

const keyPrefix = "sql_runner_"

// Keys lists every namespaced key, used by ClearAll.
var Keys = []string{
	KeyQueryTabs,
	KeyActiveTab,
	KeyQueryHistory,
	KeySavedQueries,
	KeySharedQueries,
	KeyLayout,
	KeyTheme,
	KeyColumnVisibility,
}

// removedMarker is recorded in lastWrite when this store deletes a key, so
// the watcher can tell its own removals apart from external ones.
const removedMarker = "\x00removed"

// Listener receives every committed change. raw is the serialized JSON
// payload, nil for removals. senderID identifies the writing binding
// instance and is empty for external (cross-process) changes.
type Listener func(key string, raw []byte, senderID string)

// Store is a directory-backed key-value store. A single Store is created at
// startup and shared; subscribers are registered per Store rather than in
// package state so tests can run isolated instances.
type Store struct {
	dir    string
	logger *slog.Logger

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
	lastWrite map[string]string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Open creates the store directory if needed and starts watching it for
// changes made by other processes. logger may be nil.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	s := &Store{
		dir:       dir,
		logger:    logger,
		listeners: make(map[int]Listener),
		lastWrite: make(map[string]string),
		done:      make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// The store still works without cross-process notification.
		logger.Warn("storage: file watcher unavailable", "error", err)
		return s, nil
	}
	if err := watcher.Add(dir); err != nil {
		logger.Warn("storage: cannot watch store dir", "dir", dir, "error", err)
		watcher.Close()
		return s, nil
	}
	s.watcher = watcher
	go s.watch()
	return s, nil
}

// Close stops the external-change watcher.
func (s *Store) Close() error {
	close(s.done)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads and parses the value stored under key. A missing key or a
// corrupt payload yields def; parse failures are logged but never returned.
func Get[T any](s *Store, key string, def T) T {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("storage: read failed", "key", key, "error", err)
		}
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Warn("storage: corrupt payload, using default", "key", key, "error", err)
		return def
	}
	return v
}

// Set serializes v and writes it under key, then synchronously notifies
// every subscriber before returning. Returns false (and logs) when
// serialization or the write fails; the previously stored value is left
// untouched in that case.
func (s *Store) Set(key string, v any, senderID string) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("storage: marshal failed", "key", key, "error", err)
		return false
	}

	s.mu.Lock()
	s.lastWrite[key] = string(raw)
	s.mu.Unlock()

	if err := os.WriteFile(s.path(key), raw, 0600); err != nil {
		s.logger.Error("storage: write failed", "key", key, "error", err)
		return false
	}

	s.notify(key, raw, senderID)
	return true
}

// Remove deletes key and notifies subscribers with a nil payload.
func (s *Store) Remove(key, senderID string) {
	s.mu.Lock()
	s.lastWrite[key] = removedMarker
	s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("storage: remove failed", "key", key, "error", err)
	}
	s.notify(key, nil, senderID)
}

// ClearAll removes every namespaced key.
func (s *Store) ClearAll() {
	for _, key := range Keys {
		s.Remove(key, "")
	}
}

// Subscribe registers a listener for all committed changes and returns its
// unsubscribe function.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// notify fans out synchronously. The listener snapshot is taken under the
// lock but listeners run outside it, so a listener may itself call Set.
func (s *Store) notify(key string, raw []byte, senderID string) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(key, raw, senderID)
	}
}

// watch turns filesystem events from other processes into listener
// notifications. Events matching this store's own last write for a key are
// suppressed, mirroring the rule that the originating window never receives
// its own storage event.
func (s *Store) watch() {
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleEvent(ev)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("storage: watcher error", "error", err)
		}
	}
}

func (s *Store) handleEvent(ev fsnotify.Event) {
	base := filepath.Base(ev.Name)
	if !strings.HasPrefix(base, keyPrefix) || !strings.HasSuffix(base, ".json") {
		return
	}
	key := strings.TrimSuffix(base, ".json")

	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		s.mu.Lock()
		own := s.lastWrite[key] == removedMarker
		s.mu.Unlock()
		if !own {
			s.notify(key, nil, "")
		}
		return
	}
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
		return
	}

	raw, err := os.ReadFile(ev.Name)
	if err != nil {
		return
	}
	s.mu.Lock()
	own := s.lastWrite[key] == string(raw)
	s.mu.Unlock()
	if own {
		return
	}
	s.notify(key, raw, "")
}
