// Package history keeps a capped, newest-first log of executed queries.
package history

import (
	"github.com/nhath/sqlrunner/internal/query"
	"github.com/nhath/sqlrunner/internal/storage"
)

// Limit caps the number of retained entries.
const Limit = 100

// Store persists the execution log through the key-value store.
type Store struct {
	items *storage.Binding[[]query.HistoryItem]
}

// NewStore binds the history log.
func NewStore(s *storage.Store) *Store {
	return &Store{
		items: storage.NewBinding(s, storage.KeyQueryHistory, []query.HistoryItem(nil), nil),
	}
}

// Close detaches the store from the change feed.
func (s *Store) Close() { s.items.Close() }

// List returns entries newest first.
func (s *Store) List() []query.HistoryItem {
	return s.items.Get()
}

// Add prepends an entry, evicting the oldest past the cap.
func (s *Store) Add(item query.HistoryItem) {
	s.items.Update(func(prev []query.HistoryItem) []query.HistoryItem {
		next := append([]query.HistoryItem{item}, prev...)
		if len(next) > Limit {
			next = next[:Limit]
		}
		return next
	})
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.items.Set(nil)
}

// OnChange registers a callback fired when another instance or process
// rewrites the log.
func (s *Store) OnChange(fn func([]query.HistoryItem)) {
	s.items.OnChange(fn)
}
