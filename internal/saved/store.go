// Package saved manages the user's bookmarked queries.
package saved

import (
	"time"

	"github.com/google/uuid"

	"github.com/nhath/sqlrunner/internal/query"
	"github.com/nhath/sqlrunner/internal/storage"
)

// Update carries a partial edit; nil fields are left untouched.
type Update struct {
	Name  *string
	SQL   *string
	Notes *string
}

// Store persists saved queries through the key-value store.
type Store struct {
	items *storage.Binding[[]query.SavedQuery]
	now   func() time.Time
}

// NewStore binds the saved-query collection.
func NewStore(s *storage.Store) *Store {
	return &Store{
		items: storage.NewBinding(s, storage.KeySavedQueries, []query.SavedQuery(nil), nil),
		now:   time.Now,
	}
}

// Close detaches the store from the change feed.
func (s *Store) Close() { s.items.Close() }

// List returns every saved query, newest first.
func (s *Store) List() []query.SavedQuery {
	return s.items.Get()
}

// Save prepends a new bookmark and returns it.
func (s *Store) Save(name, sql, notes string) query.SavedQuery {
	now := s.now().UnixMilli()
	q := query.SavedQuery{
		ID:        uuid.NewString(),
		Name:      name,
		SQL:       sql,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.items.Update(func(prev []query.SavedQuery) []query.SavedQuery {
		return append([]query.SavedQuery{q}, prev...)
	})
	return q
}

// Update applies a partial edit and stamps UpdatedAt. An unknown id is a
// no-op: nothing is rewritten and nil is returned.
func (s *Store) Update(id string, upd Update) *query.SavedQuery {
	known := false
	for _, q := range s.items.Get() {
		if q.ID == id {
			known = true
			break
		}
	}
	if !known {
		return nil
	}

	var out *query.SavedQuery
	s.items.Update(func(prev []query.SavedQuery) []query.SavedQuery {
		next := make([]query.SavedQuery, len(prev))
		for i, q := range prev {
			if q.ID == id {
				if upd.Name != nil {
					q.Name = *upd.Name
				}
				if upd.SQL != nil {
					q.SQL = *upd.SQL
				}
				if upd.Notes != nil {
					q.Notes = *upd.Notes
				}
				q.UpdatedAt = s.now().UnixMilli()
				out = &q
			}
			next[i] = q
		}
		return next
	})
	return out
}

// Delete removes a bookmark. Returns false when the id is unknown.
func (s *Store) Delete(id string) bool {
	removed := false
	s.items.Update(func(prev []query.SavedQuery) []query.SavedQuery {
		next := prev[:0:0]
		for _, q := range prev {
			if q.ID == id {
				removed = true
				continue
			}
			next = append(next, q)
		}
		return next
	})
	return removed
}

// OnChange registers a callback fired when another instance or process
// rewrites the collection.
func (s *Store) OnChange(fn func([]query.SavedQuery)) {
	s.items.OnChange(fn)
}
