// Package share creates time-limited read-only snapshots of a query and
// its result, addressable by a short opaque id.
package share

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhath/sqlrunner/internal/query"
	"github.com/nhath/sqlrunner/internal/storage"
)

// TTL is how long a snapshot stays retrievable.
const TTL = 7 * 24 * time.Hour

// Store persists share snapshots through the key-value store. Expired
// snapshots are garbage-collected lazily on access, never by a timer.
type Store struct {
	items  *storage.Binding[[]query.SharedQuery]
	origin string
	now    func() time.Time
}

// NewStore binds the snapshot collection. origin is the base URL share
// links are built from.
func NewStore(s *storage.Store, origin string) *Store {
	return &Store{
		items:  storage.NewBinding(s, storage.KeySharedQueries, []query.SharedQuery(nil), nil),
		origin: strings.TrimRight(origin, "/"),
		now:    time.Now,
	}
}

// Close detaches the store from the change feed.
func (s *Store) Close() { s.items.Close() }

func newShareID() string {
	return uuid.NewString()[:8]
}

// Create snapshots sql and its result, prunes expired entries, and returns
// the new snapshot.
func (s *Store) Create(sql string, result *query.Result) query.SharedQuery {
	now := s.now()
	snap := query.SharedQuery{
		ID:        newShareID(),
		SQL:       sql,
		Result:    result,
		SharedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(TTL).UnixMilli(),
	}
	s.items.Update(func(prev []query.SharedQuery) []query.SharedQuery {
		return append(s.prune(prev), snap)
	})
	return snap
}

// Get returns the snapshot for id, or nil when it is unknown or expired.
// An expired hit is evicted on the spot.
func (s *Store) Get(id string) *query.SharedQuery {
	var out *query.SharedQuery
	expired := false
	for _, snap := range s.items.Get() {
		if snap.ID != id {
			continue
		}
		if snap.ExpiresAt <= s.now().UnixMilli() {
			expired = true
			break
		}
		out = &snap
		break
	}
	if expired {
		s.items.Update(s.prune)
	}
	return out
}

// Delete removes a snapshot. Returns false when the id is unknown.
func (s *Store) Delete(id string) bool {
	removed := false
	s.items.Update(func(prev []query.SharedQuery) []query.SharedQuery {
		next := prev[:0:0]
		for _, snap := range prev {
			if snap.ID == id {
				removed = true
				continue
			}
			next = append(next, snap)
		}
		return next
	})
	return removed
}

// List returns every live snapshot, pruning expired ones first. The prune
// is only persisted when something actually expired.
func (s *Store) List() []query.SharedQuery {
	current := s.items.Get()
	live := s.prune(current)
	if len(live) != len(current) {
		s.items.Update(s.prune)
	}
	return live
}

// Cleanup evicts every expired snapshot and reports how many were removed.
func (s *Store) Cleanup() int {
	removed := 0
	s.items.Update(func(prev []query.SharedQuery) []query.SharedQuery {
		next := s.prune(prev)
		removed = len(prev) - len(next)
		return next
	})
	return removed
}

// URL builds the public link for a snapshot id.
func (s *Store) URL(id string) string {
	return s.origin + "/share/" + id
}

func (s *Store) prune(snaps []query.SharedQuery) []query.SharedQuery {
	cutoff := s.now().UnixMilli()
	next := snaps[:0:0]
	for _, snap := range snaps {
		if snap.ExpiresAt > cutoff {
			next = append(next, snap)
		}
	}
	return next
}
