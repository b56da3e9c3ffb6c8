package storage

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Binding wraps one store key as local reactive state. Writes carry the
// binding's instance id so the store's fan-out of this very write is not
// redundantly re-applied (self-echo suppression by identity, not value: two
// bindings writing identical payloads still notify each other).
//
// An optional transform normalizes values on initial load, on external
// updates, and on the payload written back to the store.
type Binding[T any] struct {
	store     *Store
	key       string
	id        string
	initial   T
	transform func(T) T
	logger    *slog.Logger

	mu       sync.RWMutex
	value    T
	onChange func(T)

	unsubscribe func()
}

// NewBinding loads the current value for key (falling back to initial) and
// subscribes to both in-process and cross-process change feeds.
func NewBinding[T any](s *Store, key string, initial T, transform func(T) T) *Binding[T] {
	v := Get(s, key, initial)
	if transform != nil {
		v = transform(v)
	}
	b := &Binding[T]{
		store:     s,
		key:       key,
		id:        uuid.NewString(),
		initial:   initial,
		transform: transform,
		logger:    s.logger,
		value:     v,
	}
	b.unsubscribe = s.Subscribe(b.handle)
	return b
}

// Close detaches the binding from the store's change feed.
func (b *Binding[T]) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

// InstanceID returns the identifier this binding writes with.
func (b *Binding[T]) InstanceID() string { return b.id }

// Get returns the current value.
func (b *Binding[T]) Get() T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

// Set replaces the value and persists it.
func (b *Binding[T]) Set(v T) {
	b.Update(func(T) T { return v })
}

// Update applies fn to the previous value and persists the result as a
// whole-value replacement. The transform normalizes the persisted payload;
// the in-memory value keeps what fn returned, so transient state stripped
// by the transform survives locally but never reaches disk.
func (b *Binding[T]) Update(fn func(T) T) {
	b.mu.Lock()
	v := fn(b.value)
	b.value = v
	b.mu.Unlock()

	persisted := v
	if b.transform != nil {
		persisted = b.transform(persisted)
	}
	b.store.Set(b.key, persisted, b.id)
}

// OnChange registers a callback invoked after an external update (another
// binding instance or another process) has been applied.
func (b *Binding[T]) OnChange(fn func(T)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// handle applies store notifications for this key. Notifications carrying
// this binding's own id are skipped; nil payloads (removals) reset the
// binding to its initial value; malformed external JSON is logged and
// skipped.
func (b *Binding[T]) handle(key string, raw []byte, senderID string) {
	if key != b.key || senderID == b.id {
		return
	}

	var v T
	if raw == nil {
		v = b.initial
	} else if err := json.Unmarshal(raw, &v); err != nil {
		b.logger.Warn("storage: ignoring malformed update", "key", key, "error", err)
		return
	}
	if b.transform != nil {
		v = b.transform(v)
	}

	b.mu.Lock()
	b.value = v
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(v)
	}
}
