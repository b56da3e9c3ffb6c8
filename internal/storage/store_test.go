package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetReturnsDefaultForMissingKey(t *testing.T) {
	s := newTestStore(t)

	got := Get(s, KeyTheme, "dark")
	assert.Equal(t, "dark", got)
}

func TestSetThenGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	ok := s.Set(KeyTheme, "light", "")
	require.True(t, ok)
	assert.Equal(t, "light", Get(s, KeyTheme, "dark"))
}

func TestGetReturnsDefaultForCorruptPayload(t *testing.T) {
	s := newTestStore(t)

	path := filepath.Join(s.Dir(), KeySavedQueries+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	got := Get(s, KeySavedQueries, []string{"fallback"})
	assert.Equal(t, []string{"fallback"}, got)
}

func TestSetReturnsFalseOnUnserializableValue(t *testing.T) {
	s := newTestStore(t)

	s.Set(KeyTheme, "light", "")
	ok := s.Set(KeyTheme, func() {}, "")
	assert.False(t, ok)

	// Prior stored value is untouched.
	assert.Equal(t, "light", Get(s, KeyTheme, ""))
}

func TestSetNotifiesSubscribersSynchronously(t *testing.T) {
	s := newTestStore(t)

	var seen []string
	unsub := s.Subscribe(func(key string, raw []byte, senderID string) {
		seen = append(seen, key+"="+string(raw)+" from "+senderID)
	})
	defer unsub()

	s.Set(KeyTheme, "light", "sender-1")

	// Fan-out happens before Set returns, no synchronization needed.
	require.Len(t, seen, 1)
	assert.Equal(t, KeyTheme+`="light" from sender-1`, seen[0])
}

func TestRemoveNotifiesWithNilPayload(t *testing.T) {
	s := newTestStore(t)
	s.Set(KeyTheme, "light", "")

	var gotRaw []byte = []byte("sentinel")
	unsub := s.Subscribe(func(key string, raw []byte, senderID string) {
		if key == KeyTheme {
			gotRaw = raw
		}
	})
	defer unsub()

	s.Remove(KeyTheme, "")
	assert.Nil(t, gotRaw)
	assert.Equal(t, "gone", Get(s, KeyTheme, "gone"))
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	s := newTestStore(t)

	calls := 0
	unsub := s.Subscribe(func(string, []byte, string) { calls++ })
	s.Set(KeyTheme, "a", "")
	unsub()
	s.Set(KeyTheme, "b", "")

	assert.Equal(t, 1, calls)
}

func TestClearAllRemovesEveryNamespacedKey(t *testing.T) {
	s := newTestStore(t)

	for _, key := range Keys {
		s.Set(key, "x", "")
	}
	s.ClearAll()

	for _, key := range Keys {
		assert.Equal(t, "empty", Get(s, key, "empty"), key)
	}
}

func TestBindingTransformAppliedOnLoad(t *testing.T) {
	s := newTestStore(t)
	s.Set(KeyActiveTab, "abc", "")

	b := NewBinding(s, KeyActiveTab, "", func(v string) string { return v + "-normalized" })
	defer b.Close()

	assert.Equal(t, "abc-normalized", b.Get())
}

func TestBindingUpdateReceivesPreviousValue(t *testing.T) {
	s := newTestStore(t)

	b := NewBinding[[]int](s, KeyQueryHistory, []int{1}, nil)
	defer b.Close()

	b.Update(func(prev []int) []int { return append(prev, 2) })
	assert.Equal(t, []int{1, 2}, b.Get())
	assert.Equal(t, []int{1, 2}, Get(s, KeyQueryHistory, []int(nil)))
}

func TestBindingSelfEchoSuppression(t *testing.T) {
	s := newTestStore(t)

	a := NewBinding(s, KeyActiveTab, "", nil)
	defer a.Close()
	b := NewBinding(s, KeyActiveTab, "", nil)
	defer b.Close()

	aChanges, bChanges := 0, 0
	a.OnChange(func(string) { aChanges++ })
	b.OnChange(func(string) { bChanges++ })

	a.Set("tab-7")

	// The writer does not re-apply its own notification; the sibling does.
	assert.Equal(t, 0, aChanges)
	assert.Equal(t, 1, bChanges)
	assert.Equal(t, "tab-7", a.Get())
	assert.Equal(t, "tab-7", b.Get())
}

func TestBindingResetsOnRemoval(t *testing.T) {
	s := newTestStore(t)

	b := NewBinding(s, KeyTheme, "nord", nil)
	defer b.Close()
	b.Set("dracula")

	var observed string
	b.OnChange(func(v string) { observed = v })

	s.Remove(KeyTheme, "")

	assert.Equal(t, "nord", b.Get(), "removal resets to the initial value")
	assert.Equal(t, "nord", observed)
}

func TestBindingResetAppliesTransform(t *testing.T) {
	s := newTestStore(t)
	s.Set(KeyActiveTab, "tab-1", "")

	b := NewBinding(s, KeyActiveTab, "", func(v string) string { return v + "-normalized" })
	defer b.Close()

	s.ClearAll()
	assert.Equal(t, "-normalized", b.Get())
}

func TestBindingIgnoresMalformedExternalUpdate(t *testing.T) {
	s := newTestStore(t)

	b := NewBinding[[]string](s, KeySavedQueries, []string{"keep"}, nil)
	defer b.Close()

	// Simulate a corrupt payload arriving on the notification path.
	s.notify(KeySavedQueries, []byte("{broken"), "someone-else")

	assert.Equal(t, []string{"keep"}, b.Get())
}
