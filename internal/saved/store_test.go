package saved

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/sqlrunner/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	kv, err := storage.Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	s := NewStore(kv)
	t.Cleanup(s.Close)
	return s
}

func TestSaveAndList(t *testing.T) {
	s := newTestStore(t)

	first := s.Save("daily actives", "SELECT * FROM users", "run each morning")
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	second := s.Save("open orders", "SELECT * FROM orders", "")

	items := s.List()
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID, "newest bookmark comes first")
	assert.Equal(t, first.ID, items[1].ID)
}

func TestUpdateUnknownIDDoesNotRewrite(t *testing.T) {
	kv, err := storage.Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	s := NewStore(kv)
	t.Cleanup(s.Close)

	q := s.Save("a", "SELECT 1", "")

	writes := 0
	unsub := kv.Subscribe(func(key string, _ []byte, _ string) {
		if key == storage.KeySavedQueries {
			writes++
		}
	})
	defer unsub()

	name := "x"
	assert.Nil(t, s.Update("no-such-id", Update{Name: &name}))
	assert.Zero(t, writes, "unknown id must not rewrite the collection")

	items := s.List()
	require.Len(t, items, 1)
	assert.Equal(t, q, items[0])
}

func TestUpdatePartialEdit(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.UnixMilli(1000) }
	q := s.Save("orig", "SELECT 1", "")

	s.now = func() time.Time { return time.UnixMilli(2000) }
	name := "renamed"
	got := s.Update(q.ID, Update{Name: &name})
	require.NotNil(t, got)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, "SELECT 1", got.SQL, "unset fields stay untouched")
	assert.Equal(t, int64(1000), got.CreatedAt)
	assert.Equal(t, int64(2000), got.UpdatedAt)

	assert.Nil(t, s.Update("no-such-id", Update{Name: &name}))
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	a := s.Save("a", "SELECT 1", "")
	b := s.Save("b", "SELECT 2", "")

	assert.True(t, s.Delete(a.ID))
	assert.False(t, s.Delete(a.ID))

	items := s.List()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}
