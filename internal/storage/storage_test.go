package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	return NewFileStore(path, zerolog.Nop()), path
}

func TestFileStore_SetGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set(KeyCartItems, []byte(`[{"id":1,"quantity":2}]`)))

	got, ok := store.Get(KeyCartItems)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":1,"quantity":2}]`, string(got))
}

func TestFileStore_GetMissingKey(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok := store.Get("nope")
	assert.False(t, ok)
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	store := NewFileStore(path, zerolog.Nop())
	require.NoError(t, store.Set(KeyUser, []byte(`{"username":"alex"}`)))
	require.NoError(t, store.Set(KeyCartItems, []byte(`[]`)))

	reopened := NewFileStore(path, zerolog.Nop())
	got, ok := reopened.Get(KeyUser)
	require.True(t, ok)
	assert.JSONEq(t, `{"username":"alex"}`, string(got))
}

func TestFileStore_CorruptFileResetsToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path, zerolog.Nop())

	_, ok := store.Get(KeyCartItems)
	assert.False(t, ok)

	// The store must stay usable after a corrupt load.
	require.NoError(t, store.Set(KeyCartItems, []byte(`[]`)))
	_, ok = store.Get(KeyCartItems)
	assert.True(t, ok)
}

func TestFileStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set(KeyUser, []byte(`{}`)))
	require.NoError(t, store.Delete(KeyUser))

	_, ok := store.Get(KeyUser)
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	require.NoError(t, store.Delete(KeyUser))
}

func TestFileStore_RejectsInvalidJSON(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Set(KeyUser, []byte("{broken"))
	require.Error(t, err)
}

func TestFileStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	store := NewFileStore(path, zerolog.Nop())

	require.NoError(t, store.Set(KeyUser, []byte(`{}`)))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
