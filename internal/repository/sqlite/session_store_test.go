package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, path string) *SessionStore {
	t.Helper()

	store, err := NewSessionStore(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSessionStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, filepath.Join(t.TempDir(), "sessions.db"))

	_, ok, err := store.Get(ctx, "session:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "session:1", `{"id":"u1"}`))
	require.NoError(t, store.Set(ctx, "session:1", `{"id":"u2"}`))

	value, ok, err := store.Get(ctx, "session:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"u2"}`, value)

	require.NoError(t, store.Delete(ctx, "session:1"))
	require.NoError(t, store.Delete(ctx, "session:1"))

	_, ok, err = store.Get(ctx, "session:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "sessions.db")

	first, err := NewSessionStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "session:abc", "payload"))
	require.NoError(t, first.Close())

	second := newStore(t, path)
	value, ok, err := second.Get(ctx, "session:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", value)
}
