package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/tripgraph/planner"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// A file-backed database: ":memory:" is per-connection, and database/sql
	// pools connections.
	store, err := NewSQLiteStore(SQLiteOptions{Path: filepath.Join(t.TempDir(), "sessions.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	state := planner.NewTripState("3 days in London")
	state.SessionID = "s1"
	state.Destination = "London"
	state.Preferences["cabin_class"] = "business"

	require.NoError(t, store.Save(ctx, "s1", state))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "London", loaded.Destination)
	assert.Equal(t, "business", loaded.Preferences["cabin_class"])

	// Upsert replaces the stored state.
	state.Destination = "Edinburgh"
	require.NoError(t, store.Save(ctx, "s1", state))
	loaded, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Edinburgh", loaded.Destination)
}

func TestSQLiteStoreListDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Save(ctx, id, planner.NewTripState("q "+id)))
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, "a"))
}
