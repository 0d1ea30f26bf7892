package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/tripgraph/planner"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStoreWithClient(client, "", 0)
}

func TestRedisStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	state := planner.NewTripState("5 days in Istanbul")
	state.SessionID = "s1"
	state.Destination = "Istanbul"
	state.Intent = planner.IntentPlanTrip
	state.Errors = []string{"hotel search failed: boom"}

	require.NoError(t, store.Save(ctx, "s1", state))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Istanbul", loaded.Destination)
	assert.Equal(t, planner.IntentPlanTrip, loaded.Intent)
	assert.Equal(t, state.Errors, loaded.Errors)
}

func TestRedisStoreListDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, store.Save(ctx, id, planner.NewTripState("q "+id)))
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	require.NoError(t, store.Delete(ctx, "b"))

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)

	_, err = store.Load(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}
