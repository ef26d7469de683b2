package chatsession

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, time.Hour)
}

func TestRedisStoreAppendAndTurns(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", "hello"))
	require.NoError(t, store.Append(ctx, "sess-1", "what does pricing look like?"))

	turns, err := store.Turns(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "what does pricing look like?"}, turns)
}

func TestRedisStoreUnknownSession(t *testing.T) {
	store := newRedisStore(t)

	turns, err := store.Turns(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestRedisStoreCapsTurnCount(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, store.Append(ctx, "sess-1", fmt.Sprintf("turn %d", i)))
	}

	turns, err := store.Turns(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, turns, maxTurns)
	assert.Equal(t, "turn 5", turns[0])
	assert.Equal(t, "turn 14", turns[len(turns)-1])
}

func TestStoresCapTurnLength(t *testing.T) {
	long := strings.Repeat("x", 2000)
	for name, store := range map[string]Store{
		"redis":  newRedisStore(t),
		"memory": NewMemoryStore(),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Append(ctx, "sess-1", long))
			turns, err := store.Turns(ctx, "sess-1")
			require.NoError(t, err)
			require.Len(t, turns, 1)
			assert.Len(t, turns[0], maxTurnLen)
		})
	}
}

func TestMemoryStoreIgnoresEmpty(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "", "hi"))
	require.NoError(t, store.Append(ctx, "sess-1", "   "))

	turns, err := store.Turns(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}
