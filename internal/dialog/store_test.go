package dialog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	state := State{
		ExpectingRecipient: true,
		PendingAction:      ActionSend,
		PartialData:        map[string]interface{}{KeyAmount: 50.0},
	}

	assert.NoError(t, store.Put(ctx, "s1", state))

	got, err := store.Get(ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, state, got)

	assert.NoError(t, store.Delete(ctx, "s1"))

	got, err = store.Get(ctx, "s1")
	assert.NoError(t, err)
	assert.True(t, got.Idle())
}

func TestMemoryStore_MissingSessionIsIdle(t *testing.T) {
	store := NewMemoryStore()

	got, err := store.Get(context.Background(), "never-seen")
	assert.NoError(t, err)
	assert.Equal(t, State{}, got)
}

func newRedisStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisStore) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewRedisStore(client, ttl)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	_, store := newRedisStore(t, time.Hour)
	ctx := context.Background()

	state := State{
		ExpectingAmount: true,
		PendingAction:   ActionDeposit,
		PartialData:     map[string]interface{}{KeyCurrency: "EUR"},
	}

	assert.NoError(t, store.Put(ctx, "s1", state))

	got, err := store.Get(ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, state, got)

	assert.NoError(t, store.Delete(ctx, "s1"))

	got, err = store.Get(ctx, "s1")
	assert.NoError(t, err)
	assert.True(t, got.Idle())
}

func TestRedisStore_SessionExpires(t *testing.T) {
	mr, store := newRedisStore(t, time.Minute)
	ctx := context.Background()

	state := State{
		ExpectingRecipient: true,
		PendingAction:      ActionSend,
	}
	assert.NoError(t, store.Put(ctx, "s1", state))

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "s1")
	assert.NoError(t, err)
	assert.True(t, got.Idle(), "expired session reads back as idle")
}

func TestRedisStore_CorruptDocumentIsAnError(t *testing.T) {
	mr, store := newRedisStore(t, time.Hour)
	mr.Set("session:s1", "not json {{{")

	_, err := store.Get(context.Background(), "s1")
	assert.Error(t, err)
}
