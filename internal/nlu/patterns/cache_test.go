package patterns

import (
	"context"
	"errors"
	"testing"
	"time"

	"finassist/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func TestCachedSource_MissFetchesAndCaches(t *testing.T) {
	mr, rdb := setupRedis(t)
	inner := &fakeSource{
		intents: []IntentPattern{{ID: "p1", IntentType: "send_money", Pattern: "send", Priority: 8}},
	}
	src := NewCachedSource(inner, rdb, 30*time.Minute, logger.NewTestLogger(t))

	got, err := src.FetchIntentPatterns(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, inner.intents, got)
	assert.Equal(t, 1, inner.fetchCalls)
	assert.True(t, mr.Exists("patterns:intent"))
}

func TestCachedSource_HitSkipsInnerSource(t *testing.T) {
	_, rdb := setupRedis(t)
	inner := &fakeSource{
		intents: []IntentPattern{{ID: "p1", IntentType: "send_money", Pattern: "send", Priority: 8}},
	}
	src := NewCachedSource(inner, rdb, 30*time.Minute, logger.NewTestLogger(t))

	_, err := src.FetchIntentPatterns(context.Background())
	assert.NoError(t, err)

	got, err := src.FetchIntentPatterns(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, inner.intents, got)
	assert.Equal(t, 1, inner.fetchCalls, "second fetch must be served from redis")
}

func TestCachedSource_ExpiredEntryRefetches(t *testing.T) {
	mr, rdb := setupRedis(t)
	inner := &fakeSource{
		intents: []IntentPattern{{ID: "p1", IntentType: "send_money", Pattern: "send", Priority: 8}},
	}
	src := NewCachedSource(inner, rdb, time.Minute, logger.NewTestLogger(t))

	_, err := src.FetchIntentPatterns(context.Background())
	assert.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = src.FetchIntentPatterns(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, inner.fetchCalls)
}

func TestCachedSource_InnerFailurePropagates(t *testing.T) {
	_, rdb := setupRedis(t)
	inner := &fakeSource{err: errors.New("store down")}
	src := NewCachedSource(inner, rdb, 30*time.Minute, logger.NewTestLogger(t))

	_, err := src.FetchIntentPatterns(context.Background())
	assert.Error(t, err)
}

func TestCachedSource_CorruptEntryDiscarded(t *testing.T) {
	mr, rdb := setupRedis(t)
	mr.Set("patterns:intent", "not json {{{")

	inner := &fakeSource{
		intents: []IntentPattern{{ID: "p1", IntentType: "send_money", Pattern: "send", Priority: 8}},
	}
	src := NewCachedSource(inner, rdb, 30*time.Minute, logger.NewTestLogger(t))

	got, err := src.FetchIntentPatterns(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, inner.intents, got)
	assert.Equal(t, 1, inner.fetchCalls)
}
