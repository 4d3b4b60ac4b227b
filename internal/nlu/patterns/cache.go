package patterns

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finassist/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// CachedSource wraps another Source with a redis read-through cache so
// restarts within the TTL reuse the last good remote set instead of hitting
// the pattern store again. Cache failures are non-fatal in both directions.
type CachedSource struct {
	inner  Source
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(inner Source, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "patternCache"}),
	}
}

func (c *CachedSource) FetchIntentPatterns(ctx context.Context) ([]IntentPattern, error) {
	var cached []IntentPattern
	if c.lookup(ctx, KindIntent, &cached) {
		return cached, nil
	}

	fetched, err := c.inner.FetchIntentPatterns(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, KindIntent, fetched)
	return fetched, nil
}

func (c *CachedSource) FetchEntityPatterns(ctx context.Context) ([]EntityPattern, error) {
	var cached []EntityPattern
	if c.lookup(ctx, KindEntity, &cached) {
		return cached, nil
	}

	fetched, err := c.inner.FetchEntityPatterns(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, KindEntity, fetched)
	return fetched, nil
}

func cacheKey(kind Kind) string {
	return fmt.Sprintf("patterns:%s", kind)
}

func (c *CachedSource) lookup(ctx context.Context, kind Kind, out interface{}) bool {
	val, err := c.redis.Get(ctx, cacheKey(kind)).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		c.logger.Warn("discarding unreadable cached pattern set", map[string]interface{}{
			"kind":  string(kind),
			"error": err.Error(),
		})
		c.redis.Del(ctx, cacheKey(kind))
		return false
	}
	return true
}

func (c *CachedSource) store(ctx context.Context, kind Kind, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKey(kind), data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache pattern set", map[string]interface{}{
			"kind":  string(kind),
			"error": err.Error(),
		})
	}
}
