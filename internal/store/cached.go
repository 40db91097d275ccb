package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"io.winapps.casportfolio/internal/metrics"
	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

const (
	listCacheKeyPrefix = "entries:list:"
	// every write bumps the generation; lists are cached under the generation
	// read before the backend so a fill racing a write lands on a dead key
	listGenerationKey = "entries:gen"
)

// cachedEntry keeps the internal id, which Entry itself never serializes
type cachedEntry struct {
	InternalID string `json:"internalId"`
	entrymodels.Entry
}

// Cached serves List from Redis and invalidates every cached list on writes.
// Redis failures are logged and fall through to the wrapped store.
type Cached struct {
	next   Store
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewCached decorates next with a Redis list cache
func NewCached(next Store, redisClient *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *Cached {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Cached{next: next, redis: redisClient, ttl: ttl, logger: logger}
}

func listCacheKey(gen int64, kind *entrymodels.Kind) string {
	name := "all"
	if kind != nil {
		name = string(*kind)
	}
	return listCacheKeyPrefix + strconv.FormatInt(gen, 10) + ":" + name
}

func listCacheKeys(gen int64) []string {
	keys := []string{listCacheKey(gen, nil)}
	for _, k := range entrymodels.Kinds {
		keys = append(keys, listCacheKey(gen, &k))
	}
	return keys
}

// generation returns the current list generation, 0 before the first write
func (c *Cached) generation(ctx context.Context) (int64, error) {
	gen, err := c.redis.Get(ctx, listGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Cached) Create(ctx context.Context, n entrymodels.NewEntry) (*entrymodels.Entry, error) {
	e, err := c.next.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return e, nil
}

func (c *Cached) List(ctx context.Context, kind *entrymodels.Kind) ([]entrymodels.Entry, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warnw("entry list cache generation read failed", "error", err)
		metrics.ListCacheLookups.WithLabelValues("miss").Inc()
		return c.next.List(ctx, kind)
	}
	key := listCacheKey(gen, kind)

	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []cachedEntry
		if err := json.Unmarshal(raw, &cached); err == nil {
			entries := make([]entrymodels.Entry, 0, len(cached))
			for _, ce := range cached {
				e := ce.Entry
				e.InternalID = ce.InternalID
				entries = append(entries, e)
			}
			metrics.ListCacheLookups.WithLabelValues("hit").Inc()
			return entries, nil
		}
		c.logger.Warnw("discarding unreadable entry list cache", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warnw("entry list cache read failed", "key", key, "error", err)
	}

	metrics.ListCacheLookups.WithLabelValues("miss").Inc()
	entries, err := c.next.List(ctx, kind)
	if err != nil {
		return nil, err
	}

	cached := make([]cachedEntry, 0, len(entries))
	for _, e := range entries {
		cached = append(cached, cachedEntry{InternalID: e.InternalID, Entry: e})
	}
	payload, err := json.Marshal(cached)
	if err != nil {
		c.logger.Warnw("failed to encode entry list for cache", "key", key, "error", err)
		return entries, nil
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warnw("entry list cache write failed", "key", key, "error", err)
	}
	return entries, nil
}

func (c *Cached) Delete(ctx context.Context, id string) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *Cached) invalidate(ctx context.Context) {
	gen, err := c.redis.Incr(ctx, listGenerationKey).Result()
	if err != nil {
		c.logger.Warnw("entry list cache invalidation failed", "error", err)
		return
	}
	// the previous generation is unreachable now
	if err := c.redis.Del(ctx, listCacheKeys(gen-1)...).Err(); err != nil {
		c.logger.Warnw("failed to drop stale entry lists", "generation", gen-1, "error", err)
	}
}

func (c *Cached) Ping(ctx context.Context) error {
	if err := c.redis.Ping(ctx).Err(); err != nil {
		c.logger.Warnw("redis ping failed", "error", err)
	}
	return c.next.Ping(ctx)
}

func (c *Cached) Close(ctx context.Context) error {
	err := c.next.Close(ctx)
	if cerr := c.redis.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
