package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"shopapi/internal/domain"
	applog "shopapi/internal/log"
	"shopapi/internal/repos"
)

const notFoundMarker = "notfound"

// ProductSource is the store behind the cache.
type ProductSource interface {
	Get(ctx context.Context, id string) (domain.Product, error)
}

// ProductCache is a read-through cache for single product lookups. A nil
// client turns it into a pass-through.
type ProductCache struct {
	src ProductSource
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(src ProductSource, rdb *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProductCache{src: src, rdb: rdb, ttl: ttl}
}

func key(id string) string { return fmt.Sprintf("product:%s", id) }

func (c *ProductCache) Get(ctx context.Context, id string) (domain.Product, error) {
	if c.rdb == nil {
		return c.src.Get(ctx, id)
	}

	val, err := c.rdb.Get(ctx, key(id)).Result()
	switch {
	case err == nil && val == notFoundMarker:
		return domain.Product{}, repos.ErrNotFound
	case err == nil:
		var p domain.Product
		if jerr := json.Unmarshal([]byte(val), &p); jerr == nil {
			return p, nil
		}
		// corrupt entry, fall through to the store
	case !errors.Is(err, redis.Nil):
		applog.L().Warn("cache.get_failed", zap.String("key", key(id)), zap.Error(err))
	}

	p, err := c.src.Get(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		c.set(ctx, id, notFoundMarker, time.Minute)
		return domain.Product{}, err
	}
	if err != nil {
		return domain.Product{}, err
	}
	if b, jerr := json.Marshal(p); jerr == nil {
		c.set(ctx, id, string(b), c.ttl)
	}
	return p, nil
}

func (c *ProductCache) set(ctx context.Context, id, val string, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key(id), val, ttl).Err(); err != nil {
		applog.L().Warn("cache.set_failed", zap.String("key", key(id)), zap.Error(err))
	}
}

// Invalidate drops cached entries for the given products.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...string) {
	if c.rdb == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		applog.L().Warn("cache.invalidate_failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// NewRedis connects to addr and pings it.
func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
