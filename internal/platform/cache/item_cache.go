// Package cache provides a Redis-backed read-through cache decorating the
// item store. Reads for the list and detail views are served from Redis
// when possible; every write goes straight to the underlying store and
// invalidates the affected keys. The cache is best-effort: Redis failures
// are logged and the underlying store answers instead.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/diydelight/customizer-api/internal/domain"
	"github.com/diydelight/customizer-api/internal/platform/logger"
	"github.com/diydelight/customizer-api/internal/store"
)

const (
	itemKeyPrefix = "item:"
	listKey       = "items:all"
)

// CachedItemStore decorates a store.ItemStore with Redis caching.
type CachedItemStore struct {
	inner  store.ItemStore
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedItemStore wraps the given store with a Redis read-through
// cache. Entries expire after ttl. If logger is nil, a default logger
// will be used.
func NewCachedItemStore(
	inner store.ItemStore,
	client *redis.Client,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedItemStore {
	if inner == nil {
		panic("inner store cannot be nil")
	}
	if client == nil {
		panic("redis client cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CachedItemStore{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "item_cache")),
	}
}

// Ensure CachedItemStore implements store.ItemStore interface
var _ store.ItemStore = (*CachedItemStore)(nil)

func itemKey(id int64) string {
	return fmt.Sprintf("%s%d", itemKeyPrefix, id)
}

// Create delegates to the underlying store and invalidates the list key.
func (c *CachedItemStore) Create(ctx context.Context, draft *domain.ItemDraft) (*domain.CustomItem, error) {
	item, err := c.inner.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, listKey)
	return item, nil
}

// GetByID serves the item from Redis when cached, falling back to the
// underlying store and populating the cache on a miss.
func (c *CachedItemStore) GetByID(ctx context.Context, id int64) (*domain.CustomItem, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	key := itemKey(id)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var item domain.CustomItem
		if err := json.Unmarshal(payload, &item); err == nil {
			log.Debug("item cache hit", slog.Int64("item_id", id))
			return &item, nil
		}
		// Undecodable entry; drop it and fall through to the store.
		c.invalidate(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		log.Warn("item cache read failed",
			slog.String("error", err.Error()),
			slog.Int64("item_id", id))
	}

	item, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.populate(ctx, key, item)
	return item, nil
}

// List serves the full listing from Redis when cached, falling back to
// the underlying store and populating the cache on a miss.
func (c *CachedItemStore) List(ctx context.Context) ([]*domain.CustomItem, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	payload, err := c.client.Get(ctx, listKey).Bytes()
	if err == nil {
		var items []*domain.CustomItem
		if err := json.Unmarshal(payload, &items); err == nil {
			log.Debug("list cache hit", slog.Int("count", len(items)))
			return items, nil
		}
		c.invalidate(ctx, listKey)
	} else if !errors.Is(err, redis.Nil) {
		log.Warn("list cache read failed", slog.String("error", err.Error()))
	}

	items, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	c.populate(ctx, listKey, items)
	return items, nil
}

// Update delegates to the underlying store and invalidates both the item
// key and the list key.
func (c *CachedItemStore) Update(ctx context.Context, id int64, draft *domain.ItemDraft) (*domain.CustomItem, error) {
	item, err := c.inner.Update(ctx, id, draft)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, itemKey(id), listKey)
	return item, nil
}

// Delete delegates to the underlying store and invalidates both the item
// key and the list key.
func (c *CachedItemStore) Delete(ctx context.Context, id int64) (*domain.CustomItem, error) {
	item, err := c.inner.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, itemKey(id), listKey)
	return item, nil
}

// populate writes a cache entry, logging and ignoring failures.
func (c *CachedItemStore) populate(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode cache entry",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to write cache entry",
			slog.String("error", err.Error()),
			slog.String("key", key))
	}
}

// invalidate removes cache entries, logging and ignoring failures.
func (c *CachedItemStore) invalidate(ctx context.Context, keys ...string) {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("failed to invalidate cache entries",
			slog.String("error", err.Error()),
			slog.Int("keys", len(keys)))
	}
}
