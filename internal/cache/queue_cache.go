package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/crisis-followup-service/internal/triage"
)

// QueueCache keeps short-lived snapshots of rendered queue responses in Redis
// for UI polling efficiency. It lives entirely outside the triage engine: the
// engine stays pure and the cache only ever holds already-serialized output.
// Misses and Redis failures both fall through to a fresh evaluation.
type QueueCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewQueueCache builds the cache. A nil client or non-positive TTL disables it.
func NewQueueCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *QueueCache {
	return &QueueCache{client: client, ttl: ttl, logger: logger}
}

// Key derives a cache key from the filter and sort mode.
func Key(filter triage.FilterSpec, mode triage.SortMode) string {
	return fmt.Sprintf("followup:queue:%s|%s|%s|%s",
		strings.ToLower(strings.TrimSpace(filter.Search)),
		filter.Status,
		filter.Priority,
		mode,
	)
}

// Get returns a cached snapshot, if present.
func (c *QueueCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.enabled() {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("queue cache get failed", zap.Error(err))
		}
		return nil, false
	}
	return payload, true
}

// Set stores a snapshot with the configured TTL.
func (c *QueueCache) Set(ctx context.Context, key string, payload []byte) {
	if !c.enabled() {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Debug("queue cache set failed", zap.Error(err))
	}
}

// Invalidate drops all queue snapshots; called after commands mutate events.
func (c *QueueCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, "followup:queue:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Debug("queue cache invalidate failed", zap.Error(err))
			return
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Debug("queue cache scan failed", zap.Error(err))
	}
}

func (c *QueueCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}
