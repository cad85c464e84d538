package persistence

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
)

const cacheKeyPrefix = "complaint:detail:"

// ComplaintCache is a read-through Redis cache for complaint detail
// lookups. Every failure degrades to a miss so Redis outages never
// surface to clients.
type ComplaintCache struct {
	redis  *Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewComplaintCache constructs the cache.
func NewComplaintCache(redis *Redis, ttl time.Duration, logger *zap.Logger) *ComplaintCache {
	return &ComplaintCache{redis: redis, ttl: ttl, logger: logger}
}

// Get returns the cached record for id, if any.
func (c *ComplaintCache) Get(ctx context.Context, id string) (*domain.ComplaintWithContact, bool) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil, false
	}
	raw, err := c.redis.Client.Get(ctx, cacheKeyPrefix+id).Bytes()
	if err != nil {
		return nil, false
	}
	var record domain.ComplaintWithContact
	if err := json.Unmarshal(raw, &record); err != nil {
		c.logger.Warn("corrupt cache entry dropped", zap.String("complaint_id", id), zap.Error(err))
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &record, true
}

// Set stores the record under the configured TTL.
func (c *ComplaintCache) Set(ctx context.Context, id string, record *domain.ComplaintWithContact) {
	if c == nil || c.redis == nil || c.redis.Client == nil || record == nil {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := c.redis.Client.Set(ctx, cacheKeyPrefix+id, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", zap.String("complaint_id", id), zap.Error(err))
	}
}

// Invalidate drops the cached record after a mutation.
func (c *ComplaintCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	_ = c.redis.Client.Del(ctx, cacheKeyPrefix+id).Err()
}
