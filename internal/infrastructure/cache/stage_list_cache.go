package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hrms/backend/internal/domain/recruitment"
)

// RedisStageListCache implements StageListCache using Redis
type RedisStageListCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	logger     *zap.Logger
}

// RedisStageListCacheOption is a functional option for configuring the cache
type RedisStageListCacheOption func(*RedisStageListCache)

// WithStageListCacheLogger sets the logger for the cache
func WithStageListCacheLogger(logger *zap.Logger) RedisStageListCacheOption {
	return func(c *RedisStageListCache) {
		c.logger = logger
	}
}

// NewRedisStageListCache creates a new Redis-based stage list cache
func NewRedisStageListCache(cfg RedisConfig, opts ...RedisStageListCacheOption) (*RedisStageListCache, error) {
	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	cache := &RedisStageListCache{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisStageListCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisStageListCacheWithClient(client *redis.Client, opts ...RedisStageListCacheOption) *RedisStageListCache {
	cache := &RedisStageListCache{
		client:     client,
		ownsClient: false, // Client is shared, don't close it
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// stageListKey generates the cache key for an organization's stage list
func (c *RedisStageListCache) stageListKey(organizationID uuid.UUID) string {
	return fmt.Sprintf("stages:%s", organizationID.String())
}

// Get retrieves the cached stage list for an organization
func (c *RedisStageListCache) Get(ctx context.Context, organizationID uuid.UUID) ([]recruitment.StageListItem, error) {
	cacheKey := c.stageListKey(organizationID)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		// Cache miss
		c.logger.Debug("Cache miss for stage list",
			zap.String("organization_id", organizationID.String()))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get stage list from cache",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get stage list from cache: %w", err)
	}

	var items []recruitment.StageListItem
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Error("Failed to unmarshal stage list",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal stage list: %w", err)
	}

	c.logger.Debug("Cache hit for stage list",
		zap.String("organization_id", organizationID.String()))
	return items, nil
}

// Set stores the ordered stage list with the specified TTL
func (c *RedisStageListCache) Set(ctx context.Context, organizationID uuid.UUID, items []recruitment.StageListItem, ttl time.Duration) error {
	if ttl == 0 {
		ttl = recruitment.DefaultStageListTTL
	}

	cacheKey := c.stageListKey(organizationID)

	data, err := json.Marshal(items)
	if err != nil {
		c.logger.Error("Failed to marshal stage list",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to marshal stage list: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set stage list in cache",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to set stage list in cache: %w", err)
	}

	c.logger.Debug("Cached stage list",
		zap.String("organization_id", organizationID.String()),
		zap.Duration("ttl", ttl))
	return nil
}

// Invalidate removes the cached list for an organization
func (c *RedisStageListCache) Invalidate(ctx context.Context, organizationID uuid.UUID) error {
	cacheKey := c.stageListKey(organizationID)

	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Error("Failed to invalidate stage list cache",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to invalidate stage list cache: %w", err)
	}

	c.logger.Debug("Invalidated stage list cache",
		zap.String("organization_id", organizationID.String()))
	return nil
}

// Close releases any resources held by the cache
func (c *RedisStageListCache) Close() error {
	// Only close client if we own it
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisStageListCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisStageListCache implements StageListCache
var _ recruitment.StageListCache = (*RedisStageListCache)(nil)
