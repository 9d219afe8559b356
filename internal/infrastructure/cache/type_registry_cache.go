package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hrms/backend/internal/domain/payroll"
)

// RedisTypeRegistryCache implements TypeRegistryCache using Redis.
// Registry entries carry no TTL: a snapshot stays valid until the next
// matrix build overwrites it.
type RedisTypeRegistryCache struct {
	client     *redis.Client
	ownsClient bool
	logger     *zap.Logger
}

// RedisTypeRegistryCacheOption is a functional option for configuring the cache
type RedisTypeRegistryCacheOption func(*RedisTypeRegistryCache)

// WithTypeRegistryCacheLogger sets the logger for the cache
func WithTypeRegistryCacheLogger(logger *zap.Logger) RedisTypeRegistryCacheOption {
	return func(c *RedisTypeRegistryCache) {
		c.logger = logger
	}
}

// NewRedisTypeRegistryCache creates a new Redis-based type registry cache
func NewRedisTypeRegistryCache(cfg RedisConfig, opts ...RedisTypeRegistryCacheOption) (*RedisTypeRegistryCache, error) {
	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	cache := &RedisTypeRegistryCache{
		client:     client,
		ownsClient: true,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisTypeRegistryCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisTypeRegistryCacheWithClient(client *redis.Client, opts ...RedisTypeRegistryCacheOption) *RedisTypeRegistryCache {
	cache := &RedisTypeRegistryCache{
		client:     client,
		ownsClient: false,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// registryKey generates the cache key for an organization's type registry
func (c *RedisTypeRegistryCache) registryKey(organizationID uuid.UUID) string {
	return fmt.Sprintf("compensation_types:%s", organizationID.String())
}

// Get retrieves the registered type columns for an organization
func (c *RedisTypeRegistryCache) Get(ctx context.Context, organizationID uuid.UUID) ([]string, error) {
	cacheKey := c.registryKey(organizationID)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		// No snapshot yet
		c.logger.Debug("Cache miss for type registry",
			zap.String("organization_id", organizationID.String()))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get type registry from cache",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get type registry from cache: %w", err)
	}

	var types []string
	if err := json.Unmarshal(data, &types); err != nil {
		c.logger.Error("Failed to unmarshal type registry",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal type registry: %w", err)
	}

	return types, nil
}

// Set overwrites the registry snapshot for an organization
func (c *RedisTypeRegistryCache) Set(ctx context.Context, organizationID uuid.UUID, types []string) error {
	cacheKey := c.registryKey(organizationID)

	data, err := json.Marshal(types)
	if err != nil {
		c.logger.Error("Failed to marshal type registry",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to marshal type registry: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, 0).Err(); err != nil {
		c.logger.Error("Failed to set type registry in cache",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to set type registry in cache: %w", err)
	}

	c.logger.Debug("Cached type registry",
		zap.String("organization_id", organizationID.String()),
		zap.Int("types", len(types)))
	return nil
}

// Close releases any resources held by the cache
func (c *RedisTypeRegistryCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisTypeRegistryCache implements TypeRegistryCache
var _ payroll.TypeRegistryCache = (*RedisTypeRegistryCache)(nil)
