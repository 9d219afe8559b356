package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/domain/recruitment"
	"github.com/hrms/backend/internal/infrastructure/auth"
	"github.com/hrms/backend/internal/infrastructure/config"
)

// CacheFactory creates the application caches based on configuration
type CacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CacheFactoryOption is a functional option for configuring the factory
type CacheFactoryOption func(*CacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CacheFactoryOption {
	return func(f *CacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory caches
// when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) CacheFactoryOption {
	return func(f *CacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCacheFactory creates a new factory
func NewCacheFactory(cfg config.RedisConfig, opts ...CacheFactoryOption) *CacheFactory {
	f := &CacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *CacheFactory) redisCfg() RedisConfig {
	return RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}
}

// CreateStageListCache creates a stage list cache, Redis-backed when
// available, with an in-memory fallback when allowed.
// WARNING: In-memory caches do not share state across process instances,
// so invalidations on one instance are invisible to the others.
func (f *CacheFactory) CreateStageListCache() (recruitment.StageListCache, error) {
	redisCache, err := NewRedisStageListCache(f.redisCfg(), WithStageListCacheLogger(f.logger))
	if err == nil {
		f.logger.Info("using Redis stage list cache")
		return redisCache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for stage list cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stage list cache. "+
		"Invalidations will not propagate across instances.",
		zap.Error(err),
	)
	return NewInMemoryStageListCache(), nil
}

// CreateTypeRegistryCache creates a type registry cache, Redis-backed when
// available, with an in-memory fallback when allowed.
func (f *CacheFactory) CreateTypeRegistryCache() (payroll.TypeRegistryCache, error) {
	redisCache, err := NewRedisTypeRegistryCache(f.redisCfg(), WithTypeRegistryCacheLogger(f.logger))
	if err == nil {
		f.logger.Info("using Redis type registry cache")
		return redisCache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for type registry cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory type registry cache. "+
		"Matrix column snapshots will not be shared across instances.",
		zap.Error(err),
	)
	return NewInMemoryTypeRegistryCache(), nil
}

// CreateTokenBlacklist creates a token blacklist, Redis-backed when
// available so revocations reach every instance, with an in-memory
// fallback when allowed.
func (f *CacheFactory) CreateTokenBlacklist() (auth.TokenBlacklist, error) {
	blacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis token blacklist")
		return blacklist, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for token blacklist but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory token blacklist. "+
		"Revocations will not propagate across instances.",
		zap.Error(err),
	)
	return auth.NewInMemoryTokenBlacklist(), nil
}
