package cache

import (
	"fmt"

	"go.uber.org/zap"

	recipeapp "github.com/mise/backend/internal/application/recipe"
	"github.com/mise/backend/internal/infrastructure/config"
)

// CostCacheFactory creates cost caches based on configuration
type CostCacheFactory struct {
	cacheConfig   config.CacheConfig
	redisConfig   config.RedisConfig
	logger        *zap.Logger
	allowFallback bool
}

// CostCacheFactoryOption is a functional option for configuring the factory
type CostCacheFactoryOption func(*CostCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CostCacheFactoryOption {
	return func(f *CostCacheFactory) {
		f.logger = logger
	}
}

// WithMemoryFallback controls whether to fall back to the in-process
// cache when Redis is unavailable. Default is true.
func WithMemoryFallback(allow bool) CostCacheFactoryOption {
	return func(f *CostCacheFactory) {
		f.allowFallback = allow
	}
}

// NewCostCacheFactory creates a new factory
func NewCostCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...CostCacheFactoryOption) *CostCacheFactory {
	f := &CostCacheFactory{
		cacheConfig:   cacheCfg,
		redisConfig:   redisCfg,
		logger:        zap.NewNop(),
		allowFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateMemoryCache creates an in-process LRU cost cache
func (f *CostCacheFactory) CreateMemoryCache() (recipeapp.CostCache, error) {
	c, err := NewLRUCostCache(f.cacheConfig.Size, f.cacheConfig.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cost cache: %w", err)
	}
	return c, nil
}

// CreateRedisCache creates a Redis-backed cost cache
func (f *CostCacheFactory) CreateRedisCache() (recipeapp.CostCache, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	c, err := NewRedisCostCache(redisCfg, f.cacheConfig.TTL, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cost cache: %w", err)
	}
	return c, nil
}

// CreateCache creates a cost cache for the configured backend. When the
// backend is redis and Redis is unavailable, it falls back to the
// in-process cache unless fallback is disabled.
func (f *CostCacheFactory) CreateCache() (recipeapp.CostCache, error) {
	if f.cacheConfig.Backend != "redis" {
		f.logger.Info("using in-process cost cache",
			zap.Int("size", f.cacheConfig.Size),
			zap.Duration("ttl", f.cacheConfig.TTL),
		)
		return f.CreateMemoryCache()
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis cost cache")
		return c, nil
	}

	if !f.allowFallback {
		return nil, fmt.Errorf("Redis required for cost cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-process cost cache. "+
		"Cached costs will not be shared across instances.",
		zap.Error(err),
	)
	return f.CreateMemoryCache()
}
