package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mise/backend/internal/domain/costing"
)

const costKeyPrefix = "cost:recipe:"

// RedisCostCache shares costing results across instances through Redis.
// Cache errors degrade to misses; costing is always recomputable.
type RedisCostCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisCostCache creates a Redis-backed cost cache and verifies the
// connection before returning.
func NewRedisCostCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisCostCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &RedisCostCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// NewRedisCostCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisCostCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCostCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCostCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func costKey(recipeID int64) string {
	return costKeyPrefix + strconv.FormatInt(recipeID, 10)
}

// Get retrieves a cached costing result for the recipe
func (c *RedisCostCache) Get(ctx context.Context, recipeID int64) (*costing.Result, bool) {
	payload, err := c.client.Get(ctx, costKey(recipeID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cost cache read failed",
				zap.Int64("recipe_id", recipeID),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var result costing.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		c.logger.Warn("cost cache entry corrupted, dropping",
			zap.Int64("recipe_id", recipeID),
			zap.Error(err),
		)
		c.client.Del(ctx, costKey(recipeID))
		return nil, false
	}

	return &result, true
}

// Set stores a costing result for the recipe
func (c *RedisCostCache) Set(ctx context.Context, recipeID int64, result *costing.Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("cost cache encode failed",
			zap.Int64("recipe_id", recipeID),
			zap.Error(err),
		)
		return
	}

	if err := c.client.Set(ctx, costKey(recipeID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cost cache write failed",
			zap.Int64("recipe_id", recipeID),
			zap.Error(err),
		)
	}
}

// Invalidate removes the cached result for the recipe
func (c *RedisCostCache) Invalidate(ctx context.Context, recipeID int64) {
	if err := c.client.Del(ctx, costKey(recipeID)).Err(); err != nil {
		c.logger.Warn("cost cache invalidation failed",
			zap.Int64("recipe_id", recipeID),
			zap.Error(err),
		)
	}
}

// Close releases the underlying Redis connection
func (c *RedisCostCache) Close() error {
	return c.client.Close()
}
