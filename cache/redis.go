package cache

import (
	"context"
	"fmt"
	"sync"

	"goboard/config"
	"goboard/logger"

	"github.com/redis/go-redis/v9"
)

// ViewKeyPrefix is the key namespace for pending view counters.
const ViewKeyPrefix = "board:views:"

var (
	redisInstance *RedisCache
	redisOnce     sync.Once
)

// RedisCache wraps the shared Redis client.
type RedisCache struct {
	client *redis.Client
	log    *logger.Logger
	config *config.RedisConfig
}

// NewRedisCache creates or returns the existing Redis cache instance.
func NewRedisCache(cfg *config.RedisConfig) (*RedisCache, error) {
	var initErr error
	redisOnce.Do(func() {
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.Host + ":" + cfg.Port,
			Password:    cfg.Password,
			DB:          cfg.DB,
			DialTimeout: cfg.GetConnectTimeout(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), cfg.GetConnectTimeout())
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			initErr = fmt.Errorf("failed to connect to Redis: %w", err)
			return
		}

		redisInstance = &RedisCache{
			client: client,
			log:    logger.GetLogger(),
			config: cfg,
		}

		redisInstance.log.Info("Redis cache initialized", map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
			"db":   cfg.DB,
		})
	})

	if initErr != nil {
		return nil, initErr
	}
	if redisInstance == nil {
		return nil, fmt.Errorf("redis cache initialization previously failed")
	}
	return redisInstance, nil
}

// Client exposes the underlying Redis client.
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// Close closes the Redis connection.
func (rc *RedisCache) Close() error {
	if rc.client != nil {
		return rc.client.Close()
	}
	return nil
}
