package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ SettingsCache = (*RedisCache)(nil)

// RedisCache 插件配置的redis缓存，多实例部署时共享失效
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{
		rdb: rdb,
	}
}

func (c *RedisCache) Get(ctx context.Context) (domain.PluginSettings, error) {
	val, err := c.rdb.Get(ctx, Key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.PluginSettings{}, ErrKeyNotFound
		}
		return domain.PluginSettings{}, fmt.Errorf("failed to get settings from redis %w", err)
	}

	var settings domain.PluginSettings
	err = json.Unmarshal([]byte(val), &settings)
	if err != nil {
		return domain.PluginSettings{}, fmt.Errorf("failed to unmarshal settings data %w", err)
	}
	return settings, nil
}

func (c *RedisCache) Set(ctx context.Context, settings domain.PluginSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings data %w", err)
	}

	err = c.rdb.Set(ctx, Key, data, DefaultExpiredTime).Err()
	if err != nil {
		return fmt.Errorf("failed to set settings to redis %w", err)
	}
	return nil
}

func (c *RedisCache) Del(ctx context.Context) error {
	return c.rdb.Del(ctx, Key).Err()
}
