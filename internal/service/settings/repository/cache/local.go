package cache

import (
	"context"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	ca "github.com/patrickmn/go-cache"
)

var _ SettingsCache = (*LocalCache)(nil)

// LocalCache 插件配置的进程内缓存，挡住发送路径上的反复读取
type LocalCache struct {
	c *ca.Cache
}

func NewLocalCache(c *ca.Cache) *LocalCache {
	return &LocalCache{
		c: c,
	}
}

func (l *LocalCache) Get(_ context.Context) (domain.PluginSettings, error) {
	v, ok := l.c.Get(Key)
	if !ok {
		return domain.PluginSettings{}, ErrKeyNotFound
	}
	return v.(domain.PluginSettings), nil
}

func (l *LocalCache) Set(_ context.Context, settings domain.PluginSettings) error {
	l.c.Set(Key, settings, DefaultExpiredTime)
	return nil
}

func (l *LocalCache) Del(_ context.Context) error {
	l.c.Delete(Key)
	return nil
}
