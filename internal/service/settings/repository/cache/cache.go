package cache

import (
	"context"
	"time"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"github.com/pkg/errors"
)

var ErrKeyNotFound = errors.New("key not found")

const (
	// Key 配置只有一行，键是固定的
	Key = "whatsapp:settings"

	DefaultExpiredTime = 10 * time.Minute
)

// SettingsCache 插件配置缓存
type SettingsCache interface {
	Get(ctx context.Context) (domain.PluginSettings, error)
	Set(ctx context.Context, settings domain.PluginSettings) error
	Del(ctx context.Context) error
}
