package local

import (
	"context"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/repository/cache"
	ca "github.com/patrickmn/go-cache"
)

var _ cache.OTPCache = (*OTPCache)(nil)

// OTPCache 验证码的进程内实现，单机部署时不需要redis
type OTPCache struct {
	c *ca.Cache
}

func NewOTPCache(c *ca.Cache) *OTPCache {
	return &OTPCache{
		c: c,
	}
}

func (l *OTPCache) Get(_ context.Context, subject string) (domain.OTPRecord, error) {
	v, ok := l.c.Get(cache.OTPKey(subject))
	if !ok {
		return domain.OTPRecord{}, cache.ErrKeyNotFound
	}
	return v.(domain.OTPRecord), nil
}

func (l *OTPCache) Set(_ context.Context, subject string, record domain.OTPRecord) error {
	l.c.Set(cache.OTPKey(subject), record, cache.DefaultOTPExpiry)
	return nil
}

func (l *OTPCache) Del(_ context.Context, subject string) error {
	l.c.Delete(cache.OTPKey(subject))
	return nil
}
