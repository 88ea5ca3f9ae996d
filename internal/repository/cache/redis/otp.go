package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/repository/cache"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ cache.OTPCache = (*OTPCache)(nil)

// OTPCache 验证码的redis实现，键上带TTL，过期的记录读不到
type OTPCache struct {
	rdb *redis.Client
}

func NewOTPCache(rdb *redis.Client) *OTPCache {
	return &OTPCache{
		rdb: rdb,
	}
}

func (c *OTPCache) Get(ctx context.Context, subject string) (domain.OTPRecord, error) {
	val, err := c.rdb.Get(ctx, cache.OTPKey(subject)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.OTPRecord{}, cache.ErrKeyNotFound
		}
		return domain.OTPRecord{}, fmt.Errorf("failed to get otp from redis %w", err)
	}

	var record domain.OTPRecord
	err = json.Unmarshal([]byte(val), &record)
	if err != nil {
		return domain.OTPRecord{}, fmt.Errorf("failed to unmarshal otp record %w", err)
	}
	return record, nil
}

func (c *OTPCache) Set(ctx context.Context, subject string, record domain.OTPRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal otp record %w", err)
	}

	err = c.rdb.Set(ctx, cache.OTPKey(subject), data, cache.DefaultOTPExpiry).Err()
	if err != nil {
		return fmt.Errorf("failed to set otp to redis %w", err)
	}
	return nil
}

func (c *OTPCache) Del(ctx context.Context, subject string) error {
	return c.rdb.Del(ctx, cache.OTPKey(subject)).Err()
}
