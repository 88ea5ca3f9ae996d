package cache

import (
	"context"
	"fmt"
	"time"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"github.com/pkg/errors"
)

var ErrKeyNotFound = errors.New("key not found")

// DefaultOTPExpiry 验证码有效期，与业务层的过期判定保持一致
const DefaultOTPExpiry = 10 * time.Minute

// OTPKey subject 是用户ID或匿名会话ID
func OTPKey(subject string) string {
	return fmt.Sprintf("otp:%s", subject)
}

// OTPCache 按主体存取验证码记录。
// 同一主体并发写入时后写覆盖先写，不同主体互不影响
type OTPCache interface {
	Get(ctx context.Context, subject string) (domain.OTPRecord, error)
	Set(ctx context.Context, subject string, record domain.OTPRecord) error
	Del(ctx context.Context, subject string) error
}
