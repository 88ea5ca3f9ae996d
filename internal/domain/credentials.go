package domain

import (
	"fmt"

	"gitee.com/flycash/whatsapp-notify/internal/errs"
)

// DefaultPhonePrefix 未配置区号时的默认值，对应线上部署所在地区
const DefaultPhonePrefix = "91"

// Credentials WhatsApp API 凭证，任何一次发送都要求它完整
type Credentials struct {
	APIKey      string // Bearer 令牌
	BaseURL     string // API入口地址
	ChannelID   string // 发送渠道（渠道即账号侧的发送号码）
	PhonePrefix string // 国际区号前缀，为空时取 DefaultPhonePrefix
}

// Validate 凭证不完整是前置条件失败，发送方必须在任何网络调用之前检查
func (c Credentials) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: APIKey 为空", errs.ErrMissingCredentials)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: BaseURL 为空", errs.ErrMissingCredentials)
	}
	if c.ChannelID == "" {
		return fmt.Errorf("%w: ChannelID 为空", errs.ErrMissingCredentials)
	}
	return nil
}

// Prefix 生效的区号前缀
func (c Credentials) Prefix() string {
	if c.PhonePrefix == "" {
		return DefaultPhonePrefix
	}
	return c.PhonePrefix
}
