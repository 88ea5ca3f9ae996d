package provider

import (
	"context"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
)

// Provider 消息投递方。
// 单次调用只尝试一次投递，失败不自动重试，由调用方自己决定后续
type Provider interface {
	Send(ctx context.Context, payload domain.Payload, creds domain.Credentials) (domain.SendResponse, error)
}
