package client

import (
	"context"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
)

// SendReq 发送模板消息请求
type SendReq struct {
	Credentials domain.Credentials
	Payload     domain.Payload
}

// SendResp 发送结果
type SendResp struct {
	MessageID string
}

// Client WhatsApp 模板消息 API 客户端
type Client interface {
	// Send 发送模板消息
	Send(ctx context.Context, req SendReq) (SendResp, error)
	// ListChannels 拉取账号下的发送渠道，后台配置页用
	ListChannels(ctx context.Context, creds domain.Credentials) ([]domain.Channel, error)
	// ListTemplates 拉取已审核模板概要，后台配置页用
	ListTemplates(ctx context.Context, creds domain.Credentials) ([]domain.TemplateSummary, error)
	// TemplatePayload 拉取模板的实时结构，后台据此组装存储的JSON模板
	TemplatePayload(ctx context.Context, creds domain.Credentials, channelNumber, templateName string) (domain.Payload, error)
}
