package whatsapp

import (
	"context"
	"fmt"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/errs"
	"gitee.com/flycash/whatsapp-notify/internal/service/provider"
	"gitee.com/flycash/whatsapp-notify/internal/service/provider/whatsapp/client"
	"github.com/gotomicro/ego/core/elog"
)

var _ provider.Provider = (*whatsappProvider)(nil)

// whatsappProvider WhatsApp 模板消息投递方
type whatsappProvider struct {
	client client.Client
	logger *elog.Component
}

// NewProvider 创建 WhatsApp 投递方
func NewProvider(c client.Client) provider.Provider {
	return &whatsappProvider{
		client: c,
		logger: elog.DefaultLogger,
	}
}

// Send 投递一条消息。每次失败都在这里落一条诊断日志再返回给调用方
func (p *whatsappProvider) Send(ctx context.Context, payload domain.Payload, creds domain.Credentials) (domain.SendResponse, error) {
	resp, err := p.client.Send(ctx, client.SendReq{
		Credentials: creds,
		Payload:     payload,
	})
	if err != nil {
		p.logger.Error("投递WhatsApp消息失败",
			elog.Any("to", payload["to"]),
			elog.String("channelID", creds.ChannelID),
			elog.FieldErr(err))
		return domain.SendResponse{Status: domain.SendStatusFailed},
			fmt.Errorf("%w: %w", errs.ErrSendNotificationFailed, err)
	}

	return domain.SendResponse{
		MessageID: resp.MessageID,
		Status:    domain.SendStatusSent,
	}, nil
}
