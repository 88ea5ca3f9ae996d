package tracing

import (
	"context"
	"fmt"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/service/provider"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Provider 为投递方添加链路追踪的装饰器
type Provider struct {
	provider provider.Provider
	tracer   trace.Tracer
}

// NewProvider 创建一个新的带有链路追踪的投递方
func NewProvider(p provider.Provider) *Provider {
	return &Provider{
		provider: p,
		tracer:   otel.Tracer("whatsapp-notify/provider"),
	}
}

func (p *Provider) Send(ctx context.Context, payload domain.Payload, creds domain.Credentials) (domain.SendResponse, error) {
	ctx, span := p.tracer.Start(ctx, "Provider.Send",
		trace.WithAttributes(
			attribute.String("whatsapp.channel", creds.ChannelID),
			attribute.String("whatsapp.to", fmt.Sprint(payload["to"])),
		))
	defer span.End()

	response, err := p.provider.Send(ctx, payload, creds)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(
			attribute.String("whatsapp.messageId", response.MessageID),
			attribute.String("whatsapp.status", string(response.Status)),
		)
	}

	return response, err
}
