// Package notifier 订单事件到WhatsApp通知的入口。
// 通知失败绝不打断订单流程，所有错误在这里记日志后吞掉
package notifier

import (
	"context"
	"errors"
	"fmt"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/errs"
	"gitee.com/flycash/whatsapp-notify/internal/repository"
	"gitee.com/flycash/whatsapp-notify/internal/service/message"
	"gitee.com/flycash/whatsapp-notify/internal/service/provider"
	"gitee.com/flycash/whatsapp-notify/internal/service/settings"
	"github.com/gotomicro/ego/core/elog"
	"github.com/sony/sonyflake"
)

// Notifier 接收订单事件并发送对应模板的通知
type Notifier interface {
	// OnOrderEvent 处理一次订单事件。没有返回值：
	// 通知属于尽力而为，调用方（下单、取消等主流程）不关心发送结果
	OnOrderEvent(ctx context.Context, kind domain.EventKind, order *domain.Order)
}

type notifier struct {
	settingsSvc settings.Service
	provider    provider.Provider
	repo        repository.NotificationRepository
	idGenerator *sonyflake.Sonyflake
	logger      *elog.Component
}

func New(settingsSvc settings.Service, p provider.Provider, repo repository.NotificationRepository, idGenerator *sonyflake.Sonyflake) Notifier {
	return &notifier{
		settingsSvc: settingsSvc,
		provider:    p,
		repo:        repo,
		idGenerator: idGenerator,
		logger:      elog.DefaultLogger,
	}
}

func (n *notifier) OnOrderEvent(ctx context.Context, kind domain.EventKind, order *domain.Order) {
	if order == nil || order.Validate() != nil || !kind.Valid() {
		n.logger.Warn("忽略非法的订单事件", elog.String("kind", string(kind)))
		return
	}
	if order.BillingPhone == "" {
		// 没留手机号的订单很常见，不算异常
		n.logger.Info("订单未留手机号，跳过通知", elog.Int64("orderId", order.ID))
		return
	}

	cfg, err := n.settingsSvc.Get(ctx)
	if err != nil {
		n.logger.Error("读取插件设置失败", elog.Int64("orderId", order.ID), elog.FieldErr(err))
		return
	}
	tpl := cfg.EventTemplate(kind)
	if tpl == "" {
		n.logger.Info("事件未配置模板，跳过通知",
			elog.Int64("orderId", order.ID),
			elog.String("kind", string(kind)))
		return
	}
	if err := cfg.Credentials.Validate(); err != nil {
		n.logger.Error("凭证不完整，跳过通知", elog.Int64("orderId", order.ID), elog.FieldErr(err))
		return
	}

	payload, err := message.NewBuilder(cfg.Credentials.Prefix()).
		BuildFromJSONTemplate(tpl, order, order.BillingPhone)
	if err != nil {
		n.logger.Error("构建消息体失败",
			elog.Int64("orderId", order.ID),
			elog.String("kind", string(kind)),
			elog.FieldErr(err))
		return
	}

	record, err := n.record(ctx, kind, order)
	if err != nil {
		if errors.Is(err, errs.ErrNotificationDuplicate) {
			// 同一订单事件已经处理过，不重发
			n.logger.Info("重复的订单事件，跳过通知",
				elog.Int64("orderId", order.ID),
				elog.String("kind", string(kind)))
			return
		}
		n.logger.Error("写入通知记录失败", elog.Int64("orderId", order.ID), elog.FieldErr(err))
		return
	}

	resp, err := n.provider.Send(ctx, payload, cfg.Credentials)
	if err != nil {
		// 记录保持 PENDING，补发任务下一轮会重试
		n.logger.Error("通知发送失败，等待补发",
			elog.Int64("orderId", order.ID),
			elog.String("kind", string(kind)),
			elog.FieldErr(err))
		return
	}
	n.logger.Info("通知发送成功",
		elog.Int64("orderId", order.ID),
		elog.String("kind", string(kind)),
		elog.String("messageId", resp.MessageID))
	n.mark(ctx, record.ID, n.repo.MarkSent)
}

func (n *notifier) record(ctx context.Context, kind domain.EventKind, order *domain.Order) (domain.Notification, error) {
	id, err := n.idGenerator.NextID()
	if err != nil {
		return domain.Notification{}, errs.ErrNotificationIDGenerateFailed
	}
	notification := domain.Notification{
		ID:        id,
		BizKey:    domain.BizKey(kind, order),
		OrderID:   order.ID,
		Phone:     order.BillingPhone,
		EventKind: kind,
		Status:    domain.SendStatusPending,
	}
	if err := notification.Validate(); err != nil {
		return domain.Notification{}, err
	}
	created, err := n.repo.Create(ctx, notification)
	if err != nil {
		if errors.Is(err, errs.ErrNotificationDuplicate) {
			return domain.Notification{}, err
		}
		return domain.Notification{}, fmt.Errorf("%w: %w", errs.ErrCreateNotificationFailed, err)
	}
	return created, nil
}

func (n *notifier) mark(ctx context.Context, id uint64, fn func(ctx context.Context, id uint64) error) {
	if err := fn(ctx, id); err != nil {
		n.logger.Error("更新通知状态失败", elog.FieldErr(err))
	}
}
