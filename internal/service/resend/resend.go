// Package resend 补发落库后没能送达的通知。
// 一条通知进入补发范围的条件只有一个：状态仍是 PENDING
package resend

import (
	"context"
	"fmt"
	"time"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/repository"
	"gitee.com/flycash/whatsapp-notify/internal/service/message"
	"gitee.com/flycash/whatsapp-notify/internal/service/provider"
	"gitee.com/flycash/whatsapp-notify/internal/service/settings"
	"github.com/gotomicro/ego/core/elog"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// DefaultInterval 补发周期，对齐后台定时任务的每小时一跑
const DefaultInterval = time.Hour

const defaultBatchSize = 50

// OrderGetter 从电商系统回查订单，补发时要拿最新的订单数据重建消息体
type OrderGetter interface {
	GetOrder(ctx context.Context, orderID int64) (domain.Order, error)
}

// Service 单轮补发任务，由 loopjob 周期调度
type Service struct {
	repo        repository.NotificationRepository
	settingsSvc settings.Service
	provider    provider.Provider
	orders      OrderGetter
	batchSize   int
	logger      *elog.Component
}

func NewService(repo repository.NotificationRepository, settingsSvc settings.Service, p provider.Provider, orders OrderGetter) *Service {
	return &Service{
		repo:        repo,
		settingsSvc: settingsSvc,
		provider:    p,
		orders:      orders,
		batchSize:   defaultBatchSize,
		logger:      elog.DefaultLogger,
	}
}

// ResendPending 逐批处理所有 PENDING 通知。
// 单条失败不中断本轮，所有错误聚合后一次性返回
func (s *Service) ResendPending(ctx context.Context) error {
	cfg, err := s.settingsSvc.Get(ctx)
	if err != nil {
		return fmt.Errorf("读取插件设置失败: %w", err)
	}
	if err := cfg.Credentials.Validate(); err != nil {
		// 凭证没配好时补发只会批量失败，直接跳过本轮
		s.logger.Warn("凭证不完整，跳过本轮补发", elog.FieldErr(err))
		return nil
	}

	builder := message.NewBuilder(cfg.Credentials.Prefix())
	var result *multierror.Error
	for {
		// 每轮都从头拉：上一批处理过的通知已不再是 PENDING
		notifications, err := s.repo.FindPending(ctx, 0, s.batchSize)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("拉取待发送通知失败: %w", err))
			break
		}
		if len(notifications) == 0 {
			break
		}
		handled := 0
		for _, notification := range notifications {
			if ctx.Err() != nil {
				result = multierror.Append(result, ctx.Err())
				return result.ErrorOrNil()
			}
			if err := s.resendOne(ctx, cfg, builder, notification); err != nil {
				result = multierror.Append(result, err)
				continue
			}
			handled++
		}
		// 整批都失败说明问题出在环境而不是单条数据，别再空转
		if handled == 0 {
			break
		}
	}
	return result.ErrorOrNil()
}

func (s *Service) resendOne(ctx context.Context, cfg domain.PluginSettings, builder *message.Builder, notification domain.Notification) error {
	tpl := cfg.EventTemplate(notification.EventKind)
	if tpl == "" {
		// 模板被后台删掉了，这条通知永远发不出去
		if err := s.repo.MarkFailed(ctx, notification.ID); err != nil {
			return fmt.Errorf("通知 %d 标记失败状态出错: %w", notification.ID, err)
		}
		s.logger.Warn("事件模板已不存在，放弃补发",
			zap.Uint64("notificationId", notification.ID),
			elog.String("kind", string(notification.EventKind)))
		return nil
	}

	order, err := s.orders.GetOrder(ctx, notification.OrderID)
	if err != nil {
		return fmt.Errorf("回查订单 %d 失败: %w", notification.OrderID, err)
	}
	payload, err := builder.BuildFromJSONTemplate(tpl, &order, notification.Phone)
	if err != nil {
		if markErr := s.repo.MarkFailed(ctx, notification.ID); markErr != nil {
			return fmt.Errorf("通知 %d 标记失败状态出错: %w", notification.ID, markErr)
		}
		return fmt.Errorf("通知 %d 重建消息体失败: %w", notification.ID, err)
	}

	if _, err := s.provider.Send(ctx, payload, cfg.Credentials); err != nil {
		if markErr := s.repo.MarkFailed(ctx, notification.ID); markErr != nil {
			return fmt.Errorf("通知 %d 标记失败状态出错: %w", notification.ID, markErr)
		}
		return fmt.Errorf("通知 %d 补发失败: %w", notification.ID, err)
	}
	if err := s.repo.MarkSent(ctx, notification.ID); err != nil {
		return fmt.Errorf("通知 %d 标记成功状态出错: %w", notification.ID, err)
	}
	s.logger.Info("补发成功", zap.Uint64("notificationId", notification.ID))
	return nil
}
