package repository

import (
	"context"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

// NotificationRepository 通知记录仓储
type NotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) (domain.Notification, error)
	GetByID(ctx context.Context, id uint64) (domain.Notification, error)
	// FindPending 分页拉取待发送的通知，按创建时间从旧到新
	FindPending(ctx context.Context, offset, limit int) ([]domain.Notification, error)
	MarkSent(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64) error
}

type notificationRepository struct {
	dao dao.NotificationDAO
}

func NewNotificationRepository(d dao.NotificationDAO) NotificationRepository {
	return &notificationRepository{
		dao: d,
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification domain.Notification) (domain.Notification, error) {
	created, err := r.dao.Create(ctx, r.toEntity(notification))
	if err != nil {
		return domain.Notification{}, err
	}
	return r.toDomain(created), nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint64) (domain.Notification, error) {
	row, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Notification{}, err
	}
	return r.toDomain(row), nil
}

func (r *notificationRepository) FindPending(ctx context.Context, offset, limit int) ([]domain.Notification, error) {
	rows, err := r.dao.FindByStatus(ctx, string(domain.SendStatusPending), offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(rows, func(_ int, src dao.Notification) domain.Notification {
		return r.toDomain(src)
	}), nil
}

func (r *notificationRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.dao.UpdateStatus(ctx, id, string(domain.SendStatusSent))
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.dao.UpdateStatus(ctx, id, string(domain.SendStatusFailed))
}

func (r *notificationRepository) toEntity(n domain.Notification) dao.Notification {
	return dao.Notification{
		ID:        n.ID,
		BizKey:    n.BizKey,
		OrderID:   n.OrderID,
		Phone:     n.Phone,
		EventKind: string(n.EventKind),
		Status:    string(n.Status),
		Ctime:     n.Ctime,
		Utime:     n.Utime,
	}
}

func (r *notificationRepository) toDomain(row dao.Notification) domain.Notification {
	return domain.Notification{
		ID:        row.ID,
		BizKey:    row.BizKey,
		OrderID:   row.OrderID,
		Phone:     row.Phone,
		EventKind: domain.EventKind(row.EventKind),
		Status:    domain.SendStatus(row.Status),
		Ctime:     row.Ctime,
		Utime:     row.Utime,
	}
}
