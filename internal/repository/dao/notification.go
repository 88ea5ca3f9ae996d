package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/whatsapp-notify/internal/errs"
	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
)

type NotificationDAO interface {
	// Create 创建单条通知记录，biz_key 冲突返回 ErrNotificationDuplicate
	Create(ctx context.Context, data Notification) (Notification, error)
	// GetByID 根据ID查询通知
	GetByID(ctx context.Context, id uint64) (Notification, error)
	// FindByStatus 按状态分页查询，按创建时间从旧到新
	FindByStatus(ctx context.Context, status string, offset, limit int) ([]Notification, error)
	// UpdateStatus 更新通知状态
	UpdateStatus(ctx context.Context, id uint64, status string) error
}

// Notification 通知记录表
type Notification struct {
	ID        uint64 `gorm:"primaryKey;comment:'雪花算法ID'"`
	BizKey    string `gorm:"type:VARCHAR(128);NOT NULL;uniqueIndex:idx_biz_key;comment:'订单事件去重键'"`
	OrderID   int64  `gorm:"type:BIGINT;NOT NULL;index:idx_order_id;comment:'订单ID'"`
	Phone     string `gorm:"type:VARCHAR(32);NOT NULL;comment:'接收手机号'"`
	EventKind string `gorm:"type:VARCHAR(32);NOT NULL;comment:'订单事件类型'"`
	Status    string `gorm:"type:ENUM('PENDING','SENT','FAILED');DEFAULT:'PENDING';index:idx_status,priority:1;comment:'发送状态'"`
	Ctime     int64  `gorm:"index:idx_status,priority:2"`
	Utime     int64
}

// TableName 重命名表
func (Notification) TableName() string {
	return "notifications"
}

type notificationDAO struct {
	db *egorm.Component
}

// NewNotificationDAO 创建通知DAO实例
func NewNotificationDAO(db *egorm.Component) NotificationDAO {
	return &notificationDAO{
		db: db,
	}
}

func (d *notificationDAO) Create(ctx context.Context, data Notification) (Notification, error) {
	now := time.Now().UnixMilli()
	data.Ctime, data.Utime = now, now
	if err := d.db.WithContext(ctx).Create(&data).Error; err != nil {
		if d.isUniqueConstraintError(err) {
			return Notification{}, fmt.Errorf("%w", errs.ErrNotificationDuplicate)
		}
		return Notification{}, err
	}
	return data, nil
}

// isUniqueConstraintError 检查是否是唯一索引冲突错误
func (d *notificationDAO) isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	me := new(mysql.MySQLError)
	if ok := errors.As(err, &me); ok {
		const uniqueIndexErrNo uint16 = 1062
		return me.Number == uniqueIndexErrNo
	}
	return false
}

func (d *notificationDAO) GetByID(ctx context.Context, id uint64) (Notification, error) {
	var notification Notification
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error
	if err != nil {
		if errors.Is(err, egorm.ErrRecordNotFound) {
			return Notification{}, fmt.Errorf("%w: id = %d", errs.ErrNotificationNotFound, id)
		}
		return Notification{}, err
	}
	return notification, nil
}

func (d *notificationDAO) FindByStatus(ctx context.Context, status string, offset, limit int) ([]Notification, error) {
	var notifications []Notification
	err := d.db.WithContext(ctx).
		Where("status = ?", status).
		Order("ctime ASC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (d *notificationDAO) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res := d.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": status,
			"utime":  time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id = %d", errs.ErrNotificationNotFound, id)
	}
	return nil
}
