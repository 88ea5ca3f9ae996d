package domain

import (
	"fmt"

	"gitee.com/flycash/whatsapp-notify/internal/errs"
)

// SendStatus 通知发送状态
type SendStatus string

const (
	SendStatusPending SendStatus = "PENDING" // 待发送
	SendStatusSent    SendStatus = "SENT"    // 发送成功
	SendStatusFailed  SendStatus = "FAILED"  // 发送失败
)

// Notification 一次订单事件触发的通知记录
type Notification struct {
	ID        uint64
	BizKey    string // 业务内唯一标识，订单+事件去重用
	OrderID   int64
	Phone     string
	EventKind EventKind
	Status    SendStatus
	Ctime     int64
	Utime     int64
}

// BizKey 订单事件的去重键。状态变更事件把目标状态编入键中，
// 同一订单多次不同的状态变更各算一条
func BizKey(kind EventKind, order *Order) string {
	if kind == EventOrderStatusChanged {
		return fmt.Sprintf("order:%d:%s:%s", order.ID, kind, order.Status)
	}
	return fmt.Sprintf("order:%d:%s", order.ID, kind)
}

func (n *Notification) Validate() error {
	if n.OrderID <= 0 {
		return fmt.Errorf("%w: OrderID = %d", errs.ErrInvalidParameter, n.OrderID)
	}
	if n.BizKey == "" {
		return fmt.Errorf("%w: BizKey = %q", errs.ErrInvalidParameter, n.BizKey)
	}
	if !n.EventKind.Valid() {
		return fmt.Errorf("%w: EventKind = %q", errs.ErrInvalidParameter, n.EventKind)
	}
	return nil
}

// SendResponse 发送结果
type SendResponse struct {
	NotificationID uint64
	MessageID      string // 服务商返回的消息ID
	Status         SendStatus
}
