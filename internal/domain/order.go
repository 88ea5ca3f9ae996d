package domain

import (
	"fmt"
	"strings"

	"gitee.com/flycash/whatsapp-notify/internal/errs"
)

// EventKind 订单生命周期事件
type EventKind string

const (
	EventOrderPlaced        EventKind = "ORDER_PLACED"         // 下单
	EventOrderCancelled     EventKind = "ORDER_CANCELLED"      // 取消
	EventOrderStatusChanged EventKind = "ORDER_STATUS_CHANGED" // 状态变更
	EventOrderCompleted     EventKind = "ORDER_COMPLETED"      // 完成
)

func (k EventKind) Valid() bool {
	switch k {
	case EventOrderPlaced, EventOrderCancelled, EventOrderStatusChanged, EventOrderCompleted:
		return true
	default:
		return false
	}
}

// OrderItem 订单行项目
type OrderItem struct {
	Name     string  // 商品名称
	Quantity int     // 数量
	Total    float64 // 行小计
}

// Order 订单的只读投影，由外部电商系统提供，本模块不会修改它
type Order struct {
	ID       int64
	Status   string
	Currency string
	Total    float64
	Subtotal float64

	BillingFirstName string
	BillingLastName  string
	BillingEmail     string
	BillingPhone     string

	Items []OrderItem
}

// BillingFullName 账单姓名，姓与名之间以空格连接
func (o *Order) BillingFullName() string {
	return strings.TrimSpace(o.BillingFirstName + " " + o.BillingLastName)
}

// TotalItems 所有行项目数量之和
func (o *Order) TotalItems() int {
	total := 0
	for _, it := range o.Items {
		total += it.Quantity
	}
	return total
}

func (o *Order) Validate() error {
	if o.ID <= 0 {
		return fmt.Errorf("%w: OrderID = %d", errs.ErrInvalidParameter, o.ID)
	}
	return nil
}
