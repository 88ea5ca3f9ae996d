package web

import (
	"net/http"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/service/notifier"
	"github.com/gin-gonic/gin"
)

var _ Handler = (*OrderEventHandler)(nil)

// OrderEventHandler 电商系统推送订单事件的入口。
// 响应只确认接收，通知发没发成功不影响推送方
type OrderEventHandler struct {
	notifier notifier.Notifier
}

func NewOrderEventHandler(n notifier.Notifier) *OrderEventHandler {
	return &OrderEventHandler{
		notifier: n,
	}
}

func (h *OrderEventHandler) RegisterRoutes(server *gin.Engine) {
	server.POST("/api/v1/events/order", h.OnOrderEvent)
}

type orderEventReq struct {
	Kind  string `json:"kind" binding:"required"`
	Order struct {
		ID       int64   `json:"id" binding:"required"`
		Status   string  `json:"status"`
		Currency string  `json:"currency"`
		Total    float64 `json:"total"`
		Subtotal float64 `json:"subtotal"`
		Billing  struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			Email     string `json:"email"`
			Phone     string `json:"phone"`
		} `json:"billing"`
		Items []struct {
			Name     string  `json:"name"`
			Quantity int     `json:"quantity"`
			Total    float64 `json:"total"`
		} `json:"items"`
	} `json:"order" binding:"required"`
}

func (h *OrderEventHandler) OnOrderEvent(ctx *gin.Context) {
	var req orderEventReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, Result{Code: codeInvalidParam, Msg: "参数不合法"})
		return
	}
	kind := domain.EventKind(req.Kind)
	if !kind.Valid() {
		ctx.JSON(http.StatusBadRequest, Result{Code: codeInvalidParam, Msg: "未知的事件类型"})
		return
	}

	items := make([]domain.OrderItem, 0, len(req.Order.Items))
	for _, it := range req.Order.Items {
		items = append(items, domain.OrderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Total:    it.Total,
		})
	}
	order := &domain.Order{
		ID:               req.Order.ID,
		Status:           req.Order.Status,
		Currency:         req.Order.Currency,
		Total:            req.Order.Total,
		Subtotal:         req.Order.Subtotal,
		BillingFirstName: req.Order.Billing.FirstName,
		BillingLastName:  req.Order.Billing.LastName,
		BillingEmail:     req.Order.Billing.Email,
		BillingPhone:     req.Order.Billing.Phone,
		Items:            items,
	}

	h.notifier.OnOrderEvent(ctx.Request.Context(), kind, order)
	ctx.JSON(http.StatusAccepted, ok(nil))
}
