package web

import (
	"context"
	"net/http"
	"testing"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	kind  domain.EventKind
	order *domain.Order
	calls int
}

func (r *recordingNotifier) OnOrderEvent(_ context.Context, kind domain.EventKind, order *domain.Order) {
	r.calls++
	r.kind = kind
	r.order = order
}

func newEventServer(n *recordingNotifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	server := gin.New()
	NewOrderEventHandler(n).RegisterRoutes(server)
	return server
}

func TestOnOrderEvent(t *testing.T) {
	t.Parallel()

	t.Run("合法事件_转发给通知服务并确认接收", func(t *testing.T) {
		t.Parallel()
		n := &recordingNotifier{}
		server := newEventServer(n)

		recorder, _ := doJSON(t, server, http.MethodPost, "/api/v1/events/order", gin.H{
			"kind": "ORDER_PLACED",
			"order": gin.H{
				"id": 42, "status": "processing", "currency": "USD", "total": 19.99,
				"billing": gin.H{"firstName": "Asha", "phone": "5551234567"},
				"items":   []gin.H{{"name": "Widget", "quantity": 2, "total": 19.99}},
			},
		})

		assert.Equal(t, http.StatusAccepted, recorder.Code)
		require.Equal(t, 1, n.calls)
		assert.Equal(t, domain.EventOrderPlaced, n.kind)
		assert.Equal(t, int64(42), n.order.ID)
		assert.Equal(t, "5551234567", n.order.BillingPhone)
		assert.Equal(t, 2, n.order.TotalItems())
	})

	t.Run("未知事件类型_参数错误", func(t *testing.T) {
		t.Parallel()
		n := &recordingNotifier{}
		server := newEventServer(n)

		recorder, _ := doJSON(t, server, http.MethodPost, "/api/v1/events/order", gin.H{
			"kind":  "ORDER_EXPLODED",
			"order": gin.H{"id": 42},
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Zero(t, n.calls)
	})

	t.Run("缺少订单体_参数错误", func(t *testing.T) {
		t.Parallel()
		n := &recordingNotifier{}
		server := newEventServer(n)
		recorder, _ := doJSON(t, server, http.MethodPost, "/api/v1/events/order",
			gin.H{"kind": "ORDER_PLACED"})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Zero(t, n.calls)
	})
}
