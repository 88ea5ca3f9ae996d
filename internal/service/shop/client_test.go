package shop

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gitee.com/flycash/whatsapp-notify/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrder(t *testing.T) {
	t.Parallel()

	t.Run("回查成功_映射为领域订单", func(t *testing.T) {
		t.Parallel()
		var gotPath, gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{
				"id": 42, "status": "processing", "currency": "USD",
				"total": 19.99, "subtotal": 18.50,
				"billing": {"firstName": "Asha", "lastName": "Rao", "phone": "5551234567"},
				"items": [{"name": "Widget", "quantity": 2, "total": 19.99}]
			}`)
		}))
		defer srv.Close()

		c := NewOrderClient(srv.URL+"/", "shop-token")
		order, err := c.GetOrder(t.Context(), 42)
		require.NoError(t, err)

		assert.Equal(t, "/api/v1/orders/42", gotPath)
		assert.Equal(t, "Bearer shop-token", gotAuth)
		assert.Equal(t, int64(42), order.ID)
		assert.Equal(t, "Asha Rao", order.BillingFullName())
		assert.Equal(t, 2, order.TotalItems())
	})

	t.Run("订单不存在_报API错误", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewOrderClient(srv.URL, "shop-token")
		_, err := c.GetOrder(t.Context(), 404)
		assert.ErrorIs(t, err, errs.ErrAPI)
	})

	t.Run("服务不可达_报传输错误", func(t *testing.T) {
		t.Parallel()
		c := NewOrderClient("http://127.0.0.1:1", "shop-token")
		_, err := c.GetOrder(t.Context(), 42)
		assert.ErrorIs(t, err, errs.ErrTransport)
	})
}
