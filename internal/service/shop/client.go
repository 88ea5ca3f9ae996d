// Package shop 电商系统的订单回查客户端。
// 补发通知时订单数据可能已经变化，必须以回查结果为准重建消息体
package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/errs"
	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

// OrderClient 按ID回查订单
type OrderClient struct {
	http    *resty.Client
	baseURL string
	token   string
}

func NewOrderClient(baseURL, token string) *OrderClient {
	return &OrderClient{
		http:    resty.New().SetTimeout(defaultTimeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// SetTransport 替换底层传输层，测试注入用
func (c *OrderClient) SetTransport(rt http.RoundTripper) {
	c.http.SetTransport(rt)
}

// orderDTO 电商侧订单接口的响应体
type orderDTO struct {
	ID       int64   `json:"id"`
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
}

func (c *OrderClient) GetOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		Get(fmt.Sprintf("%s/api/v1/orders/%d", c.baseURL, orderID))
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: %w", errs.ErrTransport, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return domain.Order{}, fmt.Errorf("%w: 回查订单 %d 状态码 %d", errs.ErrAPI, orderID, resp.StatusCode())
	}

	var dto orderDTO
	if err := json.Unmarshal(resp.Body(), &dto); err != nil {
		return domain.Order{}, fmt.Errorf("%w: 订单响应体不是合法JSON: %w", errs.ErrAPI, err)
	}
	return c.toDomain(dto), nil
}

func (c *OrderClient) toDomain(dto orderDTO) domain.Order {
	items := make([]domain.OrderItem, 0, len(dto.Items))
	for _, it := range dto.Items {
		items = append(items, domain.OrderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Total:    it.Total,
		})
	}
	return domain.Order{
		ID:               dto.ID,
		Status:           dto.Status,
		Currency:         dto.Currency,
		Total:            dto.Total,
		Subtotal:         dto.Subtotal,
		BillingFirstName: dto.Billing.FirstName,
		BillingLastName:  dto.Billing.LastName,
		BillingEmail:     dto.Billing.Email,
		BillingPhone:     dto.Billing.Phone,
		Items:            items,
	}
}
