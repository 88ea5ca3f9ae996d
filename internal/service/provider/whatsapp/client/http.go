package client

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

// DefaultTimeout 单次请求超时，超时后以传输错误返回而不是无限等待
const DefaultTimeout = 30 * time.Second

var _ Client = (*HTTPClient)(nil)

// HTTPClient WhatsApp API 的HTTP实现
type HTTPClient struct {
	http *resty.Client
}

// NewHTTPClient 创建 WhatsApp API 客户端实例
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		http: resty.New().SetTimeout(DefaultTimeout),
	}
}

// SetTransport 替换底层传输层，测试注入用
func (c *HTTPClient) SetTransport(rt http.RoundTripper) {
	c.http.SetTransport(rt)
}

// apiError 响应体里 error.message 的载体，任何HTTP状态码下都可能出现
type apiError struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *HTTPClient) Send(ctx context.Context, req SendReq) (SendResp, error) {
	// 凭证检查必须在任何网络调用之前
	if err := req.Credentials.Validate(); err != nil {
		return SendResp{}, err
	}

	endpoint := fmt.Sprintf("%s/api/v1.0/messages/send-template/%s",
		baseURL(req.Credentials), req.Credentials.ChannelID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(req.Credentials.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req.Payload).
		Post(endpoint)
	if err != nil {
		return SendResp{}, fmt.Errorf("%w: %w", errs.ErrTransport, err)
	}

	if err := decodeAPIError(resp.Body()); err != nil {
		return SendResp{}, err
	}

	var body struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	// 响应体不是JSON也算成功，判定标准只有 error 字段的有无
	_ = json.Unmarshal(resp.Body(), &body)

	result := SendResp{}
	if len(body.Messages) > 0 {
		result.MessageID = body.Messages[0].ID
	}
	return result, nil
}

func (c *HTTPClient) ListChannels(ctx context.Context, creds domain.Credentials) ([]domain.Channel, error) {
	var body struct {
		Channels []domain.Channel `json:"channels"`
	}
	err := c.get(ctx, creds, baseURL(creds)+"/api/v1.0/channels", &body)
	if err != nil {
		return nil, err
	}
	return body.Channels, nil
}

func (c *HTTPClient) ListTemplates(ctx context.Context, creds domain.Credentials) ([]domain.TemplateSummary, error) {
	var body struct {
		Templates []domain.TemplateSummary `json:"templates"`
	}
	err := c.get(ctx, creds, baseURL(creds)+"/api/v1.0/templates", &body)
	if err != nil {
		return nil, err
	}
	return body.Templates, nil
}

func (c *HTTPClient) TemplatePayload(ctx context.Context, creds domain.Credentials, channelNumber, templateName string) (domain.Payload, error) {
	var body domain.Payload
	endpoint := fmt.Sprintf("%s/api/v1.0/template-payload/%s/%s", baseURL(creds), channelNumber, templateName)
	err := c.get(ctx, creds, endpoint, &body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *HTTPClient) get(ctx context.Context, creds domain.Credentials, endpoint string, out any) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(creds.APIKey).
		SetHeader("Content-Type", "application/json").
		Get(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrTransport, err)
	}

	if err := decodeAPIError(resp.Body()); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrAPI, err)
	}
	return nil
}

func decodeAPIError(body []byte) error {
	var ae apiError
	if err := json.Unmarshal(body, &ae); err == nil && ae.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrAPI, ae.Error.Message)
	}
	return nil
}

func baseURL(creds domain.Credentials) string {
	return strings.TrimRight(creds.BaseURL, "/")
}
