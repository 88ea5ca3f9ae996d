// Package message 构建发往 WhatsApp API 的消息体。
// 只做纯构建，不碰网络和存储
package message

import (
	"encoding/json"
	"fmt"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/errs"
	"gitee.com/flycash/whatsapp-notify/internal/pkg/phonenumber"
	"gitee.com/flycash/whatsapp-notify/internal/service/variable"
	"github.com/gotomicro/ego/core/elog"
)

// Builder 消息体构建器，三条构建路径由调用方意图决定：
// 后台存储的完整JSON模板、旧式 header/body 标准模板、OTP认证模板
type Builder struct {
	prefix string
	logger *elog.Component
}

// NewBuilder prefix 为目标手机号的国际区号前缀
func NewBuilder(prefix string) *Builder {
	return &Builder{
		prefix: prefix,
		logger: elog.DefaultLogger,
	}
}

// BuildFromJSONTemplate 以后台原样存储的JSON模板为基础构建消息体。
// order 不为空时先对整棵树做变量替换，之后才注入 to 字段
func (b *Builder) BuildFromJSONTemplate(raw string, order *domain.Order, phone string) (domain.Payload, error) {
	var tree map[string]any
	if err := json.Unmarshal([]byte(raw), &tree); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidTemplateJSON, err)
	}

	if order != nil {
		m := variable.BuildSubstitutionMap(*order)
		tree = variable.SubstituteDeep(tree, m).(map[string]any)
		b.warnUnresolved(tree, order.ID)
	}

	payload := domain.Payload(tree)
	payload["to"] = phonenumber.WithPrefix(b.prefix, phone)
	return payload, nil
}

// BuildStandard 组装固定 header+body 两段式的标准模板消息体。
// order 不为空时对 header/body 文本做变量替换，纯文本替换而非JSON
func (b *Builder) BuildStandard(phone string, tpl domain.StandardTemplate, order *domain.Order) domain.Payload {
	header, body := tpl.HeaderText, tpl.BodyText
	if order != nil {
		m := variable.BuildSubstitutionMap(*order)
		header = variable.Substitute(header, m)
		body = variable.Substitute(body, m)
	}

	return domain.Payload{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                phonenumber.WithPrefix(b.prefix, phone),
		"type":              "template",
		"template": map[string]any{
			"name":     tpl.Name,
			"language": map[string]any{"code": tpl.LanguageCode},
			"components": []any{
				map[string]any{
					"type": "header",
					"parameters": []any{
						map[string]any{"type": "text", "text": header},
					},
				},
				map[string]any{
					"type": "body",
					"parameters": []any{
						map[string]any{"type": "text", "text": body},
					},
				},
			},
		},
	}
}

// BuildOTP 把验证码注入后台配置的认证模板。
// 验证码写入第0个组件的首个参数；第1个组件存在时同样写入，
// 覆盖 body + 复制按钮两段式的认证模板
func (b *Builder) BuildOTP(phone, code, authTemplate string) (domain.Payload, error) {
	if !phonenumber.IsSendable(phone) {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidPhone, phone)
	}
	if authTemplate == "" {
		return nil, errs.ErrMissingAuthTemplate
	}

	var tree map[string]any
	if err := json.Unmarshal([]byte(authTemplate), &tree); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrMalformedAuthTemplate, err)
	}

	components, err := templateComponents(tree)
	if err != nil {
		return nil, err
	}
	if err := setParameterText(components, 0, code); err != nil {
		return nil, err
	}
	// 第1个组件是可选的复制按钮
	if len(components) > 1 {
		if err := setParameterText(components, 1, code); err != nil {
			return nil, err
		}
	}

	payload := domain.Payload(tree)
	payload["to"] = phonenumber.WithPrefix(b.prefix, phone)
	return payload, nil
}

func templateComponents(tree map[string]any) ([]any, error) {
	tpl, ok := tree["template"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: 缺少 template 对象", errs.ErrMalformedAuthTemplate)
	}
	components, ok := tpl["components"].([]any)
	if !ok || len(components) == 0 {
		return nil, fmt.Errorf("%w: 缺少 components", errs.ErrMalformedAuthTemplate)
	}
	return components, nil
}

func setParameterText(components []any, idx int, text string) error {
	component, ok := components[idx].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: 组件 %d 非对象", errs.ErrMalformedAuthTemplate, idx)
	}
	parameters, ok := component["parameters"].([]any)
	if !ok || len(parameters) == 0 {
		return fmt.Errorf("%w: 组件 %d 没有参数位", errs.ErrMalformedAuthTemplate, idx)
	}
	parameter, ok := parameters[0].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: 组件 %d 参数非对象", errs.ErrMalformedAuthTemplate, idx)
	}
	parameter["text"] = text
	return nil
}

func (b *Builder) warnUnresolved(tree map[string]any, orderID int64) {
	if leftover := variable.Unresolved(tree); len(leftover) > 0 {
		b.logger.Warn("模板中存在未解析的占位符",
			elog.Int64("orderID", orderID),
			elog.Any("tokens", leftover))
	}
}
