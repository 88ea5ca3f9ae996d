package errs

import (
	"errors"
)

// 定义统一的错误类型
var (
	ErrInvalidParameter = errors.New("参数错误")

	// 发送链路
	ErrMissingCredentials     = errors.New("WhatsApp API凭证缺失")
	ErrInvalidTemplateJSON    = errors.New("消息模板JSON非法")
	ErrMissingAuthTemplate    = errors.New("认证模板未配置")
	ErrMalformedAuthTemplate  = errors.New("认证模板结构非法")
	ErrInvalidPhone           = errors.New("手机号格式非法")
	ErrTransport              = errors.New("请求WhatsApp API失败")
	ErrAPI                    = errors.New("WhatsApp API返回错误")
	ErrSendNotificationFailed = errors.New("发送通知失败")

	// OTP 校验
	ErrOTPNotFound = errors.New("验证码不存在")
	ErrOTPExpired  = errors.New("验证码已过期")
	ErrOTPInvalid  = errors.New("验证码不正确")
	ErrOTPDisabled = errors.New("OTP功能未启用")

	// 存储层
	ErrSettingsNotFound             = errors.New("插件配置不存在")
	ErrNotificationNotFound         = errors.New("通知记录不存在")
	ErrNotificationDuplicate        = errors.New("通知记录主键冲突")
	ErrCreateNotificationFailed     = errors.New("创建通知记录失败")
	ErrNotificationIDGenerateFailed = errors.New("通知ID生成失败")
)
