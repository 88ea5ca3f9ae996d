package domain

// DefaultSettingsID 设置单行存储，固定主键
const DefaultSettingsID int64 = 1

// PluginSettings 后台配置的全部插件设置，单行存储
type PluginSettings struct {
	ID          int64
	Credentials Credentials

	OTPEnabled   bool
	AuthTemplate string // 认证模板JSON，发送OTP时注入验证码

	// 每种订单事件对应的消息模板JSON，后台原样存储
	EventTemplates map[EventKind]string

	Ctime int64
	Utime int64
}

// EventTemplate 指定事件的模板，未配置返回空串
func (s PluginSettings) EventTemplate(kind EventKind) string {
	return s.EventTemplates[kind]
}
