package domain

// Payload 发往 WhatsApp API 的消息体。
// 就是 encoding/json 解出来的树：map[string]any、[]any、string、float64、bool、nil
type Payload map[string]any

// StandardTemplate 标准模板路径需要的四元组，对应后台手工配置的旧式模板
type StandardTemplate struct {
	Name         string
	LanguageCode string
	HeaderText   string
	BodyText     string
}

// Channel 账号侧的一个发送身份
type Channel struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// TemplateSummary 服务商侧已审核模板的概要，后台下拉框用
type TemplateSummary struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Category string `json:"category"`
	Status   string `json:"status"`
}
