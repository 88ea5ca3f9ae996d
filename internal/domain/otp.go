package domain

import "time"

// OTPRecord 一次性验证码记录。
// 生命周期：发送时创建，校验成功或过期后删除，单次使用
type OTPRecord struct {
	Code     string    // 6位数字
	IssuedAt time.Time // 签发时间
}

// ExpiredAt 给定有效期下是否已过期
func (r OTPRecord) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.IssuedAt) > ttl
}
