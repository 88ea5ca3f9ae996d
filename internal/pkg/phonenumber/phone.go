// Package phonenumber 收拢所有手机号归一化规则，发送路径上 to 字段只接受它的产物
package phonenumber

import "strings"

const localLength = 10

// Digits 去掉所有非数字字符
func Digits(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsLocal 是否为本地10位手机号
func IsLocal(phone string) bool {
	if len(phone) != localLength {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsSendable 位数达到本地号长度即可投递，更长的视为已带区号
func IsSendable(phone string) bool {
	return len(Digits(phone)) >= localLength
}

// WithPrefix 归一化并补齐区号。
// 只有本地10位号才补前缀，已带区号的号码原样（去符号后）返回
func WithPrefix(prefix, phone string) string {
	digits := Digits(phone)
	if len(digits) == localLength {
		return prefix + digits
	}
	return digits
}
