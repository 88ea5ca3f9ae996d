package phonenumber

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigits(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "纯数字原样返回", phone: "5551234567", want: "5551234567"},
		{name: "去掉加号和横线", phone: "+91-555-123-4567", want: "915551234567"},
		{name: "去掉空格和括号", phone: "(555) 123 4567", want: "5551234567"},
		{name: "空串", phone: "", want: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Digits(tc.phone))
		})
	}
}

func TestIsLocal(t *testing.T) {
	t.Parallel()
	assert.True(t, IsLocal("5551234567"))
	assert.False(t, IsLocal("12345"))
	assert.False(t, IsLocal("915551234567"))
	assert.False(t, IsLocal("55512345a7"))
}

func TestIsSendable(t *testing.T) {
	t.Parallel()
	assert.True(t, IsSendable("5551234567"))
	assert.True(t, IsSendable("+91 555-123-4567"))
	assert.False(t, IsSendable("12345"))
	assert.False(t, IsSendable(""))
}

func TestWithPrefix(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name   string
		prefix string
		phone  string
		want   string
	}{
		{name: "本地号补区号", prefix: "91", phone: "5551234567", want: "915551234567"},
		{name: "带符号的本地号先归一化", prefix: "91", phone: "555-123-4567", want: "915551234567"},
		{name: "已带区号不重复补", prefix: "91", phone: "+915551234567", want: "915551234567"},
		{name: "其他区号配置生效", prefix: "1", phone: "5551234567", want: "15551234567"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, WithPrefix(tc.prefix, tc.phone))
		})
	}
}
