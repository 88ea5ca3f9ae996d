package otp

import (
	"context"
	"regexp"
	"testing"
	"time"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/errs"
	"gitee.com/flycash/whatsapp-notify/internal/repository/cache"
	localcache "gitee.com/flycash/whatsapp-notify/internal/repository/cache/local"
	"gitee.com/flycash/whatsapp-notify/internal/service/settings"
	ca "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAuthTemplate = `{
  "messaging_product": "whatsapp",
  "type": "template",
  "template": {
    "name": "authentication_code",
    "language": {"code": "en_US"},
    "components": [
      {"type": "body", "parameters": [{"type": "text", "text": ""}]}
    ]
  }
}`

type stubSettings struct {
	settings.Service
	cfg domain.PluginSettings
	err error
}

func (s *stubSettings) Get(_ context.Context) (domain.PluginSettings, error) {
	return s.cfg, s.err
}

type capturingProvider struct {
	payload domain.Payload
	creds   domain.Credentials
	calls   int
	err     error
}

func (p *capturingProvider) Send(_ context.Context, payload domain.Payload, creds domain.Credentials) (domain.SendResponse, error) {
	p.calls++
	p.payload = payload
	p.creds = creds
	if p.err != nil {
		return domain.SendResponse{Status: domain.SendStatusFailed}, p.err
	}
	return domain.SendResponse{MessageID: "wamid.test", Status: domain.SendStatusSent}, nil
}

func validSettings() domain.PluginSettings {
	return domain.PluginSettings{
		ID: domain.DefaultSettingsID,
		Credentials: domain.Credentials{
			APIKey:    "key",
			BaseURL:   "https://graph.example.com",
			ChannelID: "ch-1",
		},
		OTPEnabled:   true,
		AuthTemplate: testAuthTemplate,
	}
}

func newTestService(cfg domain.PluginSettings, p *capturingProvider) (*otpService, cache.OTPCache) {
	c := localcache.NewOTPCache(ca.New(cache.DefaultOTPExpiry, time.Minute))
	svc := NewService(&stubSettings{cfg: cfg}, p, c).(*otpService)
	return svc, c
}

func TestRequest(t *testing.T) {
	t.Parallel()

	t.Run("发送成功_验证码注入模板并落缓存", func(t *testing.T) {
		t.Parallel()
		p := &capturingProvider{}
		svc, c := newTestService(validSettings(), p)
		svc.randCode = func() string { return "654321" }

		err := svc.Request(t.Context(), "user-1", "5551234567")
		require.NoError(t, err)
		assert.Equal(t, 1, p.calls)
		// 默认区号补齐
		assert.Equal(t, "915551234567", p.payload["to"])

		tpl := p.payload["template"].(map[string]any)
		params := tpl["components"].([]any)[0].(map[string]any)["parameters"].([]any)
		assert.Equal(t, "654321", params[0].(map[string]any)["text"])

		record, err := c.Get(t.Context(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "654321", record.Code)
	})

	t.Run("默认生成器产出6位数字", func(t *testing.T) {
		t.Parallel()
		p := &capturingProvider{}
		svc, c := newTestService(validSettings(), p)

		require.NoError(t, svc.Request(t.Context(), "user-2", "5551234567"))
		record, err := c.Get(t.Context(), "user-2")
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^[1-9]\d{5}$`), record.Code)
	})

	t.Run("发送失败_已存的验证码不回滚", func(t *testing.T) {
		t.Parallel()
		p := &capturingProvider{err: errors.New("网络抖动")}
		svc, c := newTestService(validSettings(), p)
		svc.randCode = func() string { return "111222" }

		err := svc.Request(t.Context(), "user-3", "5551234567")
		require.Error(t, err)

		record, err := c.Get(t.Context(), "user-3")
		require.NoError(t, err)
		assert.Equal(t, "111222", record.Code)
	})

	t.Run("缺少凭证_不生成也不发送", func(t *testing.T) {
		t.Parallel()
		cfg := validSettings()
		cfg.Credentials.APIKey = ""
		p := &capturingProvider{}
		svc, c := newTestService(cfg, p)

		err := svc.Request(t.Context(), "user-4", "5551234567")
		assert.ErrorIs(t, err, errs.ErrMissingCredentials)
		assert.Zero(t, p.calls)
		_, err = c.Get(t.Context(), "user-4")
		assert.ErrorIs(t, err, cache.ErrKeyNotFound)
	})

	t.Run("重复请求_后码覆盖前码", func(t *testing.T) {
		t.Parallel()
		p := &capturingProvider{}
		svc, c := newTestService(validSettings(), p)
		codes := []string{"100001", "100002"}
		svc.randCode = func() string {
			code := codes[0]
			codes = codes[1:]
			return code
		}

		require.NoError(t, svc.Request(t.Context(), "user-5", "5551234567"))
		require.NoError(t, svc.Request(t.Context(), "user-5", "5551234567"))

		record, err := c.Get(t.Context(), "user-5")
		require.NoError(t, err)
		assert.Equal(t, "100002", record.Code)
		assert.ErrorIs(t, svc.Verify(t.Context(), "user-5", "100001"), errs.ErrOTPInvalid)
		assert.NoError(t, svc.Verify(t.Context(), "user-5", "100002"))
	})

	t.Run("参数为空直接报错", func(t *testing.T) {
		t.Parallel()
		p := &capturingProvider{}
		svc, _ := newTestService(validSettings(), p)
		assert.ErrorIs(t, svc.Request(t.Context(), "", "5551234567"), errs.ErrInvalidParameter)
		assert.ErrorIs(t, svc.Request(t.Context(), "user-6", ""), errs.ErrInvalidParameter)
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()

	issue := func(t *testing.T, svc *otpService, subject, code string) {
		t.Helper()
		svc.randCode = func() string { return code }
		require.NoError(t, svc.Request(t.Context(), subject, "5551234567"))
	}

	t.Run("签发后立即校验通过_且单次使用", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(validSettings(), &capturingProvider{})
		issue(t, svc, "user-1", "234567")

		require.NoError(t, svc.Verify(t.Context(), "user-1", "234567"))
		// 同一个码第二次校验必须失败
		assert.ErrorIs(t, svc.Verify(t.Context(), "user-1", "234567"), errs.ErrOTPNotFound)
	})

	t.Run("输入两端空白会被修剪", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(validSettings(), &capturingProvider{})
		issue(t, svc, "user-2", "234567")
		assert.NoError(t, svc.Verify(t.Context(), "user-2", "  234567 "))
	})

	t.Run("错误的码_记录保留可重试", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(validSettings(), &capturingProvider{})
		issue(t, svc, "user-3", "234567")

		assert.ErrorIs(t, svc.Verify(t.Context(), "user-3", "000000"), errs.ErrOTPInvalid)
		assert.NoError(t, svc.Verify(t.Context(), "user-3", "234567"))
	})

	t.Run("超过10分钟判定过期_记录被删除", func(t *testing.T) {
		t.Parallel()
		svc, c := newTestService(validSettings(), &capturingProvider{})
		issue(t, svc, "user-4", "234567")

		svc.now = func() time.Time { return time.Now().Add(601 * time.Second) }
		assert.ErrorIs(t, svc.Verify(t.Context(), "user-4", "234567"), errs.ErrOTPExpired)
		_, err := c.Get(t.Context(), "user-4")
		assert.ErrorIs(t, err, cache.ErrKeyNotFound)
	})

	t.Run("刚好10分钟边界不算过期", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(validSettings(), &capturingProvider{})
		issuedAt := time.Now()
		svc.now = func() time.Time { return issuedAt }
		issue(t, svc, "user-5", "234567")

		svc.now = func() time.Time { return issuedAt.Add(cache.DefaultOTPExpiry) }
		assert.NoError(t, svc.Verify(t.Context(), "user-5", "234567"))
	})

	t.Run("从未签发_报不存在", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(validSettings(), &capturingProvider{})
		assert.ErrorIs(t, svc.Verify(t.Context(), "ghost", "234567"), errs.ErrOTPNotFound)
	})
}

func TestAnonymousSubject(t *testing.T) {
	t.Parallel()
	first := AnonymousSubject()
	second := AnonymousSubject()
	assert.NotEqual(t, first, second)
	assert.Regexp(t, regexp.MustCompile(`^anon-[0-9a-f-]{36}$`), first)
}
