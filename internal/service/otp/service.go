package otp

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/errs"
	"gitee.com/flycash/whatsapp-notify/internal/repository/cache"
	"gitee.com/flycash/whatsapp-notify/internal/service/message"
	"gitee.com/flycash/whatsapp-notify/internal/service/provider"
	"gitee.com/flycash/whatsapp-notify/internal/service/settings"
	"github.com/gofrs/uuid"
	"github.com/gotomicro/ego/core/elog"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// Service 一次性验证码服务
type Service interface {
	// Request 生成验证码并通过认证模板下发到 phone。
	// 先落存储再发送，发送失败不回滚已存的验证码，用户仍可凭收到的旧码重试
	Request(ctx context.Context, subject, phone string) error
	// Verify 校验验证码，成功或判定过期都会删除记录，单次使用
	Verify(ctx context.Context, subject, input string) error
}

// AnonymousSubject 未登录用户没有稳定主体ID，用随机会话ID代替
func AnonymousSubject() string {
	return fmt.Sprintf("anon-%s", uuid.Must(uuid.NewV4()).String())
}

type otpService struct {
	settingsSvc settings.Service
	provider    provider.Provider
	cache       cache.OTPCache
	expiry      time.Duration
	logger      *elog.Component

	// 测试注入点
	now      func() time.Time
	randCode func() string
}

func NewService(settingsSvc settings.Service, p provider.Provider, c cache.OTPCache) Service {
	return &otpService{
		settingsSvc: settingsSvc,
		provider:    p,
		cache:       c,
		expiry:      cache.DefaultOTPExpiry,
		logger:      elog.DefaultLogger,
		now:         time.Now,
		randCode: func() string {
			return fmt.Sprintf("%d", codeMin+rand.Intn(codeMax-codeMin+1))
		},
	}
}

func (s *otpService) Request(ctx context.Context, subject, phone string) error {
	if subject == "" || phone == "" {
		return fmt.Errorf("%w: subject 和 phone 不能为空", errs.ErrInvalidParameter)
	}
	cfg, err := s.settingsSvc.Get(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Credentials.Validate(); err != nil {
		return err
	}

	code := s.randCode()
	record := domain.OTPRecord{
		Code:     code,
		IssuedAt: s.now(),
	}
	// 先存后发：同一主体重复请求直接覆盖旧码
	if err := s.cache.Set(ctx, subject, record); err != nil {
		return fmt.Errorf("存储验证码失败: %w", err)
	}

	builder := message.NewBuilder(cfg.Credentials.Prefix())
	payload, err := builder.BuildOTP(phone, code, cfg.AuthTemplate)
	if err != nil {
		return err
	}
	resp, err := s.provider.Send(ctx, payload, cfg.Credentials)
	if err != nil {
		s.logger.Error("验证码发送失败",
			elog.String("subject", subject),
			elog.FieldErr(err))
		return err
	}
	s.logger.Info("验证码已发送",
		elog.String("subject", subject),
		elog.String("messageId", resp.MessageID))
	return nil
}

func (s *otpService) Verify(ctx context.Context, subject, input string) error {
	record, err := s.cache.Get(ctx, subject)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrOTPNotFound, err)
	}
	if record.ExpiredAt(s.now(), s.expiry) {
		// 过期的记录直接清掉，避免用户反复拿过期码撞
		if err := s.cache.Del(ctx, subject); err != nil {
			s.logger.Warn("删除过期验证码失败", elog.FieldErr(err))
		}
		return fmt.Errorf("%w", errs.ErrOTPExpired)
	}
	if strings.TrimSpace(input) != record.Code {
		return fmt.Errorf("%w", errs.ErrOTPInvalid)
	}
	// 校验通过后立即删除，同一个码不允许第二次使用
	if err := s.cache.Del(ctx, subject); err != nil {
		return fmt.Errorf("删除已使用验证码失败: %w", err)
	}
	return nil
}
