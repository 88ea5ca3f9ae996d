package settings

import (
	"context"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/service/settings/repository"
)

// Service 插件设置读取入口，各业务服务从这里取凭证和模板
type Service interface {
	Get(ctx context.Context) (domain.PluginSettings, error)
	Save(ctx context.Context, settings domain.PluginSettings) error
	// Credentials 返回校验过的凭证，配置不完整时报错
	Credentials(ctx context.Context) (domain.Credentials, error)
	// AuthTemplate 返回OTP认证模板JSON
	AuthTemplate(ctx context.Context) (string, error)
	// EventTemplate 返回指定事件的模板JSON，未配置返回空串
	EventTemplate(ctx context.Context, kind domain.EventKind) (string, error)
	OTPEnabled(ctx context.Context) (bool, error)
}

type settingsService struct {
	repo repository.PluginSettingsRepository
}

func NewService(repo repository.PluginSettingsRepository) Service {
	return &settingsService{
		repo: repo,
	}
}

func (s *settingsService) Get(ctx context.Context) (domain.PluginSettings, error) {
	return s.repo.Get(ctx)
}

func (s *settingsService) Save(ctx context.Context, settings domain.PluginSettings) error {
	if err := settings.Credentials.Validate(); err != nil {
		return err
	}
	return s.repo.Save(ctx, settings)
}

func (s *settingsService) Credentials(ctx context.Context) (domain.Credentials, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return domain.Credentials{}, err
	}
	if err := settings.Credentials.Validate(); err != nil {
		return domain.Credentials{}, err
	}
	return settings.Credentials, nil
}

func (s *settingsService) AuthTemplate(ctx context.Context) (string, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	return settings.AuthTemplate, nil
}

func (s *settingsService) EventTemplate(ctx context.Context, kind domain.EventKind) (string, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	return settings.EventTemplate(kind), nil
}

func (s *settingsService) OTPEnabled(ctx context.Context) (bool, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return false, err
	}
	return settings.OTPEnabled, nil
}
