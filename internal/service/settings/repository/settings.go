package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/errs"
	"gitee.com/flycash/whatsapp-notify/internal/service/settings/repository/cache"
	daopkg "gitee.com/flycash/whatsapp-notify/internal/service/settings/repository/dao"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/elog"
)

type PluginSettingsRepository interface {
	Get(ctx context.Context) (domain.PluginSettings, error)
	Save(ctx context.Context, settings domain.PluginSettings) error
}

type pluginSettingsRepository struct {
	dao    daopkg.PluginSettingsDAO
	local  cache.SettingsCache
	redis  cache.SettingsCache
	logger *elog.Component
}

// NewPluginSettingsRepository 读取顺序：本地缓存、redis、数据库；写入后逐级回填
func NewPluginSettingsRepository(dao daopkg.PluginSettingsDAO, local, redis cache.SettingsCache) PluginSettingsRepository {
	return &pluginSettingsRepository{
		dao:    dao,
		local:  local,
		redis:  redis,
		logger: elog.DefaultLogger,
	}
}

func (r *pluginSettingsRepository) Get(ctx context.Context) (domain.PluginSettings, error) {
	if settings, err := r.local.Get(ctx); err == nil {
		return settings, nil
	}
	if settings, err := r.redis.Get(ctx); err == nil {
		// 回填本地缓存
		if err := r.local.Set(ctx, settings); err != nil {
			r.logger.Warn("回填本地缓存失败", elog.FieldErr(err))
		}
		return settings, nil
	}

	row, err := r.dao.GetByID(ctx, domain.DefaultSettingsID)
	if err != nil {
		if errors.Is(err, egorm.ErrRecordNotFound) {
			return domain.PluginSettings{}, fmt.Errorf("%w", errs.ErrSettingsNotFound)
		}
		return domain.PluginSettings{}, err
	}

	settings, err := r.toDomain(row)
	if err != nil {
		return domain.PluginSettings{}, err
	}
	r.refill(ctx, settings)
	return settings, nil
}

func (r *pluginSettingsRepository) Save(ctx context.Context, settings domain.PluginSettings) error {
	row, err := r.toEntity(settings)
	if err != nil {
		return err
	}
	if err := r.dao.Save(ctx, row); err != nil {
		return err
	}
	// 写库成功后直接覆盖缓存，不走失效重查
	r.refill(ctx, settings)
	return nil
}

func (r *pluginSettingsRepository) refill(ctx context.Context, settings domain.PluginSettings) {
	if err := r.redis.Set(ctx, settings); err != nil {
		r.logger.Warn("写入redis缓存失败", elog.FieldErr(err))
	}
	if err := r.local.Set(ctx, settings); err != nil {
		r.logger.Warn("写入本地缓存失败", elog.FieldErr(err))
	}
}

func (r *pluginSettingsRepository) toDomain(row daopkg.PluginSettings) (domain.PluginSettings, error) {
	eventTemplates := make(map[domain.EventKind]string)
	if len(row.EventTplJSON) > 0 {
		if err := json.Unmarshal(row.EventTplJSON, &eventTemplates); err != nil {
			return domain.PluginSettings{}, fmt.Errorf("%w: event_templates 反序列化失败: %w", errs.ErrInvalidParameter, err)
		}
	}
	return domain.PluginSettings{
		ID: row.ID,
		Credentials: domain.Credentials{
			APIKey:      row.APIKey,
			BaseURL:     row.APIBaseURL,
			ChannelID:   row.ChannelID,
			PhonePrefix: row.PhonePrefix,
		},
		OTPEnabled:     row.OTPEnabled,
		AuthTemplate:   row.AuthTemplate,
		EventTemplates: eventTemplates,
		Ctime:          row.Ctime,
		Utime:          row.Utime,
	}, nil
}

func (r *pluginSettingsRepository) toEntity(settings domain.PluginSettings) (daopkg.PluginSettings, error) {
	eventTplJSON, err := json.Marshal(settings.EventTemplates)
	if err != nil {
		return daopkg.PluginSettings{}, fmt.Errorf("%w: event_templates 序列化失败: %w", errs.ErrInvalidParameter, err)
	}
	id := settings.ID
	if id == 0 {
		id = domain.DefaultSettingsID
	}
	return daopkg.PluginSettings{
		ID:           id,
		APIKey:       settings.Credentials.APIKey,
		APIBaseURL:   settings.Credentials.BaseURL,
		ChannelID:    settings.Credentials.ChannelID,
		PhonePrefix:  settings.Credentials.PhonePrefix,
		OTPEnabled:   settings.OTPEnabled,
		AuthTemplate: settings.AuthTemplate,
		EventTplJSON: eventTplJSON,
		Ctime:        settings.Ctime,
		Utime:        settings.Utime,
	}, nil
}
