package dao

import (
	"context"
	"time"

	pkgdao "gitee.com/flycash/whatsapp-notify/internal/pkg/dao"
	"github.com/ego-component/egorm"
)

// PluginSettings 插件配置表，整站只有一行
type PluginSettings struct {
	ID          int64  `gorm:"primaryKey;type:BIGINT"`
	APIKey      string `gorm:"type:VARCHAR(255);comment:'API密钥'"`
	APIBaseURL  string `gorm:"type:VARCHAR(255);comment:'API入口地址'"`
	ChannelID   string `gorm:"type:VARCHAR(64);comment:'发送渠道'"`
	PhonePrefix string `gorm:"type:VARCHAR(8);comment:'国际区号前缀'"`

	OTPEnabled   bool       `gorm:"comment:'是否启用OTP校验'"`
	AuthTemplate string     `gorm:"type:TEXT;comment:'认证模板JSON'"`
	EventTplJSON pkgdao.JSON `gorm:"column:event_templates;type:JSON;comment:'事件到模板JSON的映射'"`

	Ctime int64
	Utime int64
}

// TableName 重命名表
func (PluginSettings) TableName() string {
	return "plugin_settings"
}

type PluginSettingsDAO interface {
	GetByID(ctx context.Context, id int64) (PluginSettings, error)
	Save(ctx context.Context, settings PluginSettings) error
}

type pluginSettingsDAO struct {
	db *egorm.Component
}

// NewPluginSettingsDAO 创建插件配置DAO实例
func NewPluginSettingsDAO(db *egorm.Component) PluginSettingsDAO {
	return &pluginSettingsDAO{
		db: db,
	}
}

func (d *pluginSettingsDAO) GetByID(ctx context.Context, id int64) (PluginSettings, error) {
	var settings PluginSettings
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&settings).Error
	if err != nil {
		return PluginSettings{}, err
	}
	return settings, nil
}

func (d *pluginSettingsDAO) Save(ctx context.Context, settings PluginSettings) error {
	now := time.Now().UnixMilli()
	settings.Utime = now
	if settings.Ctime == 0 {
		settings.Ctime = now
	}
	return d.db.WithContext(ctx).Save(&settings).Error
}
