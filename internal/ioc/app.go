package ioc

import (
	"time"

	"gitee.com/flycash/whatsapp-notify/internal/api/web"
	"gitee.com/flycash/whatsapp-notify/internal/pkg/loopjob"
	"gitee.com/flycash/whatsapp-notify/internal/repository"
	"gitee.com/flycash/whatsapp-notify/internal/repository/cache"
	otpredis "gitee.com/flycash/whatsapp-notify/internal/repository/cache/redis"
	"gitee.com/flycash/whatsapp-notify/internal/repository/dao"
	"gitee.com/flycash/whatsapp-notify/internal/service/notifier"
	"gitee.com/flycash/whatsapp-notify/internal/service/otp"
	"gitee.com/flycash/whatsapp-notify/internal/service/provider"
	providermetrics "gitee.com/flycash/whatsapp-notify/internal/service/provider/metrics"
	"gitee.com/flycash/whatsapp-notify/internal/service/provider/tracing"
	"gitee.com/flycash/whatsapp-notify/internal/service/provider/whatsapp"
	"gitee.com/flycash/whatsapp-notify/internal/service/provider/whatsapp/client"
	"gitee.com/flycash/whatsapp-notify/internal/service/resend"
	"gitee.com/flycash/whatsapp-notify/internal/service/settings"
	settingsrepo "gitee.com/flycash/whatsapp-notify/internal/service/settings/repository"
	settingscache "gitee.com/flycash/whatsapp-notify/internal/service/settings/repository/cache"
	settingsdao "gitee.com/flycash/whatsapp-notify/internal/service/settings/repository/dao"
	"gitee.com/flycash/whatsapp-notify/internal/service/shop"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/econf"
	"github.com/meoying/dlock-go"
	ca "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/sony/sonyflake"
)

func InitIDGenerator() *sonyflake.Sonyflake {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{})
	if sf == nil {
		panic("初始化ID生成器失败")
	}
	return sf
}

func InitWhatsAppClient() client.Client {
	return client.NewHTTPClient()
}

// InitProvider 投递方装配顺序：业务实现在最里层，往外依次是链路追踪、指标
func InitProvider(c client.Client) provider.Provider {
	var p provider.Provider = whatsapp.NewProvider(c)
	p = tracing.NewProvider(p)
	p = providermetrics.NewProvider("whatsapp", p)
	return p
}

func InitLocalCache() *ca.Cache {
	const cleanupInterval = time.Minute
	return ca.New(settingscache.DefaultExpiredTime, cleanupInterval)
}

func InitSettingsService(db *egorm.Component, rdb *redis.Client, local *ca.Cache) settings.Service {
	repo := settingsrepo.NewPluginSettingsRepository(
		settingsdao.NewPluginSettingsDAO(db),
		settingscache.NewLocalCache(local),
		settingscache.NewRedisCache(rdb),
	)
	return settings.NewService(repo)
}

func InitOTPCache(rdb *redis.Client) cache.OTPCache {
	return otpredis.NewOTPCache(rdb)
}

func InitOTPService(settingsSvc settings.Service, p provider.Provider, c cache.OTPCache) otp.Service {
	return otp.NewService(settingsSvc, p, c)
}

func InitNotificationRepository(db *egorm.Component) repository.NotificationRepository {
	return repository.NewNotificationRepository(dao.NewNotificationDAO(db))
}

func InitNotifier(settingsSvc settings.Service, p provider.Provider, repo repository.NotificationRepository, sf *sonyflake.Sonyflake) notifier.Notifier {
	return notifier.New(settingsSvc, p, repo, sf)
}

func InitOrderClient() *shop.OrderClient {
	type Config struct {
		BaseURL string `yaml:"baseUrl"`
		Token   string `yaml:"token"`
	}
	var cfg Config
	err := econf.UnmarshalKey("shop", &cfg)
	if err != nil {
		panic(err)
	}
	return shop.NewOrderClient(cfg.BaseURL, cfg.Token)
}

// InitResendLoop 待发送通知的周期补发任务
func InitResendLoop(
	dclient dlock.Client,
	repo repository.NotificationRepository,
	settingsSvc settings.Service,
	p provider.Provider,
	orders resend.OrderGetter,
) *loopjob.InfiniteLoop {
	svc := resend.NewService(repo, settingsSvc, p, orders)
	return loopjob.NewInfiniteLoop(dclient, svc.ResendPending, "whatsapp:resend", resend.DefaultInterval)
}

func InitHandlers(
	otpSvc otp.Service,
	settingsSvc settings.Service,
	c client.Client,
	n notifier.Notifier,
) []web.Handler {
	return []web.Handler{
		web.NewOTPHandler(otpSvc, settingsSvc),
		web.NewAdminHandler(settingsSvc, c),
		web.NewOrderEventHandler(n),
	}
}
