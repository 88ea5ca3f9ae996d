package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitee.com/flycash/whatsapp-notify/internal/ioc"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/core/elog"
	"gopkg.in/yaml.v3"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	flag.Parse()
	loadConfig(*configPath)

	db := ioc.InitDB()
	rdb := ioc.InitRedisClient()
	local := ioc.InitLocalCache()

	whatsappClient := ioc.InitWhatsAppClient()
	p := ioc.InitProvider(whatsappClient)

	settingsSvc := ioc.InitSettingsService(db, rdb, local)
	otpSvc := ioc.InitOTPService(settingsSvc, p, ioc.InitOTPCache(rdb))
	repo := ioc.InitNotificationRepository(db)
	n := ioc.InitNotifier(settingsSvc, p, repo, ioc.InitIDGenerator())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 补发任务常驻后台，靠分布式锁保证多实例只有一个在跑
	resendLoop := ioc.InitResendLoop(
		ioc.InitDLockClient(rdb),
		repo,
		settingsSvc,
		p,
		ioc.InitOrderClient(),
	)
	go resendLoop.Run(ctx)

	server := gin.Default()
	for _, h := range ioc.InitHandlers(otpSvc, settingsSvc, whatsappClient, n) {
		h.RegisterRoutes(server)
	}

	addr := econf.GetString("server.http.addr")
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		elog.Info("HTTP服务启动", elog.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			elog.Panic("HTTP服务异常退出", elog.FieldErr(err))
		}
	}()

	<-ctx.Done()
	elog.Info("收到退出信号，开始优雅关闭")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		elog.Error("HTTP服务关闭失败", elog.FieldErr(err))
	}
}

func loadConfig(path string) {
	f, err := os.Open(path)
	if err != nil {
		elog.Panic("打开配置文件失败", elog.String("path", path), elog.FieldErr(err))
	}
	defer f.Close()
	if err := econf.LoadFromReader(f, yaml.Unmarshal); err != nil {
		elog.Panic("加载配置失败", elog.FieldErr(err))
	}
}
