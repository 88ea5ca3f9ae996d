package ioc

import (
	redismetrics "gitee.com/flycash/whatsapp-notify/internal/pkg/redis/metrics"
	"github.com/gotomicro/ego/core/econf"
	"github.com/meoying/dlock-go"
	dlockRedis "github.com/meoying/dlock-go/redis"
	"github.com/redis/go-redis/v9"
)

func InitRedisClient() *redis.Client {
	type Config struct {
		Addr string
	}
	var cfg Config
	err := econf.UnmarshalKey("redis", &cfg)
	if err != nil {
		panic(err)
	}
	cmd := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})
	cmd = redismetrics.WithMetrics(cmd)
	return cmd
}

// InitDLockClient 补发任务的分布式锁，多实例部署时同一轮只有一个实例在跑
func InitDLockClient(rdb *redis.Client) dlock.Client {
	return dlockRedis.NewClient(rdb)
}
