// Package metrics 给 redis 客户端挂上 prometheus 指标采集。
// 本服务只用单命令读写（验证码、设置缓存、分布式锁），不采集管道指标
package metrics

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

var (
	commandCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_notify_redis_commands_total",
			Help: "Total number of Redis commands executed",
		},
		[]string{"command", "status"},
	)

	commandDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "whatsapp_notify_redis_command_duration_seconds",
			Help:       "Redis command execution time in seconds",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.95: 0.005, 0.99: 0.001},
		},
		[]string{"command"},
	)

	connectionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_notify_redis_connections_total",
			Help: "Total number of Redis connections created",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		commandCounter,
		commandDuration,
		connectionCounter,
	)
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Hook 实现 redis.Hook 接口
type Hook struct{}

var _ redis.Hook = (*Hook)(nil)

func NewMetricsHook() *Hook {
	return &Hook{}
}

func (h *Hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		startTime := time.Now()
		err := next(ctx, cmd)
		commandDuration.WithLabelValues(cmd.Name()).Observe(time.Since(startTime).Seconds())

		status := statusSuccess
		// redis.Nil 是未命中，不算错误
		if err != nil && !errors.Is(err, redis.Nil) {
			status = statusError
		}
		commandCounter.WithLabelValues(cmd.Name(), status).Inc()
		return err
	}
}

func (h *Hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (h *Hook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		status := statusSuccess
		if err != nil {
			status = statusError
		}
		connectionCounter.WithLabelValues(status).Inc()
		return conn, err
	}
}

// WithMetrics 为Redis客户端添加指标收集功能
func WithMetrics(client *redis.Client) *redis.Client {
	client.AddHook(NewMetricsHook())
	return client
}
