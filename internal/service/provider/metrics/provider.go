// Provider 为投递方添加指标收集的装饰器
package metrics

import (
	"context"
	"time"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/service/provider"
	"github.com/prometheus/client_golang/prometheus"
)

// Provider 为投递方添加指标收集的装饰器
type Provider struct {
	provider            provider.Provider
	sendDurationSummary *prometheus.SummaryVec
	sendCounter         *prometheus.CounterVec
	sendStatusCounter   *prometheus.CounterVec
	name                string
}

// NewProvider 创建一个新的带有指标收集的投递方
func NewProvider(name string, p provider.Provider) *Provider {
	sendDurationSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "whatsapp_send_duration_seconds",
			Help:       "投递方发送消息耗时统计（秒）",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.95: 0.005, 0.99: 0.001},
			MaxAge:     time.Minute * 5,
		},
		[]string{"provider", "channel", "status"},
	)

	sendCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_send_total",
			Help: "投递方发送消息总数",
		},
		[]string{"provider", "channel"},
	)

	sendStatusCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_send_status_total",
			Help: "投递方发送消息状态统计",
		},
		[]string{"provider", "channel", "status"},
	)

	// 注册指标
	prometheus.MustRegister(sendDurationSummary, sendCounter, sendStatusCounter)

	return &Provider{
		provider:            p,
		sendDurationSummary: sendDurationSummary,
		sendCounter:         sendCounter,
		sendStatusCounter:   sendStatusCounter,
		name:                name,
	}
}

// Send 发送消息并记录指标
func (p *Provider) Send(ctx context.Context, payload domain.Payload, creds domain.Credentials) (domain.SendResponse, error) {
	startTime := time.Now()

	p.sendCounter.WithLabelValues(p.name, creds.ChannelID).Inc()

	response, err := p.provider.Send(ctx, payload, creds)

	duration := time.Since(startTime).Seconds()

	p.sendStatusCounter.WithLabelValues(
		p.name,
		creds.ChannelID,
		string(response.Status),
	).Inc()

	p.sendDurationSummary.WithLabelValues(
		p.name,
		creds.ChannelID,
		string(response.Status),
	).Observe(duration)

	return response, err
}
