// Package loopjob 没有分布式任务调度平台时的轻量替代：
// 抢到分布式锁的实例独占执行周期任务，多实例部署下任务不会重复跑
package loopjob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gotomicro/ego/core/elog"
	"github.com/meoying/dlock-go"
)

const defaultTimeout = time.Second * 3

// InfiniteLoop 以固定间隔反复执行 biz，直到 ctx 被取消。
// 每轮之间续约分布式锁，续约失败则放弃执行权重新抢锁
type InfiniteLoop struct {
	dclient  dlock.Client
	key      string
	interval time.Duration
	logger   *elog.Component
	biz      func(ctx context.Context) error
}

func NewInfiniteLoop(
	dclient dlock.Client,
	biz func(ctx context.Context) error,
	key string,
	interval time.Duration,
) *InfiniteLoop {
	return &InfiniteLoop{
		dclient:  dclient,
		key:      key,
		interval: interval,
		logger:   elog.DefaultLogger.With(elog.String("key", key)),
		biz:      biz,
	}
}

// Run 当 ctx 被取消的时候退出
func (l *InfiniteLoop) Run(ctx context.Context) {
	for {
		// 锁的有效期给两个周期，保证到点续约时锁还没自然过期
		lock, err := l.dclient.NewLock(ctx, l.key, l.interval*2)
		if err != nil {
			l.logger.Error("初始化分布式锁失败，重试", elog.FieldErr(err))
			time.Sleep(l.interval)
			continue
		}

		lockCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
		err = lock.Lock(lockCtx)
		cancel()
		if err != nil {
			// 锁被别的实例持有是正常情况，等下一轮再抢
			time.Sleep(l.interval)
			continue
		}

		err = l.bizLoop(ctx, lock)
		if err != nil {
			l.logger.Error("任务循环中断", elog.FieldErr(err))
		}
		// 此时 ctx 可能已被取消，解锁要用独立的超时
		unCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		//nolint:contextcheck // 原始 ctx 可能已被取消，但仍需尝试解锁操作
		unErr := lock.Unlock(unCtx)
		cancel()
		if unErr != nil {
			l.logger.Error("释放分布式锁失败", elog.FieldErr(unErr))
		}

		err = ctx.Err()
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			l.logger.Info("任务被取消，退出任务循环")
			return
		default:
			time.Sleep(l.interval)
		}
	}
}

func (l *InfiniteLoop) bizLoop(ctx context.Context, lock dlock.Lock) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		if err := l.biz(ctx); err != nil {
			l.logger.Error("业务执行失败", elog.FieldErr(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		refCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
		err := lock.Refresh(refCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("分布式锁续约失败: %w", err)
		}
	}
}
