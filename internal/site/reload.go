package site

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Reloader 可被通知重新加载的组件
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloadNotifier 站点变更后的重新加载信号
type ReloadNotifier interface {
	NotifyReload(ctx context.Context) error
}

// ==================== 单实例 ====================

// LocalNotifier 直接重新加载本进程的注册表
type LocalNotifier struct {
	target Reloader
}

func NewLocalNotifier(target Reloader) *LocalNotifier {
	return &LocalNotifier{target: target}
}

func (n *LocalNotifier) NotifyReload(ctx context.Context) error {
	return n.target.Reload(ctx)
}

// ==================== 多实例（Redis Pub/Sub）====================

// RedisNotifier 通过 Redis 频道广播重新加载信号
// 所有实例（包括发布者自己）都在 Subscribe 中收到消息后重新加载
type RedisNotifier struct {
	rdb     redis.UniversalClient
	channel string
	target  Reloader
	logger  *zap.Logger

	subscribed atomic.Bool
	missed     atomic.Bool // 订阅中断期间可能漏掉消息

	retryMin time.Duration
	retryMax time.Duration
}

func NewRedisNotifier(rdb redis.UniversalClient, channel string, target Reloader, logger *zap.Logger) *RedisNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisNotifier{
		rdb:      rdb,
		channel:  channel,
		target:   target,
		logger:   logger.With(zap.String("component", "site_reload")),
		retryMin: time.Second,
		retryMax: time.Minute,
	}
}

// NotifyReload 发布重新加载消息
// 发布失败、无订阅者或本实例未订阅时，直接重新加载本实例
func (n *RedisNotifier) NotifyReload(ctx context.Context) error {
	receivers, err := n.rdb.Publish(ctx, n.channel, "reload").Result()
	switch {
	case err != nil:
		n.logger.Warn("发布重新加载消息失败，仅重新加载本实例", zap.Error(err))
	case receivers == 0:
		n.logger.Warn("重新加载消息无订阅者，重新加载本实例")
	case !n.subscribed.Load():
		n.logger.Warn("本实例未订阅重新加载频道，直接重新加载")
	default:
		return nil
	}

	if rerr := n.target.Reload(ctx); rerr != nil {
		return fmt.Errorf("重新加载站点失败: %w", rerr)
	}
	return nil
}

// Listen 持续订阅，订阅失败或中断后按指数退避重试，直到 ctx 取消
func (n *RedisNotifier) Listen(ctx context.Context) {
	delay := n.retryMin
	for {
		err := n.Subscribe(ctx)
		if ctx.Err() != nil {
			return
		}
		n.missed.Store(true)
		if err == nil {
			delay = n.retryMin
		}
		n.logger.Warn("站点重新加载订阅中断，稍后重试", zap.Error(err), zap.Duration("retry_in", delay))

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > n.retryMax {
			delay = n.retryMax
		}
	}
}

// Subscribe 订阅重新加载消息，阻塞直到 ctx 取消或连接断开
func (n *RedisNotifier) Subscribe(ctx context.Context) error {
	sub := n.rdb.Subscribe(ctx, n.channel)
	defer sub.Close()

	// 等待订阅确认，确保之后的消息不会丢失
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("订阅频道 %s 失败: %w", n.channel, err)
	}
	n.subscribed.Store(true)
	defer n.subscribed.Store(false)
	n.logger.Info("已订阅站点重新加载频道", zap.String("channel", n.channel))

	if n.missed.Swap(false) {
		if err := n.target.Reload(ctx); err != nil {
			n.logger.Error("重新订阅后重新加载站点失败", zap.Error(err))
		}
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			n.logger.Info("收到站点重新加载消息", zap.String("payload", msg.Payload))
			if err := n.target.Reload(ctx); err != nil {
				n.logger.Error("重新加载站点失败", zap.Error(err))
			}
		}
	}
}
