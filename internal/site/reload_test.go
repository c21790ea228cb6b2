package site

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) Reload(context.Context) error {
	r.calls.Add(1)
	return nil
}

// publishHook 拦截 PUBLISH，不连接真实 Redis
type publishHook struct {
	receivers int64
	err       error
}

func (h publishHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h publishHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() != "publish" {
			return next(ctx, cmd)
		}
		if h.err != nil {
			cmd.SetErr(h.err)
			return h.err
		}
		cmd.(*redis.IntCmd).SetVal(h.receivers)
		return nil
	}
}

func (h publishHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newHookedClient(t *testing.T, hook publishHook) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	rdb.AddHook(hook)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestLocalNotifier(t *testing.T) {
	target := &countingReloader{}
	require.NoError(t, NewLocalNotifier(target).NotifyReload(context.Background()))
	assert.Equal(t, int32(1), target.calls.Load())
}

func TestRedisNotifier_NotifyReload(t *testing.T) {
	tests := []struct {
		name       string
		hook       publishHook
		subscribed bool
		wantLocal  int32
	}{
		{name: "广播成功且本实例已订阅", hook: publishHook{receivers: 2}, subscribed: true, wantLocal: 0},
		{name: "发布失败", hook: publishHook{err: errors.New("connection refused")}, subscribed: true, wantLocal: 1},
		{name: "无订阅者", hook: publishHook{receivers: 0}, subscribed: true, wantLocal: 1},
		{name: "本实例未订阅", hook: publishHook{receivers: 3}, subscribed: false, wantLocal: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &countingReloader{}
			n := NewRedisNotifier(newHookedClient(t, tt.hook), "wgss:sites:reload", target, zap.NewNop())
			n.subscribed.Store(tt.subscribed)

			require.NoError(t, n.NotifyReload(context.Background()))
			assert.Equal(t, tt.wantLocal, target.calls.Load())
		})
	}
}

// Redis 不可用时 Listen 持续重试，ctx 取消后退出
func TestRedisNotifier_ListenRetriesUntilCancelled(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	n := NewRedisNotifier(rdb, "wgss:sites:reload", &countingReloader{}, zap.NewNop())
	n.retryMin = 10 * time.Millisecond
	n.retryMax = 20 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		n.Listen(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Listen 未在 ctx 取消后退出")
	}
	assert.False(t, n.subscribed.Load())
	assert.True(t, n.missed.Load())
}
