package net

import (
	"context"
	stdnet "net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Dispatcher 站点级网络资源调度器 (通用组件)
// 按站点复用 Transport，并对每个站点的出站请求限速
type Dispatcher interface {
	// Transport 获取站点共享的 Transport
	Transport(siteKey string) http.RoundTripper
	// Wait 阻塞直到该站点允许下一次请求，ctx 取消时返回错误
	Wait(ctx context.Context, siteKey string) error
	// Forget 移除站点缓存（站点被删除或凭证变更时调用）
	Forget(siteKey string)
}

// LimitConfig 单站点限速参数，RPS <= 0 表示不限速
type LimitConfig struct {
	RPS   float64
	Burst int
}

// siteDispatcher 是 Dispatcher 接口的具体实现
// 注意：它是私有的，外部只能通过 NewDispatcher 获取接口
type siteDispatcher struct {
	limit          LimitConfig
	transportCache sync.Map // siteKey -> *http.Transport
	limiterCache   sync.Map // siteKey -> *rate.Limiter
}

var _ Dispatcher = (*siteDispatcher)(nil)

func NewDispatcher(limit LimitConfig) Dispatcher {
	if limit.Burst <= 0 {
		limit.Burst = 1
	}
	return &siteDispatcher{limit: limit}
}

func (d *siteDispatcher) Transport(siteKey string) http.RoundTripper {
	if val, ok := d.transportCache.Load(siteKey); ok {
		return val.(*http.Transport)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&stdnet.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	actual, loaded := d.transportCache.LoadOrStore(siteKey, transport)
	if loaded {
		transport.CloseIdleConnections()
	}
	return actual.(*http.Transport)
}

func (d *siteDispatcher) Wait(ctx context.Context, siteKey string) error {
	if d.limit.RPS <= 0 {
		return nil
	}
	return d.limiter(siteKey).Wait(ctx)
}

func (d *siteDispatcher) limiter(siteKey string) *rate.Limiter {
	if val, ok := d.limiterCache.Load(siteKey); ok {
		return val.(*rate.Limiter)
	}
	l := rate.NewLimiter(rate.Limit(d.limit.RPS), d.limit.Burst)
	actual, _ := d.limiterCache.LoadOrStore(siteKey, l)
	return actual.(*rate.Limiter)
}

func (d *siteDispatcher) Forget(siteKey string) {
	if val, ok := d.transportCache.LoadAndDelete(siteKey); ok {
		val.(*http.Transport).CloseIdleConnections()
	}
	d.limiterCache.Delete(siteKey)
}
