package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"wgss_stock_sync/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== 测试辅助 ====================

type fakeAuth struct {
	sites []model.Site
}

func (f *fakeAuth) AuthenticateAPIKey(apiKey string) (*model.Site, bool) {
	if apiKey == "" {
		return nil, false
	}
	for i := range f.sites {
		if f.sites[i].APIKey == apiKey {
			return &f.sites[i], true
		}
	}
	return nil, false
}

func (f *fakeAuth) LookupSite(siteURL string) (*model.Site, bool) {
	for i := range f.sites {
		if f.sites[i].SiteURL == siteURL {
			return &f.sites[i], true
		}
	}
	return nil, false
}

func newAuth() *fakeAuth {
	return &fakeAuth{sites: []model.Site{
		{SiteURL: "https://s1.example", APIKey: "k1"},
		{SiteURL: "https://s2.example", APIKey: "k2"},
	}}
}

func setupSyncAuthRouter() *gin.Engine {
	r := gin.New()
	r.POST("/api/stock/:action", SyncAuth(newAuth(), "admin-secret", "order"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"origin": c.GetString(CtxOriginSiteURL),
			"method": c.GetString(CtxAuthMethod),
		})
	})
	return r
}

func doRequest(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== SyncAuth ====================

func TestSyncAuth(t *testing.T) {
	r := setupSyncAuthRouter()

	tests := []struct {
		name       string
		path       string
		headers    map[string]string
		wantStatus int
		wantOrigin string
		wantMethod string
	}{
		{
			name:       "API Key 通过，来源取匹配站点",
			path:       "/api/stock/reduce",
			headers:    map[string]string{HeaderAPIKey: "k1"},
			wantStatus: http.StatusOK,
			wantOrigin: "https://s1.example",
			wantMethod: AuthMethodAPIKey,
		},
		{
			name:       "API Key 通过，x-wgss-site 优先",
			path:       "/api/stock/reduce",
			headers:    map[string]string{HeaderAPIKey: "k1", HeaderSite: "https://s2.example"},
			wantStatus: http.StatusOK,
			wantOrigin: "https://s2.example",
			wantMethod: AuthMethodAPIKey,
		},
		{
			name:       "API Key 通过，未注册的 x-wgss-site 被忽略",
			path:       "/api/stock/reduce",
			headers:    map[string]string{HeaderAPIKey: "k1", HeaderSite: "https://evil.example"},
			wantStatus: http.StatusOK,
			wantOrigin: "https://s1.example",
			wantMethod: AuthMethodAPIKey,
		},
		{
			name:       "来源头通过",
			path:       "/api/stock/restore",
			headers:    map[string]string{HeaderSource: "woo", HeaderSite: "https://s2.example"},
			wantStatus: http.StatusOK,
			wantOrigin: "https://s2.example",
			wantMethod: AuthMethodSource,
		},
		{
			name:       "来源头站点未注册",
			path:       "/api/stock/reduce",
			headers:    map[string]string{HeaderSource: "woo", HeaderSite: "https://evil.example"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "来源值错误",
			path:       "/api/stock/reduce",
			headers:    map[string]string{HeaderSource: "shopify", HeaderSite: "https://s1.example"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "错误 API Key",
			path:       "/api/stock/reduce",
			headers:    map[string]string{HeaderAPIKey: "nope"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "无任何凭证",
			path:       "/api/stock/manual",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "order 接受管理密钥",
			path:       "/api/stock/order",
			headers:    map[string]string{HeaderAdminKey: "admin-secret"},
			wantStatus: http.StatusOK,
			wantMethod: AuthMethodAdmin,
		},
		{
			name:       "reduce 不接受管理密钥",
			path:       "/api/stock/reduce",
			headers:    map[string]string{HeaderAdminKey: "admin-secret"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, tt.path, tt.headers)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"origin":"`+tt.wantOrigin+`"`)
				assert.Contains(t, w.Body.String(), `"method":"`+tt.wantMethod+`"`)
			} else {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
			}
		})
	}
}

// ==================== AdminAuth ====================

func TestAdminAuth(t *testing.T) {
	handler := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := gin.New()
	r.GET("/admin", AdminAuth("s3cret"), handler)

	assert.Equal(t, http.StatusNoContent, doRequest(r, http.MethodGet, "/admin", map[string]string{HeaderAdminKey: "s3cret"}).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/admin", map[string]string{HeaderAdminKey: "wrong"}).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/admin", nil).Code)

	// 未配置密钥时全部拒绝
	empty := gin.New()
	empty.GET("/admin", AdminAuth(""), handler)
	assert.Equal(t, http.StatusUnauthorized, doRequest(empty, http.MethodGet, "/admin", map[string]string{HeaderAdminKey: ""}).Code)
}

// ==================== RequestID / RequestLogger ====================

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxRequestID))
	})

	w := doRequest(r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Equal(t, w.Header().Get(HeaderRequestID), w.Body.String())

	w = doRequest(r, http.MethodGet, "/ping", map[string]string{HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

// ==================== 冷却限流 ====================

func TestSyncRateLimiter_Check(t *testing.T) {
	limiter := &SyncRateLimiter{}
	key := GlobalSyncKey(SyncTypeBulk)

	assert.True(t, limiter.CheckOnly(key, time.Minute).Allowed)
	assert.True(t, limiter.Check(key, time.Minute).Allowed)

	res := limiter.Check(key, time.Minute)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
	assert.False(t, limiter.CheckOnly(key, time.Minute).Allowed)

	limiter.Reset(key)
	assert.True(t, limiter.Check(key, time.Minute).Allowed)

	// 间隔为 0 时永远放行
	assert.True(t, limiter.Check("k0", 0).Allowed)
	assert.True(t, limiter.Check("k0", 0).Allowed)
}

func TestGlobalSyncRateLimit(t *testing.T) {
	ResetGlobalSyncLimit(SyncTypeBulk)
	t.Cleanup(func() { ResetGlobalSyncLimit(SyncTypeBulk) })

	r := gin.New()
	r.POST("/sync", GlobalSyncRateLimit(SyncTypeBulk, time.Hour), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/sync", nil).Code)

	w := doRequest(r, http.MethodPost, "/sync", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "cooling down")
}

func TestGlobalSyncRateLimit_FailureReleasesCooldown(t *testing.T) {
	ResetGlobalSyncLimit(SyncTypeBulk)
	t.Cleanup(func() { ResetGlobalSyncLimit(SyncTypeBulk) })

	status := http.StatusConflict
	r := gin.New()
	r.POST("/sync", GlobalSyncRateLimit(SyncTypeBulk, time.Hour), func(c *gin.Context) {
		c.Status(status)
	})

	assert.Equal(t, http.StatusConflict, doRequest(r, http.MethodPost, "/sync", nil).Code)
	assert.Zero(t, GlobalSyncCooldown(SyncTypeBulk, time.Hour))

	status = http.StatusOK
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/sync", nil).Code)
	assert.Greater(t, GlobalSyncCooldown(SyncTypeBulk, time.Hour), time.Duration(0))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, http.MethodPost, "/sync", nil).Code)
}

func TestSiteSyncRateLimit_FailureReleasesCooldown(t *testing.T) {
	status := http.StatusBadGateway
	r := gin.New()
	r.POST("/sites/:id/test", SiteSyncRateLimit(SyncTypeSiteTest, time.Hour), func(c *gin.Context) {
		c.Status(status)
	})
	t.Cleanup(func() { GetLimiter().Reset(SiteSyncKey("91", SyncTypeSiteTest)) })

	assert.Equal(t, http.StatusBadGateway, doRequest(r, http.MethodPost, "/sites/91/test", nil).Code)
	status = http.StatusOK
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/sites/91/test", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, http.MethodPost, "/sites/91/test", nil).Code)
}

func TestFormatRetryMessage(t *testing.T) {
	assert.Equal(t, "sync cooling down, retry in 30 seconds", formatRetryMessage(30*time.Second))
	assert.Equal(t, "sync cooling down, retry in 2 minutes", formatRetryMessage(2*time.Minute))
	assert.Equal(t, "sync cooling down, retry in 1m30s", formatRetryMessage(90*time.Second))
}
