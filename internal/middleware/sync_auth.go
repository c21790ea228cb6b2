package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"wgss_stock_sync/internal/model"
)

// ==================== 请求头 ====================

const (
	HeaderAPIKey   = "x-wgss-api-key"
	HeaderSource   = "x-wgss-source"
	HeaderSite     = "x-wgss-site"
	HeaderAdminKey = "x-admin-key"

	// SourceWoo x-wgss-source 的合法取值
	SourceWoo = "woo"
)

// ==================== 上下文 Key ====================

const (
	CtxOriginSiteURL = "origin_site_url"
	CtxAuthMethod    = "auth_method"
)

// 鉴权方式
const (
	AuthMethodAPIKey = "api_key"
	AuthMethodSource = "source_site"
	AuthMethodAdmin  = "admin_key"
)

// SiteAuthenticator 入站同步请求的站点校验（由 site.Registry 实现）
type SiteAuthenticator interface {
	AuthenticateAPIKey(apiKey string) (*model.Site, bool)
	LookupSite(siteURL string) (*model.Site, bool)
}

// SyncAuth 入站同步鉴权
// 两种方式任一通过即可：
//   - x-wgss-api-key 匹配某个启用站点的 api_key
//   - x-wgss-source: woo 且 x-wgss-site 是已注册站点
//
// adminActions 中的 action 额外接受 x-admin-key（中心下单）
func SyncAuth(auth SiteAuthenticator, adminSecret string, adminActions ...string) gin.HandlerFunc {
	allowAdmin := make(map[string]bool, len(adminActions))
	for _, a := range adminActions {
		allowAdmin[a] = true
	}

	return func(c *gin.Context) {
		siteHeader := c.GetHeader(HeaderSite)

		if site, ok := auth.AuthenticateAPIKey(c.GetHeader(HeaderAPIKey)); ok {
			origin := site.SiteURL
			// x-wgss-site 仅在指向已注册站点时覆盖来源
			if siteHeader != "" {
				if declared, ok := auth.LookupSite(siteHeader); ok {
					origin = declared.SiteURL
				}
			}
			c.Set(CtxOriginSiteURL, origin)
			c.Set(CtxAuthMethod, AuthMethodAPIKey)
			c.Next()
			return
		}

		if c.GetHeader(HeaderSource) == SourceWoo && siteHeader != "" {
			if site, ok := auth.LookupSite(siteHeader); ok {
				c.Set(CtxOriginSiteURL, site.SiteURL)
				c.Set(CtxAuthMethod, AuthMethodSource)
				c.Next()
				return
			}
		}

		if allowAdmin[c.Param("action")] && checkAdminKey(adminSecret, c.GetHeader(HeaderAdminKey)) {
			c.Set(CtxAuthMethod, AuthMethodAdmin)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}

// AdminAuth 管理接口鉴权，x-admin-key 必须等于配置的密钥
// 未配置密钥时拒绝所有请求
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !checkAdminKey(secret, c.GetHeader(HeaderAdminKey)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(CtxAuthMethod, AuthMethodAdmin)
		c.Next()
	}
}

func checkAdminKey(secret, got string) bool {
	if secret == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(got)) == 1
}
