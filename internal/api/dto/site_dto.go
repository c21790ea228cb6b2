package dto

import "time"

// ================== Site DTO ==================

// AddSiteReq 新增站点请求
type AddSiteReq struct {
	SiteURL        string `json:"site_url" binding:"required,url"`
	SiteName       string `json:"site_name"`
	APIKey         string `json:"api_key"`
	ConsumerKey    string `json:"consumer_key" binding:"required"`
	ConsumerSecret string `json:"consumer_secret" binding:"required"`
	IsPrimary      bool   `json:"is_primary"`
	IsActive       *bool  `json:"is_active"` // 缺省为启用
}

// SetSiteActiveReq 启用/停用站点
type SetSiteActiveReq struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SiteResp 站点响应（不含凭证）
type SiteResp struct {
	ID         int64      `json:"id"`
	SiteURL    string     `json:"site_url"`
	SiteName   string     `json:"site_name"`
	IsPrimary  bool       `json:"is_primary"`
	IsActive   bool       `json:"is_active"`
	HasAPIKey  bool       `json:"has_api_key"`
	SyncStatus string     `json:"sync_status"`
	LastSync   *time.Time `json:"last_sync"`
	CreatedAt  time.Time  `json:"created_at"`
}
