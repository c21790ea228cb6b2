package model

import (
	"time"
)

// Site 外部 WooCommerce 站点
type Site struct {
	BaseModel

	SiteURL  string `gorm:"size:255;uniqueIndex;not null;comment:站点地址" json:"site_url"`
	SiteName string `gorm:"size:128;comment:站点名称" json:"site_name"`

	// 凭证
	APIKey         string `gorm:"size:128;index;comment:入站同步 API Key" json:"-"`
	ConsumerKey    string `gorm:"size:128;comment:WooCommerce consumer key" json:"-"`
	ConsumerSecret string `gorm:"size:128;comment:WooCommerce consumer secret" json:"-"`

	// 标记
	IsPrimary bool `gorm:"default:false;comment:是否主站(仅参考)" json:"is_primary"`
	IsActive  bool `gorm:"index;comment:是否启用" json:"is_active"`

	// 同步状态
	SyncStatus string     `gorm:"size:16;default:pending;comment:最近同步状态" json:"sync_status"`
	LastSync   *time.Time `gorm:"comment:最近同步时间" json:"last_sync"`
}

func (Site) TableName() string {
	return "sites"
}

// ==================== 同步状态常量 ====================

const (
	SiteSyncPending = "pending"
	SiteSyncSuccess = "success"
	SiteSyncFailed  = "failed"
)
