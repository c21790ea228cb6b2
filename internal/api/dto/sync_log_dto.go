package dto

// ================== StockSyncLog DTO ==================

// SyncLogListReq 同步日志查询
type SyncLogListReq struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
	SKU      string `form:"sku"`
	SiteURL  string `form:"site_url"`
	Action   string `form:"action"`
	Source   string `form:"source"`
	Success  *bool  `form:"success"`
}

// SyncLogCleanupReq 手动清理，retention_days 为空时使用配置值
type SyncLogCleanupReq struct {
	RetentionDays int `form:"retention_days" binding:"omitempty,gte=1"`
}

// SyncStatusResp 全量同步状态
type SyncStatusResp struct {
	Running         bool        `json:"running"`
	CooldownSeconds int         `json:"cooldown_seconds"`
	LatestRun       interface{} `json:"latest_run"`
}

// PageResp 通用分页响应
type PageResp struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	List     interface{} `json:"list"`
}
