package model

import "time"

// StockSyncLog 库存同步日志（只追加）
// 每次操作写一条事务行，每个扇出站点再各写一条
type StockSyncLog struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	ProductSKU   string    `gorm:"column:product_sku;size:100;index" json:"product_sku"`
	SiteURL      string    `gorm:"size:255;index" json:"site_url"`
	Action       string    `gorm:"size:32;index" json:"action"`
	OldStock     *int      `json:"old_stock"`
	NewStock     *int      `json:"new_stock"`
	Quantity     *int      `json:"quantity"`
	OrderID      string    `gorm:"size:64" json:"order_id"`
	Source       string    `gorm:"size:32;index" json:"source"`
	Success      bool      `gorm:"index" json:"success"`
	ErrorMessage string    `gorm:"size:1024" json:"error_message"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (StockSyncLog) TableName() string {
	return "stock_sync_logs"
}

// ==================== 动作常量 ====================

const (
	SyncActionReduce       = "reduce"
	SyncActionRestore      = "restore"
	SyncActionManualUpdate = "manual_update"
	SyncActionOrderDeduct  = "order_deduct"
	SyncActionBulkSync     = "bulk_sync"
)

// ==================== 来源常量 ====================

const (
	SyncSourceWoo     = "woo"     // 站点回调触发
	SyncSourceCentral = "central" // 中心下单触发
	SyncSourceFanout  = "fanout"  // 扇出推送
	SyncSourceAdmin   = "admin"   // 管理员全量同步
	SyncSourceCron    = "cron"    // 定时全量同步
)

// NonGlobalProductMessage 非全局商品跳过时写入的说明
const NonGlobalProductMessage = "non-global product, no action taken"

// IntPtr 便于构造可空整型字段
func IntPtr(v int) *int {
	return &v
}
