package model

import (
	"time"

	"gorm.io/datatypes"
)

// BulkSyncRun 全量同步执行记录
type BulkSyncRun struct {
	ID         int64          `gorm:"primaryKey" json:"id"`
	Trigger    string         `gorm:"size:16;comment:触发方式(admin/cron)" json:"trigger"`
	Synced     int            `json:"synced"`
	Failed     int            `json:"failed"`
	Cancelled  bool           `gorm:"default:false;comment:是否中途停止" json:"cancelled"`
	Products   int            `json:"products"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Results    datatypes.JSON `gorm:"comment:逐商品逐站点结果" json:"results,omitempty"`
}

func (BulkSyncRun) TableName() string {
	return "bulk_sync_runs"
}

// AllModels 需要自动迁移的模型
func AllModels() []interface{} {
	return []interface{}{
		&Site{},
		&GlobalProduct{},
		&ProductSiteMapping{},
		&StockSyncLog{},
		&BulkSyncRun{},
	}
}
