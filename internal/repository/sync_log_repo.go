package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"wgss_stock_sync/internal/model"
)

// ==================== 接口定义 ====================

// SyncLogRepository 同步日志仓储接口（只追加）
type SyncLogRepository interface {
	Create(ctx context.Context, log *model.StockSyncLog) error
	List(ctx context.Context, filter SyncLogFilter) ([]model.StockSyncLog, int64, error)

	// DeleteBefore 日志保留期清理，返回删除行数
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// ==================== 过滤条件 ====================

// SyncLogFilter 同步日志过滤条件
type SyncLogFilter struct {
	SKU      string
	SiteURL  string
	Action   string
	Source   string
	Success  *bool // nil 表示不筛选
	Page     int
	PageSize int
}

// ==================== 仓储实现 ====================

type syncLogRepo struct {
	db *gorm.DB
}

// NewSyncLogRepository 创建同步日志仓储
func NewSyncLogRepository(db *gorm.DB) SyncLogRepository {
	return &syncLogRepo{db: db}
}

func (r *syncLogRepo) Create(ctx context.Context, log *model.StockSyncLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *syncLogRepo) List(ctx context.Context, filter SyncLogFilter) ([]model.StockSyncLog, int64, error) {
	var logs []model.StockSyncLog
	var total int64

	query := r.db.WithContext(ctx).Model(&model.StockSyncLog{})
	if filter.SKU != "" {
		query = query.Where("product_sku = ?", filter.SKU)
	}
	if filter.SiteURL != "" {
		query = query.Where("site_url = ?", filter.SiteURL)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.Success != nil {
		query = query.Where("success = ?", *filter.Success)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	err := query.Order("id DESC").Offset(offset).Limit(filter.PageSize).Find(&logs).Error
	return logs, total, err
}

func (r *syncLogRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&model.StockSyncLog{})
	return result.RowsAffected, result.Error
}
