package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wgss_stock_sync/internal/model"
)

// BulkSyncRunRepository 全量同步记录仓储接口
type BulkSyncRunRepository interface {
	Create(ctx context.Context, run *model.BulkSyncRun) error
	List(ctx context.Context, limit int) ([]model.BulkSyncRun, error)
	// Latest 不存在时返回 nil, nil
	Latest(ctx context.Context) (*model.BulkSyncRun, error)
}

type bulkSyncRunRepo struct {
	db *gorm.DB
}

// NewBulkSyncRunRepository 创建全量同步记录仓储
func NewBulkSyncRunRepository(db *gorm.DB) BulkSyncRunRepository {
	return &bulkSyncRunRepo{db: db}
}

func (r *bulkSyncRunRepo) Create(ctx context.Context, run *model.BulkSyncRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// List 最近的执行记录，不含明细
func (r *bulkSyncRunRepo) List(ctx context.Context, limit int) ([]model.BulkSyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []model.BulkSyncRun
	err := r.db.WithContext(ctx).
		Omit("results").
		Order("id DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

func (r *bulkSyncRunRepo) Latest(ctx context.Context) (*model.BulkSyncRun, error) {
	var run model.BulkSyncRun
	err := r.db.WithContext(ctx).
		Omit("results").
		Order("id DESC").
		Take(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
