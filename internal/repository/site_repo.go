package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"wgss_stock_sync/internal/model"
)

// ==================== 接口定义 ====================

// SiteRepository 站点仓储接口
type SiteRepository interface {
	Create(ctx context.Context, site *model.Site) error
	GetByID(ctx context.Context, id int64) (*model.Site, error)
	GetByURL(ctx context.Context, siteURL string) (*model.Site, error)

	// 列表查询
	List(ctx context.Context) ([]model.Site, error)
	ListActive(ctx context.Context) ([]model.Site, error)

	// 状态相关
	UpdateSyncStatus(ctx context.Context, id int64, status string, at time.Time) error
	SetActive(ctx context.Context, id int64, active bool) error
	ClearPrimary(ctx context.Context) error
}

// ==================== 仓储实现 ====================

type siteRepo struct {
	db *gorm.DB
}

// NewSiteRepository 创建站点仓储
func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepo{db: db}
}

func (r *siteRepo) Create(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *siteRepo) GetByID(ctx context.Context, id int64) (*model.Site, error) {
	var site model.Site
	if err := r.db.WithContext(ctx).First(&site, id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) GetByURL(ctx context.Context, siteURL string) (*model.Site, error) {
	var site model.Site
	if err := r.db.WithContext(ctx).Where("site_url = ?", siteURL).First(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) List(ctx context.Context) ([]model.Site, error) {
	var sites []model.Site
	err := r.db.WithContext(ctx).Order("id ASC").Find(&sites).Error
	return sites, err
}

func (r *siteRepo) ListActive(ctx context.Context) ([]model.Site, error) {
	var sites []model.Site
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&sites).Error
	return sites, err
}

func (r *siteRepo) UpdateSyncStatus(ctx context.Context, id int64, status string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Site{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"sync_status": status,
			"last_sync":   at,
		}).Error
}

func (r *siteRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Site{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

// ClearPrimary 取消所有站点的主站标记
// 与随后的插入不在同一事务中，主站唯一性只是尽力保证
func (r *siteRepo) ClearPrimary(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.Site{}).
		Where("is_primary = ?", true).
		Update("is_primary", false).Error
}
