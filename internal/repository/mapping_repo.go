package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wgss_stock_sync/internal/model"
)

// ==================== 接口定义 ====================

// MappingRepository SKU 与远程商品映射仓储接口
type MappingRepository interface {
	// Get 不存在时返回 nil, nil
	Get(ctx context.Context, sku string, siteID int64) (*model.ProductSiteMapping, error)
	Upsert(ctx context.Context, mapping *model.ProductSiteMapping) error
	Touch(ctx context.Context, sku string, siteID int64, at time.Time) error
	ListBySKU(ctx context.Context, sku string) ([]model.ProductSiteMapping, error)
	Delete(ctx context.Context, sku string, siteID int64) error
	DeleteBySite(ctx context.Context, siteID int64) error
}

// ==================== 仓储实现 ====================

type mappingRepo struct {
	db *gorm.DB
}

// NewMappingRepository 创建映射仓储
func NewMappingRepository(db *gorm.DB) MappingRepository {
	return &mappingRepo{db: db}
}

func (r *mappingRepo) Get(ctx context.Context, sku string, siteID int64) (*model.ProductSiteMapping, error) {
	var mapping model.ProductSiteMapping
	err := r.db.WithContext(ctx).
		Where("product_sku = ? AND site_id = ?", sku, siteID).
		First(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// Upsert 以 (product_sku, site_id) 为唯一键，重复发现时覆盖远程 ID
func (r *mappingRepo) Upsert(ctx context.Context, mapping *model.ProductSiteMapping) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_sku"}, {Name: "site_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"woo_product_id", "last_synced"}),
	}).Create(mapping).Error
}

func (r *mappingRepo) Touch(ctx context.Context, sku string, siteID int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.ProductSiteMapping{}).
		Where("product_sku = ? AND site_id = ?", sku, siteID).
		Update("last_synced", at).Error
}

func (r *mappingRepo) ListBySKU(ctx context.Context, sku string) ([]model.ProductSiteMapping, error) {
	var mappings []model.ProductSiteMapping
	err := r.db.WithContext(ctx).
		Where("product_sku = ?", sku).
		Order("site_id ASC").
		Find(&mappings).Error
	return mappings, err
}

func (r *mappingRepo) Delete(ctx context.Context, sku string, siteID int64) error {
	return r.db.WithContext(ctx).
		Where("product_sku = ? AND site_id = ?", sku, siteID).
		Delete(&model.ProductSiteMapping{}).Error
}

func (r *mappingRepo) DeleteBySite(ctx context.Context, siteID int64) error {
	return r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Delete(&model.ProductSiteMapping{}).Error
}
