package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wgss_stock_sync/internal/model"
)

var (
	// ErrGlobalProductNotFound SKU 不在全局库存中
	ErrGlobalProductNotFound = errors.New("global product not found")
	// ErrStockConflict 条件更新未命中，库存已被并发修改
	ErrStockConflict = errors.New("stock changed concurrently")
)

// StockMutator 根据当前库存计算新库存，返回错误则放弃写入
type StockMutator func(current int) (int, error)

// ==================== 接口定义 ====================

// GlobalProductRepository 全局库存仓储接口
type GlobalProductRepository interface {
	GetBySKU(ctx context.Context, sku string) (*model.GlobalProduct, error)
	List(ctx context.Context, filter GlobalProductFilter) ([]model.GlobalProduct, int64, error)
	ListAfterID(ctx context.Context, afterID int64, limit int) ([]model.GlobalProduct, error)
	Upsert(ctx context.Context, product *model.GlobalProduct) error

	// AdjustStock 单 SKU 原子读-改-写，返回修改前后的库存
	AdjustStock(ctx context.Context, sku string, fn StockMutator) (oldStock, newStock int, err error)
}

// ==================== 过滤条件 ====================

// GlobalProductFilter 全局商品过滤条件
type GlobalProductFilter struct {
	Keyword  string // SKU 或名称模糊匹配
	Page     int
	PageSize int
}

// ==================== 仓储实现 ====================

type globalProductRepo struct {
	db *gorm.DB
}

// NewGlobalProductRepository 创建全局库存仓储
func NewGlobalProductRepository(db *gorm.DB) GlobalProductRepository {
	return &globalProductRepo{db: db}
}

func (r *globalProductRepo) GetBySKU(ctx context.Context, sku string) (*model.GlobalProduct, error) {
	var product model.GlobalProduct
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGlobalProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *globalProductRepo) List(ctx context.Context, filter GlobalProductFilter) ([]model.GlobalProduct, int64, error) {
	var products []model.GlobalProduct
	var total int64

	query := r.db.WithContext(ctx).Model(&model.GlobalProduct{})
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("sku LIKE ? OR product_name LIKE ?", like, like)
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

	err := query.Order("id ASC").Offset(offset).Limit(filter.PageSize).Find(&products).Error
	return products, total, err
}

// ListAfterID 按主键游标分页，用于全量遍历
func (r *globalProductRepo) ListAfterID(ctx context.Context, afterID int64, limit int) ([]model.GlobalProduct, error) {
	var products []model.GlobalProduct
	err := r.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// Upsert 按 SKU 插入或更新名称与库存
func (r *globalProductRepo) Upsert(ctx context.Context, product *model.GlobalProduct) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"product_name", "stock_quantity", "updated_at"}),
	}).Create(product).Error
}

// AdjustStock 在一个事务内锁定该 SKU 行，计算并条件写回
// PostgreSQL 下 FOR UPDATE 串行化同一 SKU 的并发修改；fn 返回错误时不发生任何写入
func (r *globalProductRepo) AdjustStock(ctx context.Context, sku string, fn StockMutator) (int, int, error) {
	var oldStock, newStock int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product model.GlobalProduct
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("sku = ?", sku).
			First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGlobalProductNotFound
		}
		if err != nil {
			return err
		}

		next, err := fn(product.StockQuantity)
		if err != nil {
			return err
		}

		result := tx.Model(&model.GlobalProduct{}).
			Where("sku = ? AND stock_quantity = ?", sku, product.StockQuantity).
			Update("stock_quantity", next)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: sku=%s", ErrStockConflict, sku)
		}

		oldStock, newStock = product.StockQuantity, next
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return oldStock, newStock, nil
}
