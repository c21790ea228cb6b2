package service

import (
	"context"
	"strings"

	"wgss_stock_sync/internal/api/dto"
	"wgss_stock_sync/internal/model"
	"wgss_stock_sync/internal/repository"
)

// ProductService 全局商品管理
type ProductService struct {
	repo        repository.GlobalProductRepository
	mappingRepo repository.MappingRepository
}

func NewProductService(repo repository.GlobalProductRepository, mappingRepo repository.MappingRepository) *ProductService {
	return &ProductService{repo: repo, mappingRepo: mappingRepo}
}

// List 分页查询全局商品
func (s *ProductService) List(ctx context.Context, req dto.ProductListReq) (*dto.PageResp, error) {
	list, total, err := s.repo.List(ctx, repository.GlobalProductFilter{
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &dto.PageResp{Total: total, Page: req.Page, PageSize: req.PageSize, List: list}, nil
}

// Upsert 将 SKU 纳入同步，或覆盖名称与库存
// 只改本地值，不触发推送；需要时由全量同步推到各站点
func (s *ProductService) Upsert(ctx context.Context, req dto.UpsertProductReq) (*model.GlobalProduct, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return nil, ErrSKURequired
	}
	p := &model.GlobalProduct{
		SKU:           sku,
		ProductName:   req.ProductName,
		StockQuantity: *req.StockQuantity,
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetBySKU(ctx, sku)
}

// Mappings SKU 在各站点的远程商品映射
func (s *ProductService) Mappings(ctx context.Context, sku string) ([]model.ProductSiteMapping, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, ErrSKURequired
	}
	return s.mappingRepo.ListBySKU(ctx, sku)
}
