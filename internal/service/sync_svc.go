package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"wgss_stock_sync/internal/model"
	"wgss_stock_sync/internal/repository"
	"wgss_stock_sync/pkg/woo"
)

// ErrSKUMismatch 远程站点上找不到该 SKU
var ErrSKUMismatch = errors.New("SKU mismatch: product not found on remote site")

// ErrNoSiteClient 站点不在注册表缓存中
var ErrNoSiteClient = errors.New("no client registered for site")

// SiteDirectory 站点查询（由 site.Registry 实现）
type SiteDirectory interface {
	GetClient(siteURL string) (woo.Client, bool)
	GetAllSites() []model.Site
	GetOtherSites(excludeURL string) []model.Site
}

// StockPusher 将库存推送到一组站点
type StockPusher interface {
	PushStock(ctx context.Context, req PushRequest, targets []model.Site) []LegResult
}

// PushRequest 一次扇出推送
type PushRequest struct {
	SKU         string
	ProductName string
	Stock       int // 推送的目标库存

	// 日志字段
	Action   string
	Source   string
	OldStock *int
	Quantity *int
	OrderID  string

	// CreateMissing 远程不存在时创建商品（全量同步使用）
	CreateMissing bool
}

// LegResult 单个站点的推送结果
type LegResult struct {
	SiteID       int64  `json:"site_id"`
	SiteURL      string `json:"site_url"`
	WooProductID int64  `json:"woo_product_id,omitempty"`
	Created      bool   `json:"created,omitempty"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

// ==================== SyncService 扇出推送 ====================

// SyncService 并发推送库存到多个站点
// 每个站点独立成败：失败只记录在结果和日志里，不影响其他站点
type SyncService struct {
	sites       SiteDirectory
	mappingRepo repository.MappingRepository
	siteRepo    repository.SiteRepository
	logRepo     repository.SyncLogRepository
	logger      *zap.Logger
	concurrency int
	now         func() time.Time
}

var _ StockPusher = (*SyncService)(nil)

func NewSyncService(
	sites SiteDirectory,
	mappingRepo repository.MappingRepository,
	siteRepo repository.SiteRepository,
	logRepo repository.SyncLogRepository,
	logger *zap.Logger,
	concurrency int,
) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &SyncService{
		sites:       sites,
		mappingRepo: mappingRepo,
		siteRepo:    siteRepo,
		logRepo:     logRepo,
		logger:      logger.With(zap.String("component", "stock_fanout")),
		concurrency: concurrency,
		now:         time.Now,
	}
}

// PushStock 并发推送并等待全部站点结束，结果按站点 URL 排序
func (s *SyncService) PushStock(ctx context.Context, req PushRequest, targets []model.Site) []LegResult {
	if len(targets) == 0 {
		return nil
	}
	if req.Source == "" {
		req.Source = model.SyncSourceFanout
	}

	p := pool.NewWithResults[LegResult]().WithMaxGoroutines(s.concurrency)
	for _, target := range targets {
		p.Go(func() LegResult {
			return s.pushLeg(ctx, req, target)
		})
	}
	results := p.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].SiteURL < results[j].SiteURL })
	return results
}

func (s *SyncService) pushLeg(ctx context.Context, req PushRequest, target model.Site) LegResult {
	res := LegResult{SiteID: target.ID, SiteURL: target.SiteURL}

	client, ok := s.sites.GetClient(target.SiteURL)
	if !ok {
		return s.finishLeg(ctx, req, target, res, ErrNoSiteClient)
	}

	productID, created, err := s.EnsureRemoteProduct(ctx, target, client, req)
	if err != nil {
		return s.finishLeg(ctx, req, target, res, err)
	}
	res.WooProductID = productID
	res.Created = created

	if _, err := client.UpdateStock(ctx, productID, req.Stock); err != nil {
		if isRemoteNotFound(err) {
			// 远程商品已删除，下次重新按 SKU 查找
			if derr := s.mappingRepo.Delete(ctx, req.SKU, target.ID); derr != nil {
				s.logger.Warn("删除失效映射失败", zap.String("sku", req.SKU), zap.Int64("site_id", target.ID), zap.Error(derr))
			}
		}
		return s.finishLeg(ctx, req, target, res, fmt.Errorf("推送库存失败: %w", err))
	}

	if err := s.mappingRepo.Touch(ctx, req.SKU, target.ID, s.now()); err != nil {
		s.logger.Warn("更新映射同步时间失败", zap.String("sku", req.SKU), zap.Int64("site_id", target.ID), zap.Error(err))
	}

	res.Success = true
	return s.finishLeg(ctx, req, target, res, nil)
}

// EnsureRemoteProduct 解析远程商品 ID
// 优先使用已缓存的映射；否则按 SKU 查询远程站点并缓存映射，
// 查不到时按 req.CreateMissing 决定创建或返回 ErrSKUMismatch
func (s *SyncService) EnsureRemoteProduct(ctx context.Context, target model.Site, client woo.Client, req PushRequest) (int64, bool, error) {
	mapping, err := s.mappingRepo.Get(ctx, req.SKU, target.ID)
	if err != nil {
		return 0, false, fmt.Errorf("读取映射失败: %w", err)
	}
	if mapping != nil {
		return mapping.WooProductID, false, nil
	}

	product, err := client.FindProductBySKU(ctx, req.SKU)
	if err != nil {
		return 0, false, err
	}

	created := false
	if product == nil {
		if !req.CreateMissing {
			return 0, false, ErrSKUMismatch
		}
		name := req.ProductName
		if name == "" {
			name = req.SKU
		}
		product, err = client.CreateProduct(ctx, woo.CreateProductReq{
			Name:          name,
			SKU:           req.SKU,
			StockQuantity: req.Stock,
		})
		if err != nil {
			return 0, false, fmt.Errorf("创建远程商品失败: %w", err)
		}
		created = true
	}

	now := s.now()
	if err := s.mappingRepo.Upsert(ctx, &model.ProductSiteMapping{
		ProductSKU:   req.SKU,
		SiteID:       target.ID,
		WooProductID: product.ID,
		LastSynced:   &now,
	}); err != nil {
		s.logger.Warn("保存映射失败", zap.String("sku", req.SKU), zap.Int64("site_id", target.ID), zap.Error(err))
	}
	return product.ID, created, nil
}

func isRemoteNotFound(err error) bool {
	var apiErr *woo.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// finishLeg 更新站点同步状态并写入该站点的日志行
func (s *SyncService) finishLeg(ctx context.Context, req PushRequest, target model.Site, res LegResult, legErr error) LegResult {
	status := model.SiteSyncSuccess
	if legErr != nil {
		res.Success = false
		res.Error = legErr.Error()
		status = model.SiteSyncFailed
		s.logger.Warn("站点推送失败",
			zap.String("sku", req.SKU),
			zap.String("site_url", target.SiteURL),
			zap.Error(legErr))
	}

	if err := s.siteRepo.UpdateSyncStatus(ctx, target.ID, status, s.now()); err != nil {
		s.logger.Error("更新站点同步状态失败", zap.Int64("site_id", target.ID), zap.Error(err))
	}

	stock := req.Stock
	entry := &model.StockSyncLog{
		ProductSKU:   req.SKU,
		SiteURL:      target.SiteURL,
		Action:       req.Action,
		OldStock:     req.OldStock,
		NewStock:     &stock,
		Quantity:     req.Quantity,
		OrderID:      req.OrderID,
		Source:       req.Source,
		Success:      res.Success,
		ErrorMessage: res.Error,
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Error("写入同步日志失败", zap.String("sku", req.SKU), zap.String("site_url", target.SiteURL), zap.Error(err))
	}
	return res
}
