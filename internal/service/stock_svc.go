package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wgss_stock_sync/internal/model"
	"wgss_stock_sync/internal/repository"
)

var (
	// ErrInsufficientStock 扣减后库存为负，操作在任何写入前中止
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrProductNotFound 中心下单扣减时 SKU 不在全局库存中
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrSKURequired     = errors.New("sku is required")
)

// ==================== 输入输出 ====================

// StockChangeInput reduce/restore 输入
type StockChangeInput struct {
	SKU       string
	Qty       int
	OrderID   string
	OriginURL string // 触发本次变更的站点，不参与扇出
}

// ManualUpdateInput 手动设置库存输入
type ManualUpdateInput struct {
	SKU       string
	Stock     int
	OriginURL string
}

// OrderDeductInput 中心下单扣减输入
type OrderDeductInput struct {
	SKU      string
	Quantity int
	OrderID  string
	SiteURL  string // 仅记录在事务日志中
}

// StockChangeResult 库存变更结果
type StockChangeResult struct {
	SKU      string      `json:"sku"`
	OldStock int         `json:"old_stock"`
	NewStock int         `json:"new_stock"`
	Skipped  bool        `json:"skipped"` // 非全局商品，未做任何变更
	Legs     []LegResult `json:"results,omitempty"`
}

// ==================== StockService 库存对账 ====================

// StockService 处理 reduce / restore / manual / order 四种库存变更
// 流程: 原子更新全局库存 -> 扇出到目标站点 -> 写事务日志
type StockService struct {
	productRepo repository.GlobalProductRepository
	logRepo     repository.SyncLogRepository
	sites       SiteDirectory
	pusher      StockPusher
	logger      *zap.Logger
}

func NewStockService(
	productRepo repository.GlobalProductRepository,
	logRepo repository.SyncLogRepository,
	sites SiteDirectory,
	pusher StockPusher,
	logger *zap.Logger,
) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		productRepo: productRepo,
		logRepo:     logRepo,
		sites:       sites,
		pusher:      pusher,
		logger:      logger.With(zap.String("component", "stock")),
	}
}

// operation 四种变更共用的执行描述
type operation struct {
	action        string
	source        string
	sku           string
	originURL     string
	orderID       string
	quantity      *int
	mutate        repository.StockMutator
	targets       func() []model.Site
	requireGlobal bool
}

// Reduce 站点售出后扣减全局库存，并同步到其他站点
func (s *StockService) Reduce(ctx context.Context, in StockChangeInput) (*StockChangeResult, error) {
	if in.Qty <= 0 {
		return nil, fmt.Errorf("%w: qty must be positive", ErrInvalidQuantity)
	}
	sku := strings.TrimSpace(in.SKU)
	return s.apply(ctx, operation{
		action:    model.SyncActionReduce,
		source:    model.SyncSourceWoo,
		sku:       sku,
		originURL: in.OriginURL,
		orderID:   in.OrderID,
		quantity:  model.IntPtr(in.Qty),
		mutate:    deduct(sku, in.Qty),
		targets:   func() []model.Site { return s.sites.GetOtherSites(in.OriginURL) },
	})
}

// Restore 站点取消/退款后归还库存，不做上限校验
func (s *StockService) Restore(ctx context.Context, in StockChangeInput) (*StockChangeResult, error) {
	if in.Qty <= 0 {
		return nil, fmt.Errorf("%w: qty must be positive", ErrInvalidQuantity)
	}
	return s.apply(ctx, operation{
		action:    model.SyncActionRestore,
		source:    model.SyncSourceWoo,
		sku:       strings.TrimSpace(in.SKU),
		originURL: in.OriginURL,
		orderID:   in.OrderID,
		quantity:  model.IntPtr(in.Qty),
		mutate: func(current int) (int, error) {
			return current + in.Qty, nil
		},
		targets: func() []model.Site { return s.sites.GetOtherSites(in.OriginURL) },
	})
}

// ManualUpdate 站点后台手动修改库存，按绝对值覆盖
func (s *StockService) ManualUpdate(ctx context.Context, in ManualUpdateInput) (*StockChangeResult, error) {
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrInvalidQuantity)
	}
	return s.apply(ctx, operation{
		action:    model.SyncActionManualUpdate,
		source:    model.SyncSourceWoo,
		sku:       strings.TrimSpace(in.SKU),
		originURL: in.OriginURL,
		quantity:  model.IntPtr(in.Stock),
		mutate: func(int) (int, error) {
			return in.Stock, nil
		},
		targets: func() []model.Site { return s.sites.GetOtherSites(in.OriginURL) },
	})
}

// OrderDeduct 中心下单扣减，推送到所有站点；SKU 不存在视为错误
func (s *StockService) OrderDeduct(ctx context.Context, in OrderDeductInput) (*StockChangeResult, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidQuantity)
	}
	sku := strings.TrimSpace(in.SKU)
	return s.apply(ctx, operation{
		action:        model.SyncActionOrderDeduct,
		source:        model.SyncSourceCentral,
		sku:           sku,
		originURL:     in.SiteURL,
		orderID:       in.OrderID,
		quantity:      model.IntPtr(in.Quantity),
		mutate:        deduct(sku, in.Quantity),
		targets:       s.sites.GetAllSites,
		requireGlobal: true,
	})
}

func deduct(sku string, qty int) repository.StockMutator {
	return func(current int) (int, error) {
		if current-qty < 0 {
			return 0, fmt.Errorf("%w: sku=%s current=%d requested=%d", ErrInsufficientStock, sku, current, qty)
		}
		return current - qty, nil
	}
}

func (s *StockService) apply(ctx context.Context, op operation) (*StockChangeResult, error) {
	if op.sku == "" {
		return nil, ErrSKURequired
	}

	oldStock, newStock, err := s.productRepo.AdjustStock(ctx, op.sku, op.mutate)
	if errors.Is(err, repository.ErrGlobalProductNotFound) {
		if op.requireGlobal {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, op.sku)
		}
		return s.skipNonGlobal(ctx, op)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("全局库存已更新",
		zap.String("action", op.action),
		zap.String("sku", op.sku),
		zap.Int("old_stock", oldStock),
		zap.Int("new_stock", newStock),
		zap.String("origin", op.originURL))

	// 扇出不随请求取消
	fanoutCtx := context.WithoutCancel(ctx)
	legs := s.pusher.PushStock(fanoutCtx, PushRequest{
		SKU:      op.sku,
		Stock:    newStock,
		Action:   op.action,
		Source:   model.SyncSourceFanout,
		OldStock: model.IntPtr(oldStock),
		Quantity: op.quantity,
		OrderID:  op.orderID,
	}, op.targets())

	entry := &model.StockSyncLog{
		ProductSKU: op.sku,
		SiteURL:    op.originURL,
		Action:     op.action,
		OldStock:   model.IntPtr(oldStock),
		NewStock:   model.IntPtr(newStock),
		Quantity:   op.quantity,
		OrderID:    op.orderID,
		Source:     op.source,
		Success:    true,
	}
	if err := s.logRepo.Create(fanoutCtx, entry); err != nil {
		// 库存已变更，日志失败只记录不返回
		s.logger.Error("写入事务日志失败", zap.String("sku", op.sku), zap.Error(err))
	}

	return &StockChangeResult{
		SKU:      op.sku,
		OldStock: oldStock,
		NewStock: newStock,
		Legs:     legs,
	}, nil
}

// skipNonGlobal 非全局商品：只写一条说明日志
func (s *StockService) skipNonGlobal(ctx context.Context, op operation) (*StockChangeResult, error) {
	entry := &model.StockSyncLog{
		ProductSKU:   op.sku,
		SiteURL:      op.originURL,
		Action:       op.action,
		Quantity:     op.quantity,
		OrderID:      op.orderID,
		Source:       op.source,
		Success:      true,
		ErrorMessage: model.NonGlobalProductMessage,
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("写入同步日志失败: %w", err)
	}

	s.logger.Debug("非全局商品，跳过", zap.String("action", op.action), zap.String("sku", op.sku))
	return &StockChangeResult{SKU: op.sku, Skipped: true}, nil
}
