package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"wgss_stock_sync/internal/model"
	"wgss_stock_sync/internal/repository"
)

// ErrBulkSyncRunning 已有全量同步在执行
var ErrBulkSyncRunning = errors.New("bulk sync already running")

// ProductSyncResult 单个商品在各站点的同步结果
type ProductSyncResult struct {
	SKU         string      `json:"sku"`
	ProductName string      `json:"product_name"`
	Stock       int         `json:"stock"`
	Sites       []LegResult `json:"sites"`
}

// BulkSyncResult 全量同步结果，synced/failed 按站点计数
type BulkSyncResult struct {
	RunID      int64               `json:"run_id,omitempty"`
	Trigger    string              `json:"trigger"`
	Synced     int                 `json:"synced"`
	Failed     int                 `json:"failed"`
	Cancelled  bool                `json:"cancelled,omitempty"`
	Products   []ProductSyncResult `json:"results"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
}

// ==================== BulkSyncService 全量同步 ====================

// BulkSyncService 遍历所有全局商品，推送到所有站点（远程不存在则创建）
type BulkSyncService struct {
	productRepo repository.GlobalProductRepository
	runRepo     repository.BulkSyncRunRepository
	sites       SiteDirectory
	pusher      StockPusher
	batchSize   int
	logger      *zap.Logger

	running atomic.Bool
}

func NewBulkSyncService(
	productRepo repository.GlobalProductRepository,
	runRepo repository.BulkSyncRunRepository,
	sites SiteDirectory,
	pusher StockPusher,
	batchSize int,
	logger *zap.Logger,
) *BulkSyncService {
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkSyncService{
		productRepo: productRepo,
		runRepo:     runRepo,
		sites:       sites,
		pusher:      pusher,
		batchSize:   batchSize,
		logger:      logger.With(zap.String("component", "bulk_sync")),
	}
}

// Running 是否正在执行
func (s *BulkSyncService) Running() bool {
	return s.running.Load()
}

// Run 执行一次全量同步
// trigger: admin / cron，同时作为站点日志的 source
// ctx 只在批次之间检查；已开始的推送、日志与执行记录使用不可取消的 ctx 完成
func (s *BulkSyncService) Run(ctx context.Context, trigger string) (*BulkSyncResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrBulkSyncRunning
	}
	defer s.running.Store(false)

	workCtx := context.WithoutCancel(ctx)
	result := &BulkSyncResult{
		Trigger:   trigger,
		Products:  []ProductSyncResult{},
		StartedAt: time.Now(),
	}
	sites := s.sites.GetAllSites()
	s.logger.Info("开始全量同步", zap.String("trigger", trigger), zap.Int("sites", len(sites)))

	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			s.abort(workCtx, result)
			return nil, fmt.Errorf("全量同步被取消: %w", err)
		}

		batch, err := s.productRepo.ListAfterID(workCtx, afterID, s.batchSize)
		if err != nil {
			s.abort(workCtx, result)
			return nil, fmt.Errorf("读取全局商品失败: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, p := range batch {
			legs := s.pusher.PushStock(workCtx, PushRequest{
				SKU:           p.SKU,
				ProductName:   p.ProductName,
				Stock:         p.StockQuantity,
				Action:        model.SyncActionBulkSync,
				Source:        trigger,
				OldStock:      model.IntPtr(p.StockQuantity),
				CreateMissing: true,
			}, sites)

			for _, leg := range legs {
				if leg.Success {
					result.Synced++
				} else {
					result.Failed++
				}
			}
			if legs == nil {
				legs = []LegResult{}
			}
			result.Products = append(result.Products, ProductSyncResult{
				SKU:         p.SKU,
				ProductName: p.ProductName,
				Stock:       p.StockQuantity,
				Sites:       legs,
			})
		}

		afterID = batch[len(batch)-1].ID
		if len(batch) < s.batchSize {
			break
		}
	}

	result.FinishedAt = time.Now()
	s.saveRun(workCtx, result)

	s.logger.Info("全量同步完成",
		zap.String("trigger", trigger),
		zap.Int("products", len(result.Products)),
		zap.Int("synced", result.Synced),
		zap.Int("failed", result.Failed),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))
	return result, nil
}

// abort 中途停止时保存已完成部分
func (s *BulkSyncService) abort(ctx context.Context, result *BulkSyncResult) {
	if len(result.Products) == 0 {
		return
	}
	result.Cancelled = true
	result.FinishedAt = time.Now()
	s.saveRun(ctx, result)
	s.logger.Warn("全量同步中途停止",
		zap.String("trigger", result.Trigger),
		zap.Int64("run_id", result.RunID),
		zap.Int("products", len(result.Products)))
}

func (s *BulkSyncService) saveRun(ctx context.Context, result *BulkSyncResult) {
	if s.runRepo == nil {
		return
	}
	payload, err := json.Marshal(result.Products)
	if err != nil {
		s.logger.Error("序列化同步结果失败", zap.Error(err))
		return
	}

	run := &model.BulkSyncRun{
		Trigger:    result.Trigger,
		Synced:     result.Synced,
		Failed:     result.Failed,
		Cancelled:  result.Cancelled,
		Products:   len(result.Products),
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Results:    payload,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Error("保存全量同步记录失败", zap.Error(err))
		return
	}
	result.RunID = run.ID
}

// ListRuns 最近的全量同步记录
func (s *BulkSyncService) ListRuns(ctx context.Context, limit int) ([]model.BulkSyncRun, error) {
	return s.runRepo.List(ctx, limit)
}

// LatestRun 最近一次执行记录，从未执行过时返回 nil
func (s *BulkSyncService) LatestRun(ctx context.Context) (*model.BulkSyncRun, error) {
	return s.runRepo.Latest(ctx)
}
