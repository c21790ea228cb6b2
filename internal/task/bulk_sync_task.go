package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"wgss_stock_sync/internal/model"
)

// ==================== BulkSyncTask 定时全量同步 ====================

// BulkSyncTask 按 cron 把全局库存推送到所有站点
// 上一次还未结束时跳过本次
type BulkSyncTask struct {
	runner  BulkRunner
	spec    string
	timeout time.Duration
	cron    *cron.Cron
	logger  *zap.Logger
}

// NewBulkSyncTask 创建全量同步任务
func NewBulkSyncTask(runner BulkRunner, spec string, timeout time.Duration, logger *zap.Logger) *BulkSyncTask {
	if timeout <= 0 {
		timeout = 2 * time.Hour
	}
	return &BulkSyncTask{
		runner:  runner,
		spec:    spec,
		timeout: timeout,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger,
	}
}

// Start 启动定时任务
func (t *BulkSyncTask) Start() error {
	if _, err := t.cron.AddFunc(t.spec, t.runOnce); err != nil {
		return fmt.Errorf("全量同步 cron 表达式无效 %q: %w", t.spec, err)
	}
	t.cron.Start()
	t.logger.Info("全量同步任务已启动", zap.String("cron", t.spec))
	return nil
}

// Stop 停止任务
func (t *BulkSyncTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.logger.Info("全量同步任务已停止")
}

func (t *BulkSyncTask) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	result, err := t.runner.Run(ctx, model.SyncSourceCron)
	if err != nil {
		if isOverlap(err) {
			t.logger.Warn("上一次全量同步仍在执行，跳过")
			return
		}
		t.logger.Error("定时全量同步失败", zap.Error(err))
		return
	}
	t.logger.Info("定时全量同步完成",
		zap.Int("synced", result.Synced),
		zap.Int("failed", result.Failed),
		zap.Int("products", len(result.Products)))
}
