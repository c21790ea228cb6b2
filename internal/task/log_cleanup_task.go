package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ==================== LogCleanupTask 同步日志清理 ====================

// LogCleanupTask 定期删除超过保留天数的库存同步日志
type LogCleanupTask struct {
	cleaner       LogCleaner
	spec          string
	retentionDays int
	cron          *cron.Cron
	logger        *zap.Logger
}

// NewLogCleanupTask 创建日志清理任务
func NewLogCleanupTask(cleaner LogCleaner, spec string, retentionDays int, logger *zap.Logger) *LogCleanupTask {
	return &LogCleanupTask{
		cleaner:       cleaner,
		spec:          spec,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithSeconds()),
		logger:        logger,
	}
}

// Start 启动定时任务
func (t *LogCleanupTask) Start() error {
	_, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		_, _ = t.RunNow(ctx)
	})
	if err != nil {
		return fmt.Errorf("日志清理 cron 表达式无效 %q: %w", t.spec, err)
	}
	t.cron.Start()
	t.logger.Info("日志清理任务已启动",
		zap.String("cron", t.spec),
		zap.Int("retention_days", t.retentionDays))
	return nil
}

// Stop 停止任务
func (t *LogCleanupTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.logger.Info("日志清理任务已停止")
}

// RunNow 立即执行一次清理
func (t *LogCleanupTask) RunNow(ctx context.Context) (int64, error) {
	deleted, err := t.cleaner.Cleanup(ctx, t.retentionDays)
	if err != nil {
		t.logger.Error("清理同步日志失败", zap.Error(err))
		return 0, err
	}
	if deleted > 0 {
		t.logger.Info("已清理过期同步日志", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}
