package task

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"wgss_stock_sync/internal/service"
)

// ==================== TaskManager 定时任务管理器 ====================

// BulkRunner 全量同步（由 service.BulkSyncService 实现）
type BulkRunner interface {
	Run(ctx context.Context, trigger string) (*service.BulkSyncResult, error)
}

// LogCleaner 同步日志清理（由 service.SyncLogService 实现）
type LogCleaner interface {
	Cleanup(ctx context.Context, retentionDays int) (int64, error)
}

// TaskManager 统一管理后台定时任务
type TaskManager struct {
	bulkTask    *BulkSyncTask
	cleanupTask *LogCleanupTask
	logger      *zap.Logger
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	Bulk    BulkRunner
	Cleaner LogCleaner
	Logger  *zap.Logger
}

// TaskManagerConfig 任务管理器配置，cron 表达式为空表示关闭
type TaskManagerConfig struct {
	BulkSyncCron     string
	BulkSyncTimeout  time.Duration
	LogCleanupCron   string
	LogRetentionDays int
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		BulkSyncTimeout:  2 * time.Hour,
		LogCleanupCron:   "0 30 3 * * *",
		LogRetentionDays: 90,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "task"))

	tm := &TaskManager{logger: logger}

	if cfg.BulkSyncCron != "" && deps.Bulk != nil {
		tm.bulkTask = NewBulkSyncTask(deps.Bulk, cfg.BulkSyncCron, cfg.BulkSyncTimeout, logger)
	}

	if cfg.LogCleanupCron != "" && cfg.LogRetentionDays > 0 && deps.Cleaner != nil {
		tm.cleanupTask = NewLogCleanupTask(deps.Cleaner, cfg.LogCleanupCron, cfg.LogRetentionDays, logger)
	}

	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务，cron 表达式非法时返回错误
func (tm *TaskManager) Start() error {
	tm.logger.Info("正在启动定时任务")

	if tm.bulkTask != nil {
		if err := tm.bulkTask.Start(); err != nil {
			return err
		}
	}
	if tm.cleanupTask != nil {
		if err := tm.cleanupTask.Start(); err != nil {
			tm.Stop()
			return err
		}
	}

	tm.logger.Info("定时任务已启动", zap.Any("status", tm.Status()))
	return nil
}

// Stop 停止所有任务，等待执行中的任务结束
func (tm *TaskManager) Stop() {
	if tm.bulkTask != nil {
		tm.bulkTask.Stop()
	}
	if tm.cleanupTask != nil {
		tm.cleanupTask.Stop()
	}
	tm.logger.Info("定时任务已全部停止")
}

// ==================== 手动触发接口 ====================

// TriggerLogCleanup 立即清理一次同步日志
func (tm *TaskManager) TriggerLogCleanup(ctx context.Context) (int64, error) {
	if tm.cleanupTask == nil {
		return 0, ErrTaskDisabled
	}
	return tm.cleanupTask.RunNow(ctx)
}

// ==================== 状态查询 ====================

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"bulk_sync":   tm.bulkTask != nil,
		"log_cleanup": tm.cleanupTask != nil,
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)

// isOverlap 全量同步仍在执行
func isOverlap(err error) bool {
	return errors.Is(err, service.ErrBulkSyncRunning)
}
