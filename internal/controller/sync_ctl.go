package controller

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wgss_stock_sync/internal/api/dto"
	"wgss_stock_sync/internal/model"
	"wgss_stock_sync/internal/service"
)

// BulkSyncer 全量同步（由 service.BulkSyncService 实现）
type BulkSyncer interface {
	Run(ctx context.Context, trigger string) (*service.BulkSyncResult, error)
	Running() bool
	ListRuns(ctx context.Context, limit int) ([]model.BulkSyncRun, error)
	LatestRun(ctx context.Context) (*model.BulkSyncRun, error)
}

// SyncLogQuerier 同步日志查询与清理（由 service.SyncLogService 实现）
type SyncLogQuerier interface {
	List(ctx context.Context, req dto.SyncLogListReq) (*dto.PageResp, error)
	Cleanup(ctx context.Context, retentionDays int) (int64, error)
}

// SyncOptions 同步控制器配置
type SyncOptions struct {
	LogRetentionDays int
	// Cooldown 返回全量同步剩余冷却时间
	Cooldown func() time.Duration
}

type SyncController struct {
	bulk BulkSyncer
	logs SyncLogQuerier
	opts SyncOptions
}

func NewSyncController(bulk BulkSyncer, logs SyncLogQuerier, opts SyncOptions) *SyncController {
	return &SyncController{bulk: bulk, logs: logs, opts: opts}
}

// ==================== 全量同步 ====================

// RunBulkSync 手动触发全量同步
// @Summary 把所有全局商品库存推送到所有站点
// @Tags Sync
// @Param x-admin-key header string true "管理密钥"
// @Success 200 {object} service.BulkSyncResult
// @Failure 409 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /api/admin/sync [post]
func (ctrl *SyncController) RunBulkSync(c *gin.Context) {
	result, err := ctrl.bulk.Run(c.Request.Context(), model.SyncSourceAdmin)
	if err != nil {
		if errors.Is(err, service.ErrBulkSyncRunning) {
			fail(c, http.StatusConflict, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"synced":  result.Synced,
		"failed":  result.Failed,
		"run_id":  result.RunID,
		"results": result.Products,
	})
}

// ListRuns 最近的全量同步记录
// @Summary 全量同步历史
// @Tags Sync
// @Param limit query int false "条数" default(20)
// @Router /api/admin/sync/runs [get]
func (ctrl *SyncController) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	runs, err := ctrl.bulk.ListRuns(c.Request.Context(), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, runs)
}

// Status 全量同步状态
// @Summary 全量同步是否在执行、剩余冷却与最近一次记录
// @Tags Sync
// @Success 200 {object} dto.SyncStatusResp
// @Router /api/admin/sync/status [get]
func (ctrl *SyncController) Status(c *gin.Context) {
	latest, err := ctrl.bulk.LatestRun(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp := dto.SyncStatusResp{Running: ctrl.bulk.Running()}
	if latest != nil {
		resp.LatestRun = latest
	}
	if ctrl.opts.Cooldown != nil {
		resp.CooldownSeconds = int(math.Ceil(ctrl.opts.Cooldown().Seconds()))
	}
	ok(c, resp)
}

// ==================== 同步日志 ====================

// ListLogs 库存事务日志
// @Summary 分页查询库存同步日志
// @Tags Sync
// @Param sku query string false "SKU"
// @Param site_url query string false "站点"
// @Param action query string false "reduce/restore/manual_update/order_deduct/bulk_sync"
// @Param source query string false "woo/central/fanout/admin/cron"
// @Param success query bool false "是否成功"
// @Success 200 {object} dto.PageResp
// @Router /api/admin/sync-logs [get]
func (ctrl *SyncController) ListLogs(c *gin.Context) {
	var req dto.SyncLogListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		fail(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	resp, err := ctrl.logs.List(c.Request.Context(), req)
	if err != nil {
		fail(c, http.StatusInternalServerError, "查询失败: "+err.Error())
		return
	}
	ok(c, resp)
}

// CleanupLogs 立即删除保留期之前的同步日志
// @Summary 清理过期同步日志
// @Tags Sync
// @Param retention_days query int false "保留天数，默认使用配置"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/sync-logs/cleanup [post]
func (ctrl *SyncController) CleanupLogs(c *gin.Context) {
	var req dto.SyncLogCleanupReq
	if err := c.ShouldBindQuery(&req); err != nil {
		fail(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}
	days := req.RetentionDays
	if days == 0 {
		days = ctrl.opts.LogRetentionDays
	}
	if days <= 0 {
		fail(c, http.StatusBadRequest, "log retention is disabled")
		return
	}

	deleted, err := ctrl.logs.Cleanup(c.Request.Context(), days)
	if err != nil {
		fail(c, http.StatusInternalServerError, "清理失败: "+err.Error())
		return
	}
	ok(c, gin.H{"deleted": deleted, "retention_days": days})
}

// Health 存活检查
// @Summary 存活检查
// @Tags System
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
