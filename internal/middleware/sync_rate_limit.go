package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 同步限流中间件 ====================

// GlobalSyncRateLimit 全局冷却中间件
// 用于"全量同步"等全局操作
//
// 使用示例:
//
//	admin.POST("/sync",
//	    middleware.GlobalSyncRateLimit(middleware.SyncTypeBulk, cfg.Sync.BulkCooldown),
//	    adminCtl.RunBulkSync,
//	)
//
// interval 为 0 时使用默认值
func GlobalSyncRateLimit(syncType SyncType, interval time.Duration) gin.HandlerFunc {
	if interval == 0 {
		interval = GetInterval(syncType)
	}

	return func(c *gin.Context) {
		key := GlobalSyncKey(syncType)
		if !allow(c, key, syncType, interval) {
			return
		}
		c.Next()

		// 执行失败不占用冷却
		if c.Writer.Status() >= http.StatusBadRequest {
			ResetGlobalSyncLimit(syncType)
		}
	}
}

// SiteSyncRateLimit 按站点 ID（路径参数 :id）冷却
func SiteSyncRateLimit(syncType SyncType, interval time.Duration) gin.HandlerFunc {
	if interval == 0 {
		interval = GetInterval(syncType)
	}

	return func(c *gin.Context) {
		key := SiteSyncKey(c.Param("id"), syncType)
		if !allow(c, key, syncType, interval) {
			return
		}
		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			GetLimiter().Reset(key)
		}
	}
}

func allow(c *gin.Context, key string, syncType SyncType, interval time.Duration) bool {
	result := GetLimiter().Check(key, interval)
	if result.Allowed {
		return true
	}

	retryAfter := int(result.RetryAfter.Seconds())
	c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       formatRetryMessage(result.RetryAfter),
		"retry_after": retryAfter,
		"sync_type":   syncType,
	})
	return false
}

// ==================== 辅助函数 ====================

// formatRetryMessage 格式化重试提示信息
func formatRetryMessage(d time.Duration) string {
	seconds := int(d.Seconds())

	if seconds < 60 {
		return fmt.Sprintf("sync cooling down, retry in %d seconds", seconds)
	}

	minutes := seconds / 60
	remainingSeconds := seconds % 60
	if remainingSeconds == 0 {
		return fmt.Sprintf("sync cooling down, retry in %d minutes", minutes)
	}
	return fmt.Sprintf("sync cooling down, retry in %dm%ds", minutes, remainingSeconds)
}

// GlobalSyncCooldown 全局操作剩余冷却时间，0 表示可立即执行
func GlobalSyncCooldown(syncType SyncType, interval time.Duration) time.Duration {
	if interval == 0 {
		interval = GetInterval(syncType)
	}
	return GetLimiter().CheckOnly(GlobalSyncKey(syncType), interval).RetryAfter
}

// ResetGlobalSyncLimit 重置全局冷却
func ResetGlobalSyncLimit(syncType SyncType) {
	GetLimiter().Reset(GlobalSyncKey(syncType))
}
