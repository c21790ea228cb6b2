package middleware

import (
	"fmt"
	"sync"
	"time"
)

// ==================== SyncRateLimiter 同步限流器 ====================

// SyncRateLimiter 同步任务冷却限流器
// 防止频繁手动触发全量同步压垮远程站点
type SyncRateLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalLimiter = &SyncRateLimiter{}

// GetLimiter 获取全局限流器
func GetLimiter() *SyncRateLimiter {
	return globalLimiter
}

// ==================== 限流检查 ====================

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行，允许时记录本次执行时间
// key: 限流键，如 "global:bulk_sync"
func (r *SyncRateLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)
	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// CheckOnly 仅检查，不更新时间
func (r *SyncRateLimiter) CheckOnly(key string, interval time.Duration) CheckResult {
	actual, ok := r.locks.Load(key)
	if !ok {
		return CheckResult{Allowed: true}
	}

	entry := actual.(*lockEntry)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	elapsed := time.Since(entry.lastTime)
	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}
	return CheckResult{Allowed: true}
}

// Reset 重置指定 key 的限流
func (r *SyncRateLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Key 生成工具 ====================

// SyncType 同步类型
type SyncType string

const (
	SyncTypeBulk     SyncType = "bulk_sync"
	SyncTypeSiteTest SyncType = "site_test"
)

// GlobalSyncKey 生成全局同步 Key
func GlobalSyncKey(syncType SyncType) string {
	return fmt.Sprintf("global:%s", syncType)
}

// SiteSyncKey 生成站点级 Key
func SiteSyncKey(siteID string, syncType SyncType) string {
	return fmt.Sprintf("site:%s:%s", siteID, syncType)
}

// ==================== 默认限流间隔 ====================

// DefaultIntervals 默认冷却间隔
var DefaultIntervals = map[SyncType]time.Duration{
	SyncTypeBulk:     5 * time.Minute,
	SyncTypeSiteTest: 10 * time.Second,
}

// GetInterval 获取同步类型的默认间隔
func GetInterval(syncType SyncType) time.Duration {
	if interval, ok := DefaultIntervals[syncType]; ok {
		return interval
	}
	return time.Minute
}
