package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wgss_stock_sync/internal/service"
)

// ==================== 测试替身 ====================

type fakeRunner struct {
	mu       sync.Mutex
	triggers []string
	err      error
	calls    atomic.Int32
}

func (f *fakeRunner) Run(_ context.Context, trigger string) (*service.BulkSyncResult, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, trigger)
	if f.err != nil {
		return nil, f.err
	}
	return &service.BulkSyncResult{Trigger: trigger, Synced: 2}, nil
}

type fakeCleaner struct {
	days    []int
	deleted int64
	err     error
}

func (f *fakeCleaner) Cleanup(_ context.Context, retentionDays int) (int64, error) {
	f.days = append(f.days, retentionDays)
	return f.deleted, f.err
}

// ==================== TaskManager ====================

func TestNewTaskManager_Status(t *testing.T) {
	tests := []struct {
		name string
		cfg  *TaskManagerConfig
		want map[string]bool
	}{
		{
			name: "默认配置只启用日志清理",
			cfg:  nil,
			want: map[string]bool{"bulk_sync": false, "log_cleanup": true},
		},
		{
			name: "全部启用",
			cfg:  &TaskManagerConfig{BulkSyncCron: "0 0 * * * *", LogCleanupCron: "0 30 3 * * *", LogRetentionDays: 30},
			want: map[string]bool{"bulk_sync": true, "log_cleanup": true},
		},
		{
			name: "保留天数为 0 关闭清理",
			cfg:  &TaskManagerConfig{LogCleanupCron: "0 30 3 * * *", LogRetentionDays: 0},
			want: map[string]bool{"bulk_sync": false, "log_cleanup": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := NewTaskManager(&TaskManagerDeps{
				Bulk:    &fakeRunner{},
				Cleaner: &fakeCleaner{},
				Logger:  zap.NewNop(),
			}, tt.cfg)
			assert.Equal(t, tt.want, tm.Status())
		})
	}
}

func TestTaskManager_StartStop(t *testing.T) {
	tm := NewTaskManager(&TaskManagerDeps{Bulk: &fakeRunner{}, Cleaner: &fakeCleaner{}}, &TaskManagerConfig{
		BulkSyncCron:     "0 0 3 * * *",
		LogCleanupCron:   "0 30 3 * * *",
		LogRetentionDays: 7,
	})
	require.NoError(t, tm.Start())
	tm.Stop()
}

func TestTaskManager_InvalidCron(t *testing.T) {
	tm := NewTaskManager(&TaskManagerDeps{Bulk: &fakeRunner{}}, &TaskManagerConfig{BulkSyncCron: "every now and then"})
	assert.Error(t, tm.Start())
}

func TestTaskManager_TriggerLogCleanup(t *testing.T) {
	cleaner := &fakeCleaner{deleted: 12}
	tm := NewTaskManager(&TaskManagerDeps{Cleaner: cleaner}, &TaskManagerConfig{
		LogCleanupCron:   "0 30 3 * * *",
		LogRetentionDays: 45,
	})

	deleted, err := tm.TriggerLogCleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
	assert.Equal(t, []int{45}, cleaner.days)

	disabled := NewTaskManager(&TaskManagerDeps{}, &TaskManagerConfig{})
	_, err = disabled.TriggerLogCleanup(context.Background())
	assert.ErrorIs(t, err, ErrTaskDisabled)
}

// ==================== BulkSyncTask ====================

func TestBulkSyncTask_RunOnce(t *testing.T) {
	runner := &fakeRunner{}
	task := NewBulkSyncTask(runner, "@every 1h", time.Minute, zap.NewNop())

	task.runOnce()
	assert.Equal(t, []string{"cron"}, runner.triggers)

	// 重叠与失败都只记日志
	runner.err = service.ErrBulkSyncRunning
	task.runOnce()
	runner.err = errors.New("db down")
	task.runOnce()
	assert.Equal(t, int32(3), runner.calls.Load())
}

func TestBulkSyncTask_Schedule(t *testing.T) {
	runner := &fakeRunner{}
	task := NewBulkSyncTask(runner, "@every 1s", time.Minute, zap.NewNop())
	require.NoError(t, task.Start())
	defer task.Stop()

	assert.Eventually(t, func() bool { return runner.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

// ==================== LogCleanupTask ====================

func TestLogCleanupTask_RunNow(t *testing.T) {
	cleaner := &fakeCleaner{err: errors.New("locked")}
	task := NewLogCleanupTask(cleaner, "0 30 3 * * *", 90, zap.NewNop())

	_, err := task.RunNow(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []int{90}, cleaner.days)
}
