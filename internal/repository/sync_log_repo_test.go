package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wgss_stock_sync/internal/model"
)

func TestSyncLogRepo_ListFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncLogRepository(db)
	ctx := context.Background()

	logs := []*model.StockSyncLog{
		{ProductSKU: "X1", SiteURL: "https://a.example", Action: model.SyncActionReduce, Source: model.SyncSourceWoo, Success: true},
		{ProductSKU: "X1", SiteURL: "https://b.example", Action: model.SyncActionReduce, Source: model.SyncSourceFanout, Success: false, ErrorMessage: "timeout"},
		{ProductSKU: "X2", SiteURL: "https://b.example", Action: model.SyncActionRestore, Source: model.SyncSourceFanout, Success: true},
	}
	for _, l := range logs {
		require.NoError(t, repo.Create(ctx, l))
	}

	list, total, err := repo.List(ctx, SyncLogFilter{SKU: "X1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	// 最新的在前
	assert.Equal(t, "https://b.example", list[0].SiteURL)

	failed := false
	list, total, err = repo.List(ctx, SyncLogFilter{Success: &failed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "timeout", list[0].ErrorMessage)

	_, total, err = repo.List(ctx, SyncLogFilter{Source: model.SyncSourceFanout, Action: model.SyncActionRestore})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	list, total, err = repo.List(ctx, SyncLogFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 1)
}

func TestSyncLogRepo_DeleteBefore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncLogRepository(db)
	ctx := context.Background()

	old := &model.StockSyncLog{ProductSKU: "X1", Action: model.SyncActionReduce, CreatedAt: time.Now().AddDate(0, 0, -100)}
	fresh := &model.StockSyncLog{ProductSKU: "X1", Action: model.SyncActionReduce}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, fresh))

	n, err := repo.DeleteBefore(ctx, time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, total, err := repo.List(ctx, SyncLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestBulkSyncRunRepo_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBulkSyncRunRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.BulkSyncRun{
			Trigger:   model.SyncSourceAdmin,
			Synced:    i,
			StartedAt: time.Now(),
			Results:   []byte(`[]`),
		}))
	}

	runs, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 2, runs[0].Synced)
	assert.Empty(t, runs[0].Results)
}

func TestBulkSyncRunRepo_Latest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBulkSyncRunRepository(db)
	ctx := context.Background()

	run, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, run)

	require.NoError(t, repo.Create(ctx, &model.BulkSyncRun{Trigger: model.SyncSourceCron, Synced: 1, StartedAt: time.Now()}))
	require.NoError(t, repo.Create(ctx, &model.BulkSyncRun{Trigger: model.SyncSourceAdmin, Synced: 4, Cancelled: true, StartedAt: time.Now()}))

	run, err = repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, model.SyncSourceAdmin, run.Trigger)
	assert.Equal(t, 4, run.Synced)
	assert.True(t, run.Cancelled)
}
