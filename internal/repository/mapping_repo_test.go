package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wgss_stock_sync/internal/model"
)

func TestMappingRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMappingRepository(db)

	m, err := repo.Get(context.Background(), "X1", 1)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMappingRepo_UpsertIsUniquePerSKUAndSite(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMappingRepository(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Upsert(ctx, &model.ProductSiteMapping{ProductSKU: "X1", SiteID: 1, WooProductID: 100, LastSynced: &now}))
	require.NoError(t, repo.Upsert(ctx, &model.ProductSiteMapping{ProductSKU: "X1", SiteID: 1, WooProductID: 101, LastSynced: &now}))
	require.NoError(t, repo.Upsert(ctx, &model.ProductSiteMapping{ProductSKU: "X1", SiteID: 2, WooProductID: 200, LastSynced: &now}))

	list, err := repo.ListBySKU(ctx, "X1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(101), list[0].WooProductID)
	assert.Equal(t, int64(200), list[1].WooProductID)

	require.NoError(t, repo.DeleteBySite(ctx, 2))
	m, err := repo.Get(ctx, "X1", 2)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMappingRepo_Touch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMappingRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &model.ProductSiteMapping{ProductSKU: "X1", SiteID: 1, WooProductID: 100}))

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Touch(ctx, "X1", 1, at))

	m, err := repo.Get(ctx, "X1", 1)
	require.NoError(t, err)
	require.NotNil(t, m.LastSynced)
	assert.True(t, m.LastSynced.Equal(at))
}

func TestMappingRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMappingRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &model.ProductSiteMapping{ProductSKU: "X1", SiteID: 1, WooProductID: 100}))
	require.NoError(t, repo.Upsert(ctx, &model.ProductSiteMapping{ProductSKU: "X2", SiteID: 1, WooProductID: 101}))

	require.NoError(t, repo.Delete(ctx, "X1", 1))

	m, err := repo.Get(ctx, "X1", 1)
	require.NoError(t, err)
	assert.Nil(t, m)
	m, err = repo.Get(ctx, "X2", 1)
	require.NoError(t, err)
	assert.NotNil(t, m)
}
