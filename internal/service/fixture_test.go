package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wgss_stock_sync/internal/model"
	"wgss_stock_sync/internal/repository"
	"wgss_stock_sync/internal/site"
	"wgss_stock_sync/pkg/woo"
)

// ==================== 测试辅助 ====================

const (
	siteS1 = "https://s1.example"
	siteS2 = "https://s2.example"
	siteS3 = "https://s3.example"
)

type stockFixture struct {
	db       *gorm.DB
	ctrl     *gomock.Controller
	clients  map[string]*woo.MockClient
	sites    map[string]model.Site
	registry *site.Registry

	siteRepo    repository.SiteRepository
	productRepo repository.GlobalProductRepository
	mappingRepo repository.MappingRepository
	logRepo     repository.SyncLogRepository
	runRepo     repository.BulkSyncRunRepository

	fanout *SyncService
	stock  *StockService
	bulk   *BulkSyncService
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

// newStockFixture 创建若干启用站点，每个站点对应一个 MockClient
func newStockFixture(t *testing.T, siteURLs ...string) *stockFixture {
	t.Helper()
	ctx := context.Background()

	f := &stockFixture{
		db:      setupServiceTestDB(t),
		ctrl:    gomock.NewController(t),
		clients: make(map[string]*woo.MockClient),
		sites:   make(map[string]model.Site),
	}
	f.siteRepo = repository.NewSiteRepository(f.db)
	f.productRepo = repository.NewGlobalProductRepository(f.db)
	f.mappingRepo = repository.NewMappingRepository(f.db)
	f.logRepo = repository.NewSyncLogRepository(f.db)
	f.runRepo = repository.NewBulkSyncRunRepository(f.db)

	for _, u := range siteURLs {
		s := &model.Site{SiteURL: u, ConsumerKey: "ck", ConsumerSecret: "cs", IsActive: true}
		require.NoError(t, f.siteRepo.Create(ctx, s))
		f.sites[u] = *s
		f.clients[u] = woo.NewMockClient(f.ctrl)
	}

	f.registry = site.NewRegistry(f.siteRepo, func(s model.Site) (woo.Client, error) {
		return f.clients[s.SiteURL], nil
	}, zap.NewNop())
	require.NoError(t, f.registry.Initialize(ctx))

	f.fanout = NewSyncService(f.registry, f.mappingRepo, f.siteRepo, f.logRepo, zap.NewNop(), 4)
	f.stock = NewStockService(f.productRepo, f.logRepo, f.registry, f.fanout, zap.NewNop())
	f.bulk = NewBulkSyncService(f.productRepo, f.runRepo, f.registry, f.fanout, 1, zap.NewNop())
	return f
}

func (f *stockFixture) seedProduct(t *testing.T, sku string, stock int) {
	t.Helper()
	require.NoError(t, f.productRepo.Upsert(context.Background(), &model.GlobalProduct{
		SKU:           sku,
		ProductName:   "Product " + sku,
		StockQuantity: stock,
	}))
}

func (f *stockFixture) stockOf(t *testing.T, sku string) int {
	t.Helper()
	p, err := f.productRepo.GetBySKU(context.Background(), sku)
	require.NoError(t, err)
	return p.StockQuantity
}

func (f *stockFixture) logs(t *testing.T, filter repository.SyncLogFilter) []model.StockSyncLog {
	t.Helper()
	filter.PageSize = 1000
	list, _, err := f.logRepo.List(context.Background(), filter)
	require.NoError(t, err)
	return list
}

func (f *stockFixture) countRows(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func remoteProduct(id int64, sku string) *woo.Product {
	return &woo.Product{ID: id, SKU: sku, ManageStock: true}
}
