package site

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wgss_stock_sync/internal/model"
	"wgss_stock_sync/internal/repository"
	"wgss_stock_sync/pkg/woo"
)

func setupRegistryTestDB(t *testing.T) *gorm.DB {
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

	if err := db.AutoMigrate(&model.Site{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func seedSites(t *testing.T, repo repository.SiteRepository, sites ...model.Site) {
	t.Helper()
	for i := range sites {
		require.NoError(t, repo.Create(context.Background(), &sites[i]))
	}
}

func mockBuilder(ctrl *gomock.Controller) ClientBuilder {
	return func(s model.Site) (woo.Client, error) {
		if s.ConsumerKey == "" {
			return nil, errors.New("missing credentials")
		}
		return woo.NewMockClient(ctrl), nil
	}
}

func TestRegistry_Lookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := setupRegistryTestDB(t)
	repo := repository.NewSiteRepository(db)

	seedSites(t, repo,
		model.Site{SiteURL: "https://s1.example", ConsumerKey: "ck", ConsumerSecret: "cs", APIKey: "key-1", IsActive: true},
		model.Site{SiteURL: "https://S2.example/", ConsumerKey: "ck", ConsumerSecret: "cs", IsActive: true, IsPrimary: true},
		model.Site{SiteURL: "https://off.example", ConsumerKey: "ck", ConsumerSecret: "cs", IsActive: false},
		model.Site{SiteURL: "https://broken.example", IsActive: true},
	)

	reg := NewRegistry(repo, mockBuilder(ctrl), nil)
	require.NoError(t, reg.Initialize(context.Background()))

	all := reg.GetAllSites()
	require.Len(t, all, 2)
	assert.Equal(t, "https://s1.example", all[0].SiteURL)

	others := reg.GetOtherSites("https://s1.example/")
	require.Len(t, others, 1)
	assert.Equal(t, "https://S2.example/", others[0].SiteURL)

	_, ok := reg.GetClient("https://s2.example")
	assert.True(t, ok)
	_, ok = reg.GetClient("https://off.example")
	assert.False(t, ok)
	_, ok = reg.GetClient("https://broken.example")
	assert.False(t, ok)

	primary, ok := reg.GetPrimarySite()
	require.True(t, ok)
	assert.Equal(t, "https://S2.example/", primary.SiteURL)

	s, ok := reg.AuthenticateAPIKey("key-1")
	require.True(t, ok)
	assert.Equal(t, "https://s1.example", s.SiteURL)
	_, ok = reg.AuthenticateAPIKey("wrong")
	assert.False(t, ok)
	_, ok = reg.AuthenticateAPIKey("")
	assert.False(t, ok)

	_, ok = reg.LookupSite("https://S1.EXAMPLE")
	assert.True(t, ok)
}

func TestRegistry_ReloadPicksUpNewSite(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := setupRegistryTestDB(t)
	repo := repository.NewSiteRepository(db)

	seedSites(t, repo, model.Site{SiteURL: "https://s1.example", ConsumerKey: "ck", ConsumerSecret: "cs", IsActive: true})

	reg := NewRegistry(repo, mockBuilder(ctrl), nil)
	require.NoError(t, reg.Initialize(context.Background()))
	assert.Len(t, reg.GetAllSites(), 1)

	seedSites(t, repo, model.Site{SiteURL: "https://s2.example", ConsumerKey: "ck", ConsumerSecret: "cs", IsActive: true})

	// 未重新加载前缓存不变
	assert.Len(t, reg.GetAllSites(), 1)

	require.NoError(t, NewLocalNotifier(reg).NotifyReload(context.Background()))
	assert.Len(t, reg.GetAllSites(), 2)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := setupRegistryTestDB(t)
	repo := repository.NewSiteRepository(db)
	seedSites(t, repo, model.Site{SiteURL: "https://s1.example", ConsumerKey: "ck", ConsumerSecret: "cs", IsActive: true})

	reg := NewRegistry(repo, mockBuilder(ctrl), nil)
	require.NoError(t, reg.Initialize(context.Background()))

	sites := reg.GetAllSites()
	sites[0].SiteURL = "mutated"

	cfg, ok := reg.GetSiteConfig("https://s1.example")
	require.True(t, ok)
	assert.Equal(t, "https://s1.example", cfg.SiteURL)
}
