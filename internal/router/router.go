package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "wgss_stock_sync/docs"
	"wgss_stock_sync/internal/controller"
	"wgss_stock_sync/internal/middleware"
)

// Controllers 控制器集合
type Controllers struct {
	Stock   *controller.StockController
	Site    *controller.SiteController
	Product *controller.ProductController
	Sync    *controller.SyncController
}

// Options 路由依赖
type Options struct {
	Auth         middleware.SiteAuthenticator
	AdminSecret  string
	BulkCooldown time.Duration
	Logger       *zap.Logger
}

// SetupRouter 创建 gin 引擎并注册所有路由
func SetupRouter(ctrls *Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())
	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}

	InitRoutes(r, ctrls, opts)
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctrls *Controllers, opts Options) {
	r.GET("/health", controller.Health)

	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// stock 站点回调 / 中心下单
		// POST /api/stock/reduce
		api.POST("/stock/:action",
			middleware.SyncAuth(opts.Auth, opts.AdminSecret, controller.ActionOrder),
			ctrls.Stock.Handle,
		)

		admin := api.Group("/admin", middleware.AdminAuth(opts.AdminSecret))
		{
			sites := admin.Group("/sites")
			{
				sites.GET("", ctrls.Site.List)
				sites.POST("", ctrls.Site.Create)
				sites.POST("/reload", ctrls.Site.Reload)
				sites.PUT("/:id/active", ctrls.Site.SetActive)
				sites.DELETE("/:id/mappings", ctrls.Site.ResetMappings)
				sites.POST("/:id/test",
					middleware.SiteSyncRateLimit(middleware.SyncTypeSiteTest, 0),
					ctrls.Site.Test,
				)
			}

			products := admin.Group("/products")
			{
				products.GET("", ctrls.Product.List)
				products.POST("", ctrls.Product.Upsert)
				products.GET("/:sku/mappings", ctrls.Product.Mappings)
			}

			// 全量同步带冷却
			admin.POST("/sync",
				middleware.GlobalSyncRateLimit(middleware.SyncTypeBulk, opts.BulkCooldown),
				ctrls.Sync.RunBulkSync,
			)
			admin.GET("/sync/runs", ctrls.Sync.ListRuns)
			admin.GET("/sync/status", ctrls.Sync.Status)
			admin.GET("/sync-logs", ctrls.Sync.ListLogs)
			admin.POST("/sync-logs/cleanup", ctrls.Sync.CleanupLogs)
		}
	}
}
