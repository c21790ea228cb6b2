package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wgss_stock_sync/internal/config"
	"wgss_stock_sync/internal/controller"
	"wgss_stock_sync/internal/listener"
	"wgss_stock_sync/internal/middleware"
	"wgss_stock_sync/internal/model"
	"wgss_stock_sync/internal/repository"
	"wgss_stock_sync/internal/router"
	"wgss_stock_sync/internal/service"
	"wgss_stock_sync/internal/site"
	"wgss_stock_sync/internal/task"
	"wgss_stock_sync/pkg/database"
	"wgss_stock_sync/pkg/logger"
	"wgss_stock_sync/pkg/net"
	"wgss_stock_sync/pkg/woo"
)

// @title WGSS 多站点库存同步 API
// @version 1.0
// @description WooCommerce 多站点库存同步服务
// @host localhost:8080
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.Must(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	// 2. 初始化数据库
	db := initDatabase(cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 初始化依赖
	deps := initDependencies(ctx, cfg, db, log)

	// 4. 启动后台任务与消费者
	initTasks(ctx, deps)

	// 5. 初始化路由
	r := router.SetupRouter(deps.Controllers, router.Options{
		Auth:         deps.Registry,
		AdminSecret:  cfg.Admin.Secret,
		BulkCooldown: cfg.Sync.BulkCooldown,
		Logger:       log,
	})

	// 6. 启动服务
	startServer(ctx, cfg, r, log)

	deps.shutdown()
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	Repos       *Repositories
	Dispatcher  net.Dispatcher
	Registry    *site.Registry
	Redis       redis.UniversalClient
	Controllers *router.Controllers
	Services    *Services

	tasks    *task.TaskManager
	listener *listener.OrderListener
}

// Repositories 仓库集合
type Repositories struct {
	Site          repository.SiteRepository
	GlobalProduct repository.GlobalProductRepository
	Mapping       repository.MappingRepository
	SyncLog       repository.SyncLogRepository
	BulkSyncRun   repository.BulkSyncRunRepository
}

// Services 服务集合
type Services struct {
	Fanout   *service.SyncService
	Stock    *service.StockService
	BulkSync *service.BulkSyncService
	Site     *service.SiteService
	Product  *service.ProductService
	SyncLog  *service.SyncLogService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := database.InitDB(cfg.Database.DSN, database.Options{
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}, model.AllModels()...)
	if err != nil {
		log.Fatal("数据库初始化失败", zap.Error(err))
	}
	log.Info("数据库连接成功")
	return db
}

// initDependencies 初始化所有依赖
func initDependencies(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) *Dependencies {
	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 站点注册表 --------
	dispatcher := net.NewDispatcher(net.LimitConfig{
		RPS:   cfg.Sync.SiteRPS,
		Burst: cfg.Sync.SiteBurst,
	})
	buildClient := site.NewClientBuilder(dispatcher, woo.Config{
		Timeout:   cfg.Sync.RequestTimeout,
		UserAgent: cfg.Sync.UserAgent,
	})
	registry := site.NewRegistry(repos.Site, buildClient, log)
	if err := registry.Initialize(ctx); err != nil {
		log.Fatal("站点注册表初始化失败", zap.Error(err))
	}

	deps := &Dependencies{
		Config:     cfg,
		Logger:     log,
		DB:         db,
		Repos:      repos,
		Dispatcher: dispatcher,
		Registry:   registry,
	}

	// -------- 多实例注册表刷新 --------
	var notifier site.ReloadNotifier = site.NewLocalNotifier(registry)
	if cfg.Redis.Addr != "" {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisNotifier := site.NewRedisNotifier(deps.Redis, cfg.Redis.ReloadChannel, registry, log)
		go redisNotifier.Listen(ctx)
		notifier = redisNotifier
		log.Info("站点刷新通过 Redis 广播", zap.String("channel", cfg.Redis.ReloadChannel))
	}

	// -------- 业务服务 --------
	services := &Services{}
	services.Fanout = service.NewSyncService(registry, repos.Mapping, repos.Site, repos.SyncLog, log, cfg.Sync.FanoutConcurrency)
	services.Stock = service.NewStockService(repos.GlobalProduct, repos.SyncLog, registry, services.Fanout, log)
	services.BulkSync = service.NewBulkSyncService(repos.GlobalProduct, repos.BulkSyncRun, registry, services.Fanout, cfg.Sync.BulkBatchSize, log)
	services.Site = service.NewSiteService(repos.Site, repos.Mapping, notifier, buildClient, dispatcher, log)
	services.Product = service.NewProductService(repos.GlobalProduct, repos.Mapping)
	services.SyncLog = service.NewSyncLogService(repos.SyncLog)
	deps.Services = services

	// -------- Controller 层 --------
	deps.Controllers = initControllers(cfg, services)

	return deps
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Site:          repository.NewSiteRepository(db),
		GlobalProduct: repository.NewGlobalProductRepository(db),
		Mapping:       repository.NewMappingRepository(db),
		SyncLog:       repository.NewSyncLogRepository(db),
		BulkSyncRun:   repository.NewBulkSyncRunRepository(db),
	}
}

// initControllers 初始化所有控制器
func initControllers(cfg *config.Config, svc *Services) *router.Controllers {
	return &router.Controllers{
		Stock:   controller.NewStockController(svc.Stock),
		Site:    controller.NewSiteController(svc.Site),
		Product: controller.NewProductController(svc.Product),
		Sync: controller.NewSyncController(svc.BulkSync, svc.SyncLog, controller.SyncOptions{
			LogRetentionDays: cfg.Task.LogRetentionDays,
			Cooldown: func() time.Duration {
				return middleware.GlobalSyncCooldown(middleware.SyncTypeBulk, cfg.Sync.BulkCooldown)
			},
		}),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务与订单事件消费
func initTasks(ctx context.Context, deps *Dependencies) {
	cfg := deps.Config

	deps.tasks = task.NewTaskManager(&task.TaskManagerDeps{
		Bulk:    deps.Services.BulkSync,
		Cleaner: deps.Services.SyncLog,
		Logger:  deps.Logger,
	}, &task.TaskManagerConfig{
		BulkSyncCron:     cfg.Task.BulkSyncCron,
		LogCleanupCron:   cfg.Task.LogCleanupCron,
		LogRetentionDays: cfg.Task.LogRetentionDays,
	})
	if err := deps.tasks.Start(); err != nil {
		deps.Logger.Fatal("定时任务启动失败", zap.Error(err))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		reader := listener.NewKafkaReader(listener.ReaderConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.OrderTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		deps.listener = listener.NewOrderListener(reader, deps.Services.Stock, deps.Logger)
		go deps.listener.Start(ctx)
		deps.Logger.Info("订单事件消费已启动",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.OrderTopic))
	}
}

// shutdown 释放后台资源
func (d *Dependencies) shutdown() {
	if d.tasks != nil {
		d.tasks.Stop()
	}
	if d.listener != nil {
		if err := d.listener.Close(); err != nil {
			d.Logger.Warn("关闭 kafka reader 失败", zap.Error(err))
		}
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if err := database.Close(d.DB); err != nil {
		d.Logger.Warn("关闭数据库失败", zap.Error(err))
	}
}

// ==================== 服务启动 ====================

// startServer 启动服务，收到退出信号后优雅关闭
func startServer(ctx context.Context, cfg *config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	<-ctx.Done()
	log.Info("正在关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("服务强制关闭", zap.Error(err))
		os.Exit(1)
	}

	log.Info("服务已退出")
}
