package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wgss_stock_sync/internal/api/dto"
	"wgss_stock_sync/internal/model"
	"wgss_stock_sync/internal/repository"
	"wgss_stock_sync/internal/site"
	wnet "wgss_stock_sync/pkg/net"
)

var (
	ErrSiteExists   = errors.New("site already exists")
	ErrSiteNotFound = errors.New("site not found")
)

// SiteService 站点管理
type SiteService struct {
	repo        repository.SiteRepository
	mappingRepo repository.MappingRepository
	notifier    site.ReloadNotifier
	build       site.ClientBuilder
	dispatcher  wnet.Dispatcher // 可为 nil
	logger      *zap.Logger
}

func NewSiteService(
	repo repository.SiteRepository,
	mappingRepo repository.MappingRepository,
	notifier site.ReloadNotifier,
	build site.ClientBuilder,
	dispatcher wnet.Dispatcher,
	logger *zap.Logger,
) *SiteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteService{
		repo:        repo,
		mappingRepo: mappingRepo,
		notifier:    notifier,
		build:       build,
		dispatcher:  dispatcher,
		logger:      logger.With(zap.String("component", "site")),
	}
}

// AddSite 新增站点并通知注册表重新加载
// is_primary 时先取消其他主站再插入，两步不在同一事务中
func (s *SiteService) AddSite(ctx context.Context, req dto.AddSiteReq) (*dto.SiteResp, error) {
	siteURL := wnet.NormalizeSiteURL(req.SiteURL)

	if _, err := s.repo.GetByURL(ctx, siteURL); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrSiteExists, siteURL)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询站点失败: %w", err)
	}

	if req.IsPrimary {
		if err := s.repo.ClearPrimary(ctx); err != nil {
			return nil, fmt.Errorf("取消主站标记失败: %w", err)
		}
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	m := &model.Site{
		SiteURL:        siteURL,
		SiteName:       req.SiteName,
		APIKey:         req.APIKey,
		ConsumerKey:    req.ConsumerKey,
		ConsumerSecret: req.ConsumerSecret,
		IsPrimary:      req.IsPrimary,
		IsActive:       active,
		SyncStatus:     model.SiteSyncPending,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("保存站点失败: %w", err)
	}

	s.reload(ctx)
	resp := toSiteResp(m)
	return &resp, nil
}

// ListSites 所有站点（含停用）
func (s *SiteService) ListSites(ctx context.Context) ([]dto.SiteResp, error) {
	sites, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]dto.SiteResp, 0, len(sites))
	for i := range sites {
		list = append(list, toSiteResp(&sites[i]))
	}
	return list, nil
}

// SetActive 启用/停用站点，停用时释放该站点的连接池与限速器
func (s *SiteService) SetActive(ctx context.Context, id int64, active bool) error {
	m, err := s.getSite(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("更新站点状态失败: %w", err)
	}
	if !active && s.dispatcher != nil {
		s.dispatcher.Forget(wnet.HostKey(m.SiteURL))
	}
	s.reload(ctx)
	return nil
}

// ResetMappings 清空站点的 SKU 映射，下次推送时重新按 SKU 查找远程商品
// 远程商品被删除重建后 woo_product_id 会变化
func (s *SiteService) ResetMappings(ctx context.Context, id int64) error {
	if _, err := s.getSite(ctx, id); err != nil {
		return err
	}
	if err := s.mappingRepo.DeleteBySite(ctx, id); err != nil {
		return fmt.Errorf("清空站点映射失败: %w", err)
	}
	s.logger.Info("站点映射已清空", zap.Int64("site_id", id))
	return nil
}

// TestConnection 使用站点凭证访问远程 API
func (s *SiteService) TestConnection(ctx context.Context, id int64) error {
	m, err := s.getSite(ctx, id)
	if err != nil {
		return err
	}
	client, err := s.build(*m)
	if err != nil {
		return err
	}
	return client.Ping(ctx)
}

// Reload 手动触发注册表重新加载
func (s *SiteService) Reload(ctx context.Context) error {
	return s.notifier.NotifyReload(ctx)
}

func (s *SiteService) getSite(ctx context.Context, id int64) (*model.Site, error) {
	m, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id=%d", ErrSiteNotFound, id)
	}
	return m, err
}

// reload 站点已落库，重新加载失败只记录
func (s *SiteService) reload(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyReload(ctx); err != nil {
		s.logger.Error("站点注册表重新加载失败", zap.Error(err))
	}
}

func toSiteResp(m *model.Site) dto.SiteResp {
	return dto.SiteResp{
		ID:         m.ID,
		SiteURL:    m.SiteURL,
		SiteName:   m.SiteName,
		IsPrimary:  m.IsPrimary,
		IsActive:   m.IsActive,
		HasAPIKey:  m.APIKey != "",
		SyncStatus: m.SyncStatus,
		LastSync:   m.LastSync,
		CreatedAt:  m.CreatedAt,
	}
}
