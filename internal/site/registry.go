package site

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"wgss_stock_sync/internal/model"
	"wgss_stock_sync/internal/repository"
	wnet "wgss_stock_sync/pkg/net"
	"wgss_stock_sync/pkg/woo"
)

// ClientBuilder 为单个站点构建远程客户端
type ClientBuilder func(site model.Site) (woo.Client, error)

// NewClientBuilder 默认构建器：resty 客户端 + 共享 Transport + 站点限速
func NewClientBuilder(dispatcher wnet.Dispatcher, opts woo.Config) ClientBuilder {
	return func(site model.Site) (woo.Client, error) {
		cfg := opts
		cfg.SiteURL = site.SiteURL
		cfg.ConsumerKey = site.ConsumerKey
		cfg.ConsumerSecret = site.ConsumerSecret
		return woo.NewClient(cfg, dispatcher)
	}
}

type entry struct {
	site   model.Site
	client woo.Client
}

// Registry 站点注册表与客户端工厂
// 启动时构建一次并显式注入，缓存只在 Initialize/Reload 时整体替换
type Registry struct {
	repo   repository.SiteRepository
	build  ClientBuilder
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]*entry // 归一化 URL -> entry
	ordered []model.Site      // 按 ID 排序
}

// NewRegistry 创建站点注册表，需调用 Initialize 后才可用
func NewRegistry(repo repository.SiteRepository, build ClientBuilder, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		repo:    repo,
		build:   build,
		logger:  logger.With(zap.String("component", "site_registry")),
		entries: make(map[string]*entry),
	}
}

// Initialize 加载所有启用的站点并为每个站点构建客户端
func (r *Registry) Initialize(ctx context.Context) error {
	sites, err := r.repo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("加载站点失败: %w", err)
	}

	entries := make(map[string]*entry, len(sites))
	ordered := make([]model.Site, 0, len(sites))
	for _, s := range sites {
		key := wnet.NormalizeSiteURL(s.SiteURL)
		if key == "" {
			continue
		}
		client, err := r.build(s)
		if err != nil {
			r.logger.Warn("站点客户端构建失败，已跳过",
				zap.String("site_url", s.SiteURL), zap.Error(err))
			continue
		}
		entries[key] = &entry{site: s, client: client}
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	r.mu.Lock()
	r.entries = entries
	r.ordered = ordered
	r.mu.Unlock()

	r.logger.Info("站点注册表已加载", zap.Int("sites", len(ordered)))
	return nil
}

// Reload 重新加载，语义同 Initialize
func (r *Registry) Reload(ctx context.Context) error {
	return r.Initialize(ctx)
}

// ==================== 查询 ====================

func (r *Registry) GetClient(siteURL string) (woo.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[wnet.NormalizeSiteURL(siteURL)]
	if !ok {
		return nil, false
	}
	return e.client, true
}

func (r *Registry) GetSiteConfig(siteURL string) (*model.Site, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[wnet.NormalizeSiteURL(siteURL)]
	if !ok {
		return nil, false
	}
	s := e.site
	return &s, true
}

func (r *Registry) GetAllSites() []model.Site {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Site, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// GetOtherSites 除 excludeURL 外的所有站点
func (r *Registry) GetOtherSites(excludeURL string) []model.Site {
	exclude := wnet.NormalizeSiteURL(excludeURL)

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Site, 0, len(r.ordered))
	for _, s := range r.ordered {
		if wnet.NormalizeSiteURL(s.SiteURL) == exclude {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *Registry) GetPrimarySite() (*model.Site, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.ordered {
		if s.IsPrimary {
			site := s
			return &site, true
		}
	}
	return nil, false
}

// ==================== 鉴权查询 ====================

// AuthenticateAPIKey 按入站 API Key 匹配启用的站点
func (r *Registry) AuthenticateAPIKey(apiKey string) (*model.Site, bool) {
	if apiKey == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.ordered {
		if s.APIKey == "" {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(s.APIKey), []byte(apiKey)) == 1 {
			site := s
			return &site, true
		}
	}
	return nil, false
}

// LookupSite 判断 URL 是否为已注册站点
func (r *Registry) LookupSite(siteURL string) (*model.Site, bool) {
	return r.GetSiteConfig(siteURL)
}
