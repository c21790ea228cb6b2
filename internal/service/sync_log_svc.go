package service

import (
	"context"
	"time"

	"wgss_stock_sync/internal/api/dto"
	"wgss_stock_sync/internal/repository"
)

// SyncLogService 同步日志查询与保留期清理
type SyncLogService struct {
	repo repository.SyncLogRepository
}

func NewSyncLogService(repo repository.SyncLogRepository) *SyncLogService {
	return &SyncLogService{repo: repo}
}

func (s *SyncLogService) List(ctx context.Context, req dto.SyncLogListReq) (*dto.PageResp, error) {
	logs, total, err := s.repo.List(ctx, repository.SyncLogFilter{
		SKU:      req.SKU,
		SiteURL:  req.SiteURL,
		Action:   req.Action,
		Source:   req.Source,
		Success:  req.Success,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &dto.PageResp{Total: total, Page: req.Page, PageSize: req.PageSize, List: logs}, nil
}

// Cleanup 删除 retentionDays 天之前的日志
func (s *SyncLogService) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	return s.repo.DeleteBefore(ctx, time.Now().AddDate(0, 0, -retentionDays))
}
