package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wgss_stock_sync/internal/api/dto"
	"wgss_stock_sync/internal/service"
)

// SiteManager 站点管理（由 service.SiteService 实现）
type SiteManager interface {
	AddSite(ctx context.Context, req dto.AddSiteReq) (*dto.SiteResp, error)
	ListSites(ctx context.Context) ([]dto.SiteResp, error)
	SetActive(ctx context.Context, id int64, active bool) error
	TestConnection(ctx context.Context, id int64) error
	ResetMappings(ctx context.Context, id int64) error
	Reload(ctx context.Context) error
}

type SiteController struct {
	sites SiteManager
}

func NewSiteController(sites SiteManager) *SiteController {
	return &SiteController{sites: sites}
}

// List 站点列表
// @Summary 站点列表（含同步状态）
// @Tags Site
// @Param x-admin-key header string true "管理密钥"
// @Success 200 {array} dto.SiteResp
// @Router /api/admin/sites [get]
func (ctrl *SiteController) List(c *gin.Context) {
	list, err := ctrl.sites.ListSites(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, list)
}

// Create 新增站点
// @Summary 新增站点，is_primary 时取消其他主站
// @Tags Site
// @Param x-admin-key header string true "管理密钥"
// @Param body body dto.AddSiteReq true "站点信息"
// @Success 200 {object} dto.SiteResp
// @Failure 409 {object} map[string]string
// @Router /api/admin/sites [post]
func (ctrl *SiteController) Create(c *gin.Context) {
	var req dto.AddSiteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	resp, err := ctrl.sites.AddSite(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrSiteExists) {
			fail(c, http.StatusConflict, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, resp)
}

// SetActive 启用/停用站点
// @Summary 启用或停用站点
// @Tags Site
// @Param id path int true "站点ID"
// @Param body body dto.SetSiteActiveReq true "状态"
// @Router /api/admin/sites/{id}/active [put]
func (ctrl *SiteController) SetActive(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}

	var req dto.SetSiteActiveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	if err := ctrl.sites.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		ctrl.siteError(c, err)
		return
	}
	ok(c, gin.H{"id": id, "is_active": *req.IsActive})
}

// Test 测试站点连通性
// @Summary 用站点凭证请求一次 WooCommerce
// @Tags Site
// @Param id path int true "站点ID"
// @Router /api/admin/sites/{id}/test [post]
func (ctrl *SiteController) Test(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}

	if err := ctrl.sites.TestConnection(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrSiteNotFound) {
			fail(c, http.StatusNotFound, err.Error())
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}
	ok(c, gin.H{"id": id, "connected": true})
}

// ResetMappings 清空站点的 SKU 映射
// @Summary 清空站点映射，下次推送时按 SKU 重新查找远程商品
// @Tags Site
// @Param id path int true "站点ID"
// @Router /api/admin/sites/{id}/mappings [delete]
func (ctrl *SiteController) ResetMappings(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}

	if err := ctrl.sites.ResetMappings(c.Request.Context(), id); err != nil {
		ctrl.siteError(c, err)
		return
	}
	ok(c, gin.H{"id": id})
}

// Reload 强制刷新站点注册表
// @Summary 重新从数据库加载站点
// @Tags Site
// @Router /api/admin/sites/reload [post]
func (ctrl *SiteController) Reload(c *gin.Context) {
	if err := ctrl.sites.Reload(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, gin.H{"reloaded": true})
}

func (ctrl *SiteController) siteError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrSiteNotFound) {
		fail(c, http.StatusNotFound, err.Error())
		return
	}
	fail(c, http.StatusInternalServerError, err.Error())
}

// parseID 解析路径参数 :id，失败时直接写 400
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
