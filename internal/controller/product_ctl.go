package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wgss_stock_sync/internal/api/dto"
	"wgss_stock_sync/internal/model"
	"wgss_stock_sync/internal/service"
)

// ProductManager 全局商品维护（由 service.ProductService 实现）
type ProductManager interface {
	List(ctx context.Context, req dto.ProductListReq) (*dto.PageResp, error)
	Upsert(ctx context.Context, req dto.UpsertProductReq) (*model.GlobalProduct, error)
	Mappings(ctx context.Context, sku string) ([]model.ProductSiteMapping, error)
}

type ProductController struct {
	products ProductManager
}

func NewProductController(products ProductManager) *ProductController {
	return &ProductController{products: products}
}

// List 全局商品列表
// @Summary 全局库存商品列表
// @Tags Product
// @Param keyword query string false "SKU / 名称搜索"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.PageResp
// @Router /api/admin/products [get]
func (ctrl *ProductController) List(c *gin.Context) {
	var req dto.ProductListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		fail(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	resp, err := ctrl.products.List(c.Request.Context(), req)
	if err != nil {
		fail(c, http.StatusInternalServerError, "查询失败: "+err.Error())
		return
	}
	ok(c, resp)
}

// Upsert 新增或更新全局商品
// @Summary 将 SKU 纳入同步并设置库存
// @Tags Product
// @Param body body dto.UpsertProductReq true "商品"
// @Success 200 {object} model.GlobalProduct
// @Router /api/admin/products [post]
func (ctrl *ProductController) Upsert(c *gin.Context) {
	var req dto.UpsertProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	product, err := ctrl.products.Upsert(c.Request.Context(), req)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, product)
}

// Mappings SKU 的远程商品映射
// @Summary 查看 SKU 在各站点对应的 WooCommerce 商品 ID
// @Tags Product
// @Param sku path string true "SKU"
// @Router /api/admin/products/{sku}/mappings [get]
func (ctrl *ProductController) Mappings(c *gin.Context) {
	list, err := ctrl.products.Mappings(c.Request.Context(), c.Param("sku"))
	if err != nil {
		if errors.Is(err, service.ErrSKURequired) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, list)
}
