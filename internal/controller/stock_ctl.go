package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wgss_stock_sync/internal/api/dto"
	"wgss_stock_sync/internal/middleware"
	"wgss_stock_sync/internal/service"
)

// 库存同步 action
const (
	ActionReduce  = "reduce"
	ActionRestore = "restore"
	ActionManual  = "manual"
	ActionOrder   = "order"
)

// StockHandler 库存变更（由 service.StockService 实现）
type StockHandler interface {
	Reduce(ctx context.Context, in service.StockChangeInput) (*service.StockChangeResult, error)
	Restore(ctx context.Context, in service.StockChangeInput) (*service.StockChangeResult, error)
	ManualUpdate(ctx context.Context, in service.ManualUpdateInput) (*service.StockChangeResult, error)
	OrderDeduct(ctx context.Context, in service.OrderDeductInput) (*service.StockChangeResult, error)
}

type StockController struct {
	stock StockHandler
}

func NewStockController(stock StockHandler) *StockController {
	return &StockController{stock: stock}
}

// Handle 库存同步入口
// @Summary 站点库存变更回调 / 中心下单扣减
// @Tags Stock
// @Param action path string true "reduce | restore | manual | order"
// @Param x-wgss-api-key header string false "站点 API Key"
// @Param x-wgss-source header string false "来源，固定 woo"
// @Param x-wgss-site header string false "来源站点 URL"
// @Success 200 {object} service.StockChangeResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/stock/{action} [post]
func (ctrl *StockController) Handle(c *gin.Context) {
	origin := c.GetString(middleware.CtxOriginSiteURL)

	var (
		result *service.StockChangeResult
		err    error
	)

	switch c.Param("action") {
	case ActionReduce, ActionRestore:
		var req dto.StockChangeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, bindErrorMessage(err))
			return
		}
		in := service.StockChangeInput{
			SKU:       req.SKU,
			Qty:       req.Qty,
			OrderID:   req.OrderID.String(),
			OriginURL: origin,
		}
		if c.Param("action") == ActionReduce {
			result, err = ctrl.stock.Reduce(c.Request.Context(), in)
		} else {
			result, err = ctrl.stock.Restore(c.Request.Context(), in)
		}

	case ActionManual:
		var req dto.ManualUpdateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, bindErrorMessage(err))
			return
		}
		result, err = ctrl.stock.ManualUpdate(c.Request.Context(), service.ManualUpdateInput{
			SKU:       req.SKU,
			Stock:     *req.Stock,
			OriginURL: origin,
		})

	case ActionOrder:
		var req dto.OrderDeductReq
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, bindErrorMessage(err))
			return
		}
		result, err = ctrl.stock.OrderDeduct(c.Request.Context(), service.OrderDeductInput{
			SKU:      req.SKU,
			Quantity: req.Quantity,
			OrderID:  req.OrderID.String(),
			SiteURL:  req.SiteURL,
		})

	default:
		fail(c, http.StatusBadRequest, "Invalid action")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrSKURequired):
			fail(c, http.StatusBadRequest, err.Error())
		default:
			// 库存不足 / 商品不存在也按 500 返回原始信息
			_ = c.Error(err)
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"sku":       result.SKU,
		"old_stock": result.OldStock,
		"new_stock": result.NewStock,
		"skipped":   result.Skipped,
		"results":   result.Legs,
	})
}
