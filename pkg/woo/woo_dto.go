package woo

import "fmt"

// ==========================================
// DTO: WooCommerce REST API (wc/v3) 请求与响应
// ==========================================

// Product WooCommerce 商品（仅保留同步关心的字段）
// GET /wp-json/wc/v3/products?sku=
type Product struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Status        string `json:"status"`
	Type          string `json:"type"`
	ManageStock   bool   `json:"manage_stock"`
	StockQuantity *int   `json:"stock_quantity"`
	StockStatus   string `json:"stock_status"`
}

// CreateProductReq 创建商品请求
// POST /wp-json/wc/v3/products
type CreateProductReq struct {
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Type          string `json:"type,omitempty"`
	Status        string `json:"status,omitempty"`
	ManageStock   bool   `json:"manage_stock"`
	StockQuantity int    `json:"stock_quantity"`
}

// UpdateStockReq 更新库存请求
// PUT /wp-json/wc/v3/products/{id}
type UpdateStockReq struct {
	StockQuantity int  `json:"stock_quantity"`
	ManageStock   bool `json:"manage_stock"`
}

// ErrorResp WooCommerce 通用错误响应
type ErrorResp struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
	} `json:"data"`
}

// APIError 远程站点返回的非 2xx 响应
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("woocommerce api error (status %d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("woocommerce api error (status %d): %s", e.StatusCode, e.Message)
}
