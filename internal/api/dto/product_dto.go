package dto

// ================== GlobalProduct DTO ==================

// ProductListReq 全局商品列表请求
type ProductListReq struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
	Keyword  string `form:"keyword"`
}

// UpsertProductReq 新增或更新全局商品（将 SKU 纳入同步）
type UpsertProductReq struct {
	SKU           string `json:"sku" binding:"required"`
	ProductName   string `json:"product_name"`
	StockQuantity *int   `json:"stock_quantity" binding:"required,gte=0"`
}
