package model

import "time"

// GlobalProduct 全局库存，每个 SKU 唯一的权威库存数
// 只有存在于此表的 SKU 才参与跨站同步
type GlobalProduct struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	SKU           string    `gorm:"column:sku;size:100;uniqueIndex;not null" json:"sku"`
	ProductName   string    `gorm:"size:255" json:"product_name"`
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (GlobalProduct) TableName() string {
	return "global_products"
}
