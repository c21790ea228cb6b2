package model

import "time"

// ProductSiteMapping SKU 与远程站点商品 ID 的映射
// 首次推送时发现并缓存，之后直接复用
type ProductSiteMapping struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	ProductSKU   string     `gorm:"column:product_sku;size:100;not null;uniqueIndex:idx_mapping_sku_site" json:"product_sku"`
	SiteID       int64      `gorm:"not null;uniqueIndex:idx_mapping_sku_site;index" json:"site_id"`
	WooProductID int64      `gorm:"not null" json:"woo_product_id"`
	LastSynced   *time.Time `json:"last_synced"`
}

func (ProductSiteMapping) TableName() string {
	return "product_site_mappings"
}
