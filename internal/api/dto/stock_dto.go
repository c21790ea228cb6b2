package dto

import (
	"bytes"
	"encoding/json"
)

// ================== Stock 同步 DTO ==================

// StockChangeReq reduce / restore 请求
type StockChangeReq struct {
	SKU     string     `json:"sku" binding:"required"`
	Qty     int        `json:"qty" binding:"required,gt=0"`
	OrderID FlexString `json:"order_id"`
}

// ManualUpdateReq manual 请求，stock 为绝对值
type ManualUpdateReq struct {
	SKU   string `json:"sku" binding:"required"`
	Stock *int   `json:"stock" binding:"required,gte=0"`
}

// OrderDeductReq order 请求（中心下单）
type OrderDeductReq struct {
	SKU      string     `json:"sku" binding:"required"`
	Quantity int        `json:"quantity" binding:"required,gt=0"`
	OrderID  FlexString `json:"orderId"`
	SiteURL  string     `json:"siteUrl"`
}

// FlexString 兼容 JSON 字符串与数字（WooCommerce 回调的订单号是数字）
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}
