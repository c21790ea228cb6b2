package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ==================== 统一响应 ====================

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// bindErrorMessage 把 binding 错误转成可读信息
// 例: "sku is required; qty must be greater than 0"
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body: " + err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := jsonFieldName(fe)
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// jsonFieldName 与请求体中的字段名保持一致（sku, qty, siteUrl）
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	switch name {
	case "SKU":
		return "sku"
	case "Qty":
		return "qty"
	case "Stock":
		return "stock"
	case "Quantity":
		return "quantity"
	case "SiteURL":
		return "site_url"
	case "ConsumerKey":
		return "consumer_key"
	case "ConsumerSecret":
		return "consumer_secret"
	case "StockQuantity":
		return "stock_quantity"
	case "IsActive":
		return "is_active"
	}
	return strings.ToLower(name)
}
