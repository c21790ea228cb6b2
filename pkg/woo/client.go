package woo

//go:generate mockgen -source=client.go -destination=mock_client.go -package=woo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	wnet "wgss_stock_sync/pkg/net"
)

// APIPath WooCommerce REST API 固定版本路径
const APIPath = "/wp-json/wc/v3"

// DefaultTimeout 单次请求默认超时
const DefaultTimeout = 15 * time.Second

// Client 单个站点的 WooCommerce 客户端
type Client interface {
	// FindProductBySKU 按 SKU 查询商品，不存在时返回 nil, nil
	FindProductBySKU(ctx context.Context, sku string) (*Product, error)
	CreateProduct(ctx context.Context, req CreateProductReq) (*Product, error)
	UpdateStock(ctx context.Context, productID int64, quantity int) (*Product, error)
	// Ping 连通性与凭证检查
	Ping(ctx context.Context) error
}

// Config 客户端参数
type Config struct {
	SiteURL         string
	ConsumerKey     string
	ConsumerSecret  string
	Timeout         time.Duration
	UserAgent       string
	QueryStringAuth bool // 部分主机会丢弃 Authorization 头，改用 query 传凭证
}

type restClient struct {
	siteKey string
	http    *resty.Client
}

var _ Client = (*restClient)(nil)

// NewClient 创建站点客户端
// dispatcher 可为 nil；不为 nil 时复用站点 Transport 并在每次请求前限速
func NewClient(cfg Config, dispatcher wnet.Dispatcher) (Client, error) {
	if strings.TrimSpace(cfg.SiteURL) == "" {
		return nil, errors.New("site url is empty")
	}
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, fmt.Errorf("missing consumer credentials for %s", cfg.SiteURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	siteKey := wnet.HostKey(cfg.SiteURL)

	client := resty.New().
		SetBaseURL(wnet.BuildAPIBase(cfg.SiteURL, APIPath)).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	if cfg.QueryStringAuth {
		client.SetQueryParams(map[string]string{
			"consumer_key":    cfg.ConsumerKey,
			"consumer_secret": cfg.ConsumerSecret,
		})
	} else {
		client.SetBasicAuth(cfg.ConsumerKey, cfg.ConsumerSecret)
	}

	if dispatcher != nil {
		client.SetTransport(dispatcher.Transport(siteKey))
		client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			return dispatcher.Wait(r.Context(), siteKey)
		})
	}

	return &restClient{siteKey: siteKey, http: client}, nil
}

func (c *restClient) FindProductBySKU(ctx context.Context, sku string) (*Product, error) {
	var products []Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("sku", sku).
		SetResult(&products).
		SetError(&ErrorResp{}).
		Get("/products")
	if err != nil {
		return nil, fmt.Errorf("查询商品失败 sku=%s: %w", sku, err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	// 远程 sku 参数是模糊匹配的插件环境下，只接受完全一致的结果
	for i := range products {
		if strings.EqualFold(products[i].SKU, sku) {
			return &products[i], nil
		}
	}
	return nil, nil
}

func (c *restClient) CreateProduct(ctx context.Context, req CreateProductReq) (*Product, error) {
	if req.Type == "" {
		req.Type = "simple"
	}
	req.ManageStock = true

	var product Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&product).
		SetError(&ErrorResp{}).
		Post("/products")
	if err != nil {
		return nil, fmt.Errorf("创建商品失败 sku=%s: %w", req.SKU, err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *restClient) UpdateStock(ctx context.Context, productID int64, quantity int) (*Product, error) {
	var product Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(UpdateStockReq{StockQuantity: quantity, ManageStock: true}).
		SetResult(&product).
		SetError(&ErrorResp{}).
		Put("/products/" + strconv.FormatInt(productID, 10))
	if err != nil {
		return nil, fmt.Errorf("更新库存失败 product=%d: %w", productID, err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *restClient) Ping(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("per_page", "1").
		SetError(&ErrorResp{}).
		Get("/products")
	if err != nil {
		return fmt.Errorf("连接站点失败: %w", err)
	}
	return checkResponse(resp)
}

// checkResponse 将非 2xx 响应转换为 *APIError
func checkResponse(resp *resty.Response) error {
	if !resp.IsError() && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if e, ok := resp.Error().(*ErrorResp); ok && e != nil && e.Message != "" {
		apiErr.Code = e.Code
		apiErr.Message = e.Message
	} else {
		body := resp.String()
		if len(body) > 256 {
			body = body[:256]
		}
		apiErr.Message = body
	}
	return apiErr
}
