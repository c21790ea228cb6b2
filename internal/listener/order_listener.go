package listener

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"wgss_stock_sync/internal/service"
)

// EventOrderPlaced 中心下单事件
const EventOrderPlaced = "order.placed"

// MessageReader kafka 消息读取（*kafka.Reader 实现）
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// OrderDeducter 订单扣减（由 service.StockService 实现）
type OrderDeducter interface {
	OrderDeduct(ctx context.Context, in service.OrderDeductInput) (*service.StockChangeResult, error)
}

// ReaderConfig kafka 消费配置
type ReaderConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// NewKafkaReader 创建消费组 Reader，ReadMessage 会自动提交位点
func NewKafkaReader(cfg ReaderConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
}

// OrderPlacedEvent 订单事件
type OrderPlacedEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	OrderID   string      `json:"order_id"`
	SiteURL   string      `json:"site_url"`
	Items     []OrderItem `json:"items"`
}

type OrderItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// ==================== OrderListener ====================

// OrderListener 消费订单事件，逐个商品执行中心扣减
type OrderListener struct {
	reader     MessageReader
	stock      OrderDeducter
	logger     *zap.Logger
	retryDelay time.Duration
}

func NewOrderListener(reader MessageReader, stock OrderDeducter, logger *zap.Logger) *OrderListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderListener{
		reader:     reader,
		stock:      stock,
		logger:     logger.With(zap.String("component", "order_listener")),
		retryDelay: time.Second,
	}
}

// Start 阻塞消费直到 ctx 取消
func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("订单事件监听已启动")
	defer l.logger.Info("订单事件监听已停止")

	for {
		msg, err := l.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Error("读取 kafka 消息失败", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.retryDelay):
			}
			continue
		}
		l.handleMessage(ctx, msg.Value)
	}
}

// Close 关闭 reader
func (l *OrderListener) Close() error {
	return l.reader.Close()
}

func (l *OrderListener) handleMessage(ctx context.Context, value []byte) {
	var event OrderPlacedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("订单事件解析失败", zap.Error(err), zap.ByteString("value", value))
		return
	}

	if !strings.EqualFold(event.EventType, EventOrderPlaced) {
		l.logger.Debug("忽略事件", zap.String("event_type", event.EventType))
		return
	}

	l.logger.Info("处理订单事件",
		zap.String("event_id", event.EventID),
		zap.String("order_id", event.OrderID),
		zap.Int("items", len(event.Items)))

	for _, item := range event.Items {
		_, err := l.stock.OrderDeduct(ctx, service.OrderDeductInput{
			SKU:      item.SKU,
			Quantity: item.Quantity,
			OrderID:  event.OrderID,
			SiteURL:  event.SiteURL,
		})
		if err != nil {
			// 单个商品失败不影响其他商品
			l.logger.Error("订单商品扣减失败",
				zap.String("order_id", event.OrderID),
				zap.String("sku", item.SKU),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}
}
