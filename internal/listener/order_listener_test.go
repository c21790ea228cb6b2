package listener

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"wgss_stock_sync/internal/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ==================== 测试替身 ====================

// fakeReader 按顺序返回预置消息，耗尽后阻塞到 ctx 取消
type fakeReader struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	errs   []error
	closed bool
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.msgs) > 0 {
		msg := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

type fakeDeducter struct {
	mu    sync.Mutex
	calls []service.OrderDeductInput
	fail  map[string]error
}

func (f *fakeDeducter) OrderDeduct(_ context.Context, in service.OrderDeductInput) (*service.StockChangeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, in)
	if err := f.fail[in.SKU]; err != nil {
		return nil, err
	}
	return &service.StockChangeResult{SKU: in.SKU}, nil
}

func (f *fakeDeducter) snapshot() []service.OrderDeductInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.OrderDeductInput(nil), f.calls...)
}

// ==================== handleMessage ====================

func TestHandleMessage(t *testing.T) {
	tests := []struct {
		name  string
		value string
		fail  map[string]error
		want  []service.OrderDeductInput
	}{
		{
			name:  "下单事件逐个扣减",
			value: `{"event_id":"e1","event_type":"order.placed","order_id":"C-1","site_url":"https://central.example","items":[{"sku":"A1","quantity":2},{"sku":"B2","quantity":1}]}`,
			want: []service.OrderDeductInput{
				{SKU: "A1", Quantity: 2, OrderID: "C-1", SiteURL: "https://central.example"},
				{SKU: "B2", Quantity: 1, OrderID: "C-1", SiteURL: "https://central.example"},
			},
		},
		{
			name:  "单个失败不影响后续",
			value: `{"event_type":"order.placed","order_id":"C-2","items":[{"sku":"A1","quantity":9},{"sku":"B2","quantity":1}]}`,
			fail:  map[string]error{"A1": service.ErrInsufficientStock},
			want: []service.OrderDeductInput{
				{SKU: "A1", Quantity: 9, OrderID: "C-2"},
				{SKU: "B2", Quantity: 1, OrderID: "C-2"},
			},
		},
		{
			name:  "未知事件类型忽略",
			value: `{"event_type":"order.refunded","order_id":"C-3","items":[{"sku":"A1","quantity":1}]}`,
		},
		{
			name:  "非法 JSON 忽略",
			value: `{"event_type":`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock := &fakeDeducter{fail: tt.fail}
			l := NewOrderListener(&fakeReader{}, stock, zap.NewNop())

			l.handleMessage(context.Background(), []byte(tt.value))
			assert.Equal(t, tt.want, stock.calls)
		})
	}
}

// ==================== Start ====================

func TestStart_ConsumesUntilCancelled(t *testing.T) {
	reader := &fakeReader{
		errs: []error{errors.New("broker unavailable")},
		msgs: []kafka.Message{
			{Value: []byte(`{"event_type":"order.placed","order_id":"1","items":[{"sku":"A1","quantity":1}]}`)},
			{Value: []byte(`{"event_type":"order.placed","order_id":"2","items":[{"sku":"A1","quantity":3}]}`)},
		},
	}
	stock := &fakeDeducter{}
	l := NewOrderListener(reader, stock, zap.NewNop())
	l.retryDelay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(stock.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop after cancel")
	}

	calls := stock.snapshot()
	assert.Equal(t, "1", calls[0].OrderID)
	assert.Equal(t, 3, calls[1].Quantity)

	require.NoError(t, l.Close())
	assert.True(t, reader.closed)
}
