package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/pkg/logger"
	redis_mock "github.com/krewshul/pyxchange/pkg/redis/mock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testFixture struct {
	ctrl   *gomock.Controller
	redis  *redis_mock.MockClient
	logs   *observer.ObservedLogs
	client *Client
}

func setupTestFixture(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)
	rc := redis_mock.NewMockClient(ctrl)
	core, logs := observer.New(zapcore.DebugLevel)

	rc.EXPECT().Key("book", "BTC-USD", gomock.Any()).DoAndReturn(func(parts ...string) string {
		return "px:" + parts[0] + ":" + parts[1] + ":" + parts[2]
	}).AnyTimes()

	return &testFixture{
		ctrl:   ctrl,
		redis:  rc,
		logs:   logs,
		client: NewClient("redis", rc, "orderbook", "BTC-USD", logger.FromZap(zap.New(core))),
	}
}

func TestClient_NotifyPriceLevel(t *testing.T) {
	testCases := []struct {
		name       string
		level      orderbookv1.PriceLevel
		setupMocks func(f *testFixture)
	}{
		{
			name:  "level updated",
			level: orderbookv1.PriceLevel{Side: orderbookv1.Ask, Price: decimal.RequireFromString("100.50"), Quantity: 6},
			setupMocks: func(f *testFixture) {
				f.redis.EXPECT().
					Publish(gomock.Any(), "orderbook", []byte(`{"message":"orderBook","side":"SELL","price":100.5,"quantity":6}`)).
					Return(int64(1), nil)
				f.redis.EXPECT().
					HSet(gomock.Any(), "px:book:BTC-USD:SELL", map[string]any{"100.5": int64(6)}).
					Return(int64(1), nil)
			},
		},
		{
			name:  "level removed",
			level: orderbookv1.PriceLevel{Side: orderbookv1.Bid, Price: decimal.NewFromInt(99), Quantity: 0},
			setupMocks: func(f *testFixture) {
				f.redis.EXPECT().
					Publish(gomock.Any(), "orderbook", gomock.Any()).
					Return(int64(0), nil)
				f.redis.EXPECT().
					HDel(gomock.Any(), "px:book:BTC-USD:BUY", "99").
					Return(int64(1), nil)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			defer f.ctrl.Finish()

			tc.setupMocks(f)
			f.client.NotifyPriceLevel(tc.level)
			f.client.Close()

			assert.Zero(t, f.logs.Len())
		})
	}
}

func TestClient_NotifyPriceLevel_Failures(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	f.redis.EXPECT().Publish(gomock.Any(), "orderbook", gomock.Any()).Return(int64(0), errors.New("connection reset"))
	f.redis.EXPECT().HSet(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection reset"))

	f.client.NotifyPriceLevel(orderbookv1.PriceLevel{Side: orderbookv1.Bid, Price: decimal.NewFromInt(1), Quantity: 1})
	f.client.Close()

	errs := f.logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 2)
	assert.Equal(t, "publish_price_level", errs[0].ContextMap()["action"])
	assert.Equal(t, "update_depth", errs[1].ContextMap()["action"])
}

func TestClient_SlowRedisDoesNotBlockNotify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rc := redis_mock.NewMockClient(ctrl)
	core, logs := observer.New(zapcore.DebugLevel)
	client := NewClientWithQueue("redis", rc, "orderbook", "BTC-USD", logger.FromZap(zap.New(core)), 1)

	entered := make(chan struct{})
	release := make(chan struct{})
	rc.EXPECT().Key("book", "BTC-USD", gomock.Any()).Return("px:book").AnyTimes()
	rc.EXPECT().HSet(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil).Times(2)
	gomock.InOrder(
		rc.EXPECT().
			Publish(gomock.Any(), "orderbook", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ any) (int64, error) {
				close(entered)
				<-release
				return 1, nil
			}),
		rc.EXPECT().Publish(gomock.Any(), "orderbook", gomock.Any()).Return(int64(1), nil),
	)

	level := orderbookv1.PriceLevel{Side: orderbookv1.Ask, Price: decimal.NewFromInt(100), Quantity: 1}
	client.NotifyPriceLevel(level)
	<-entered

	done := make(chan struct{})
	go func() {
		defer close(done)
		client.NotifyPriceLevel(level)
		client.NotifyPriceLevel(level)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("NotifyPriceLevel blocked on redis")
	}

	dropped := logs.FilterMessage("Price level dropped").All()
	require.Len(t, dropped, 1)
	assert.Equal(t, "queue full", dropped[0].ContextMap()["error"])

	close(release)
	client.Close()

	client.NotifyPriceLevel(level)
	assert.Equal(t, 2, logs.FilterMessage("Price level dropped").Len())
}

func TestClient_Depth(t *testing.T) {
	testCases := []struct {
		name      string
		side      orderbookv1.Side
		stored    map[string]string
		expected  []string
		expectErr bool
	}{
		{
			name:     "bids best first",
			side:     orderbookv1.Bid,
			stored:   map[string]string{"99": "3", "101": "1", "100.5": "2"},
			expected: []string{"101", "100.5", "99"},
		},
		{
			name:     "asks best first",
			side:     orderbookv1.Ask,
			stored:   map[string]string{"99": "3", "101": "1", "100.5": "2"},
			expected: []string{"99", "100.5", "101"},
		},
		{
			name:      "corrupt quantity",
			side:      orderbookv1.Ask,
			stored:    map[string]string{"99": "lots"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			defer f.ctrl.Finish()

			f.redis.EXPECT().HGetAll(gomock.Any(), "px:book:BTC-USD:"+tc.side.String()).Return(tc.stored, nil)

			levels, err := f.client.Depth(context.Background(), tc.side)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			var prices []string
			for _, l := range levels {
				prices = append(prices, l.Price.String())
				assert.Equal(t, tc.side, l.Side)
			}
			assert.Equal(t, tc.expected, prices)
		})
	}
}
