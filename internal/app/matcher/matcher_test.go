package matcher

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	orderbookv1_mock "github.com/krewshul/pyxchange/internal/domain/orderbook/v1/mock"
	"github.com/krewshul/pyxchange/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testFixture struct {
	ctrl    *gomock.Controller
	matcher *Matcher
	logs    *observer.ObservedLogs
}

func setupTestFixture(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)
	core, logs := observer.New(zapcore.DebugLevel)
	return &testFixture{
		ctrl:    ctrl,
		matcher: NewMatcher(logger.FromZap(zap.New(core))),
		logs:    logs,
	}
}

func (f *testFixture) trader(id string) *orderbookv1_mock.MockTrader {
	trader := orderbookv1_mock.NewMockTrader(f.ctrl)
	trader.EXPECT().ID().Return(id).AnyTimes()
	return trader
}

func (f *testFixture) client(id string) *orderbookv1_mock.MockClient {
	client := orderbookv1_mock.NewMockClient(f.ctrl)
	client.EXPECT().ID().Return(id).AnyTimes()
	return client
}

func TestMatcher_Registry(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	alice := f.trader("alice")
	f.matcher.AddTrader(alice)

	found, ok := f.matcher.Trader("alice")
	require.True(t, ok)
	assert.Equal(t, alice, found)

	f.matcher.RemoveTrader(alice)
	_, ok = f.matcher.Trader("alice")
	assert.False(t, ok)
}

func TestMatcher_HandleMessage_Rejected(t *testing.T) {
	testCases := []struct {
		name     string
		data     string
		expected string
	}{
		{name: "malformed json", data: `{"message":`, expected: orderbookv1.TextMalformed},
		{name: "unknown type", data: `{"message":"quote"}`, expected: orderbookv1.TextUnknownMessage},
		{name: "missing type", data: `{"side":"BUY"}`, expected: orderbookv1.TextUnknownMessage},
		{name: "wrong side", data: `{"message":"createOrder","orderId":1,"side":"buy","price":1,"quantity":1}`, expected: orderbookv1.TextWrongSide},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			defer f.ctrl.Finish()

			trader := f.trader("alice")
			trader.EXPECT().NotifyError(tc.expected).Times(1)

			f.matcher.HandleMessage(context.Background(), trader, []byte(tc.data))

			assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.WarnLevel).Len())
			assert.Zero(t, f.matcher.Orderbook().Len(orderbookv1.Bid))
		})
	}
}

func TestMatcher_Broadcast(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()
	ctx := context.Background()

	seller := f.trader("seller")
	buyer := f.trader("buyer")
	subscribed := f.client("subscribed")
	removed := f.client("removed")

	f.matcher.AddTrader(seller)
	f.matcher.AddTrader(buyer)
	f.matcher.AddClient(subscribed)
	f.matcher.AddClient(removed)

	var levels []orderbookv1.PriceLevel
	subscribed.EXPECT().NotifyPriceLevel(gomock.Any()).Do(func(level orderbookv1.PriceLevel) {
		levels = append(levels, level)
	}).Times(2)
	removed.EXPECT().NotifyPriceLevel(gomock.Any()).Times(1)

	seller.EXPECT().NotifyExecution(gomock.Any()).Do(func(report orderbookv1.ExecutionReport) {
		assert.Equal(t, orderbookv1.ReportNew, report.Report)
		assert.Equal(t, int64(10), report.Quantity)
	})
	f.matcher.HandleMessage(ctx, seller, []byte(`{"message":"createOrder","orderId":1,"side":"SELL","price":100,"quantity":10}`))

	f.matcher.RemoveClient(removed)

	gomock.InOrder(
		buyer.EXPECT().NotifyExecution(gomock.Any()).Do(func(report orderbookv1.ExecutionReport) {
			assert.Equal(t, orderbookv1.ReportFill, report.Report)
			assert.Equal(t, "seller", report.Counterparty)
			assert.Equal(t, int64(4), report.Quantity)
			assert.Equal(t, int64(0), report.LeavesQuantity)
		}),
		seller.EXPECT().NotifyExecution(gomock.Any()).Do(func(report orderbookv1.ExecutionReport) {
			assert.Equal(t, orderbookv1.ReportFill, report.Report)
			assert.Equal(t, "buyer", report.Counterparty)
			assert.Equal(t, int64(6), report.LeavesQuantity)
		}),
	)
	f.matcher.HandleMessage(ctx, buyer, []byte(`{"message":"marketOrder","side":"BUY","quantity":4}`))

	require.Len(t, levels, 2)
	assert.Equal(t, orderbookv1.Ask, levels[0].Side)
	assert.Equal(t, "100", levels[0].Price.String())
	assert.Equal(t, int64(10), levels[0].Quantity)
	assert.Equal(t, int64(6), levels[1].Quantity)
}

func TestMatcher_HandleRequest_Cancel(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()
	ctx := context.Background()

	trader := f.trader("alice")
	trader.EXPECT().NotifyExecution(gomock.Any()).Times(2)
	f.matcher.HandleMessage(ctx, trader, []byte(`{"message":"createOrder","orderId":1,"side":"BUY","price":99,"quantity":3}`))
	f.matcher.HandleMessage(ctx, trader, []byte(`{"message":"createOrder","orderId":2,"side":"BUY","price":98,"quantity":3}`))

	trader.EXPECT().NotifyExecution(gomock.Any()).Do(func(report orderbookv1.ExecutionReport) {
		assert.Equal(t, orderbookv1.ReportCanceled, report.Report)
		assert.Equal(t, orderbookv1.OrderID(1), report.OrderID)
	})
	f.matcher.HandleMessage(ctx, trader, []byte(`{"message":"cancelOrder","orderId":1}`))

	trader.EXPECT().NotifyExecution(gomock.Any()).Do(func(report orderbookv1.ExecutionReport) {
		assert.Equal(t, orderbookv1.ReportCanceledAll, report.Report)
		assert.Equal(t, 1, report.BidCount)
		assert.Equal(t, 0, report.AskCount)
	})
	f.matcher.HandleMessage(ctx, trader, []byte(`{"type":"cancelAllOrders"}`))

	assert.Zero(t, f.matcher.Orderbook().Len(orderbookv1.Bid))
}
