package metrics

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	orderbookv1_mock "github.com/krewshul/pyxchange/internal/domain/orderbook/v1/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Trader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := New(prometheus.NewRegistry())

	inner := orderbookv1_mock.NewMockTrader(ctrl)
	inner.EXPECT().ID().Return("alice")
	inner.EXPECT().NotifyError(orderbookv1.TextWrongPrice)
	inner.EXPECT().NotifyExecution(gomock.Any()).Times(3)

	trader := m.Trader(inner)
	assert.Equal(t, "alice", trader.ID())

	trader.NotifyError(orderbookv1.TextWrongPrice)
	trader.NotifyExecution(orderbookv1.ExecutionReport{Report: orderbookv1.ReportFill})
	trader.NotifyExecution(orderbookv1.ExecutionReport{Report: orderbookv1.ReportFill})
	trader.NotifyExecution(orderbookv1.ExecutionReport{Report: orderbookv1.ReportNew})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues(orderbookv1.TextWrongPrice)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.executions.WithLabelValues("FILL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.executions.WithLabelValues("NEW")))
}

func TestMetrics_Client(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := New(prometheus.NewRegistry())

	inner := orderbookv1_mock.NewMockClient(ctrl)
	inner.EXPECT().ID().Return("redis").AnyTimes()
	inner.EXPECT().NotifyPriceLevel(gomock.Any()).Times(2)

	client := m.Client(inner)
	client.NotifyPriceLevel(orderbookv1.PriceLevel{})
	client.NotifyPriceLevel(orderbookv1.PriceLevel{})

	assert.Equal(t, "redis", client.ID())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.priceLevels.WithLabelValues("redis")))
}

func TestMetrics_ObserveMessage(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveMessage(time.Now().Add(-time.Millisecond))

	count, err := testutil.GatherAndCount(reg, "pyxchange_engine_message_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
