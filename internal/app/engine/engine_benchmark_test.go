package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/krewshul/pyxchange/internal/app/matcher"
	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/internal/usecase/codec"
	"github.com/krewshul/pyxchange/pkg/config"
	"github.com/krewshul/pyxchange/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type nopTrader string

func (t nopTrader) ID() string                                  { return string(t) }
func (t nopTrader) NotifyError(string)                          {}
func (t nopTrader) NotifyExecution(orderbookv1.ExecutionReport) {}

type benchmarkTestCase struct {
	name      string
	setupData func(*Engine, *testing.B)
	message   func(i int) kafka.Message
}

func setupBenchmarkEngine(b *testing.B) *Engine {
	b.Helper()

	engine := NewEngine(
		matcher.NewMatcher(logger.NewNop()),
		nil,
		func(id string) orderbookv1.Trader { return nopTrader(id) },
		logger.NewNop(),
		&config.Config{Instrument: "BTC-USD"},
	)
	engine.ctx = context.Background()
	return engine
}

func limitMessage(trader string, id int, side orderbookv1.Side, price int64) kafka.Message {
	return kafka.Message{
		Key:   []byte(trader),
		Value: codec.EncodeCreateOrder(orderbookv1.OrderID(id), side, decimal.NewFromInt(price), 10),
	}
}

func BenchmarkEngine_ProcessMessage(b *testing.B) {
	testCases := []benchmarkTestCase{
		{
			name:      "resting_limit_orders",
			setupData: func(e *Engine, b *testing.B) {},
			message: func(i int) kafka.Message {
				side := orderbookv1.Bid
				price := int64(49_000 + i%100)
				if i%2 == 0 {
					side = orderbookv1.Ask
					price = int64(51_000 + i%100)
				}
				return limitMessage(fmt.Sprintf("user-%d", i%50), i+1, side, price)
			},
		},
		{
			name: "market_orders_against_depth",
			setupData: func(e *Engine, b *testing.B) {
				for i := 0; i < b.N; i++ {
					e.processMessage(limitMessage("maker", i+1, orderbookv1.Ask, int64(50_000+i%100)))
				}
			},
			message: func(i int) kafka.Message {
				return kafka.Message{
					Key:   []byte(fmt.Sprintf("taker-%d", i%50)),
					Value: codec.EncodeMarketOrder(orderbookv1.Bid, 10),
				}
			},
		},
		{
			name: "cancel_orders",
			setupData: func(e *Engine, b *testing.B) {
				for i := 0; i < b.N; i++ {
					e.processMessage(limitMessage("maker", i+1, orderbookv1.Bid, int64(50_000-i%100)))
				}
			},
			message: func(i int) kafka.Message {
				return kafka.Message{
					Key:   []byte("maker"),
					Value: codec.EncodeCancelOrder(orderbookv1.OrderID(i + 1)),
				}
			},
		},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			engine := setupBenchmarkEngine(b)
			tc.setupData(engine, b)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				engine.processMessage(tc.message(i))
			}
		})
	}
}
