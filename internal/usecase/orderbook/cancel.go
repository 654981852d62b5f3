package orderbook

import (
	"context"

	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/pkg/logger"
)

// CancelOrder removes one resting order owned by trader. A missing id, or one
// owned by another trader, leaves the book untouched and is answered with an error text.
func (ob *Orderbook) CancelOrder(ctx context.Context, trader orderbookv1.Trader, req *orderbookv1.Request) bool {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	id, err := req.ParseOrderID()
	if err != nil {
		ob.notFound(ctx, trader, 0)
		return false
	}

	order, index := ob.lookup(id)
	if order == nil || order.TraderID() != trader.ID() {
		ob.notFound(ctx, trader, id)
		return false
	}

	index.Remove(id)

	ob.logger.InfoContext(ctx, "Trader canceled order",
		logger.NewField("trader", trader.ID()),
		logger.NewField("order", order.String()),
	)

	trader.NotifyExecution(orderbookv1.ExecutionReport{
		Report:   orderbookv1.ReportCanceled,
		OrderID:  order.ID,
		Side:     order.Side,
		Price:    order.Price,
		Quantity: order.Quantity,
	})

	ob.publish([]orderbookv1.PriceLevel{{
		Side:     order.Side,
		Price:    order.Price,
		Quantity: index.LevelQuantity(order.Price),
	}})
	return true
}

// CancelAllOrders removes every resting order of trader on both sides and
// returns how many were removed per side. Each touched price level is
// broadcast once.
func (ob *Orderbook) CancelAllOrders(ctx context.Context, trader orderbookv1.Trader) (bidCount, askCount int) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	bidLevels, bidCount := cancelAll(ob.bids, trader.ID())
	askLevels, askCount := cancelAll(ob.asks, trader.ID())

	if bidCount > 0 || askCount > 0 {
		ob.logger.InfoContext(ctx, "Trader canceled all orders",
			logger.NewField("trader", trader.ID()),
			logger.NewField("bidCount", bidCount),
			logger.NewField("askCount", askCount),
		)
		ob.publish(append(bidLevels, askLevels...))
	}

	trader.NotifyExecution(orderbookv1.ExecutionReport{
		Report:   orderbookv1.ReportCanceledAll,
		BidCount: bidCount,
		AskCount: askCount,
	})

	return bidCount, askCount
}

func cancelAll(index *orderbookv1.OrderIndex, traderID string) ([]orderbookv1.PriceLevel, int) {
	prices := orderbookv1.NewPriceSet(index.Side())

	orders := index.ByTrader(traderID)
	for _, o := range orders {
		index.Remove(o.ID)
		prices.Add(o.Price)
	}

	return prices.Aggregate(index), len(orders)
}

func (ob *Orderbook) lookup(id orderbookv1.OrderID) (*orderbookv1.Order, *orderbookv1.OrderIndex) {
	if o, ok := ob.bids.Get(id); ok {
		return o, ob.bids
	}
	if o, ok := ob.asks.Get(id); ok {
		return o, ob.asks
	}
	return nil, nil
}

func (ob *Orderbook) notFound(ctx context.Context, trader orderbookv1.Trader, id orderbookv1.OrderID) {
	ob.logger.DebugContext(ctx, "Cancel ignored",
		logger.NewField("trader", trader.ID()),
		logger.NewField("orderId", id),
	)
	trader.NotifyError(orderbookv1.TextOrderNotFound)
}
