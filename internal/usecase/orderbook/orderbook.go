package orderbook

import (
	"context"
	"sync"

	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/pkg/errors"
	"github.com/krewshul/pyxchange/pkg/logger"
	"github.com/shopspring/decimal"
)

// Orderbook is a price-time priority book for one instrument. Every operation
// runs to completion under one lock, notifications and broadcasts included.
type Orderbook struct {
	mu        sync.Mutex
	bids      *orderbookv1.OrderIndex
	asks      *orderbookv1.OrderIndex
	sequence  uint64
	logger    *logger.Logger
	publisher orderbookv1.PriceLevelPublisher
	matchID   func() string
}

// NewOrderbook creates an empty book. publisher may be nil.
func NewOrderbook(log *logger.Logger, publisher orderbookv1.PriceLevelPublisher) *Orderbook {
	return NewOrderbookWithOptions(log, publisher, DefaultOptions())
}

// NewOrderbookWithOptions creates an empty book with custom options.
func NewOrderbookWithOptions(log *logger.Logger, publisher orderbookv1.PriceLevelPublisher, options *Options) *Orderbook {
	opts := *options
	if opts.MatchID == nil {
		opts.MatchID = DefaultOptions().MatchID
	}
	if opts.Instrument != "" {
		log = log.WithFields(logger.NewField("instrument", opts.Instrument))
	}

	ob := &Orderbook{
		bids:      orderbookv1.NewOrderIndex(orderbookv1.Bid),
		asks:      orderbookv1.NewOrderIndex(orderbookv1.Ask),
		logger:    log,
		publisher: publisher,
		matchID:   opts.MatchID,
	}

	ob.logger.Info("Order book ready")
	return ob
}

// CreateOrder validates a limit order, matches it against the opposite side
// and rests whatever remains.
func (ob *Orderbook) CreateOrder(ctx context.Context, trader orderbookv1.Trader, req *orderbookv1.Request) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, err := orderbookv1.NewOrder(trader, req, false, ob.sequence+1, ob.idTaken)
	if err != nil {
		ob.reject(ctx, trader, err)
		return
	}
	ob.sequence++

	ob.logger.InfoContext(ctx, "Trader added order",
		logger.NewField("trader", trader.ID()),
		logger.NewField("order", order.String()),
	)

	ob.publish(ob.execute(ctx, order))
}

// MarketOrder validates a market order and matches it against the opposite side.
// It never rests; an unfilled remainder is dropped.
func (ob *Orderbook) MarketOrder(ctx context.Context, trader orderbookv1.Trader, req *orderbookv1.Request) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, err := orderbookv1.NewOrder(trader, req, true, ob.sequence+1, nil)
	if err != nil {
		ob.reject(ctx, trader, err)
		return
	}
	ob.sequence++

	ob.logger.InfoContext(ctx, "Trader added order",
		logger.NewField("trader", trader.ID()),
		logger.NewField("order", order.String()),
	)

	ob.publish(ob.execute(ctx, order))
}

func (ob *Orderbook) idTaken(id orderbookv1.OrderID) bool {
	if _, ok := ob.bids.Get(id); ok {
		return true
	}
	_, ok := ob.asks.Get(id)
	return ok
}

func (ob *Orderbook) index(side orderbookv1.Side) *orderbookv1.OrderIndex {
	if side == orderbookv1.Bid {
		return ob.bids
	}
	return ob.asks
}

// execute crosses order against the opposite side and returns the touched levels.
func (ob *Orderbook) execute(ctx context.Context, order *orderbookv1.Order) []orderbookv1.PriceLevel {
	own := ob.index(order.Side)
	opposite := ob.index(order.Side.Opposite())
	touched := orderbookv1.NewPriceSet(opposite.Side())

	for !order.IsFilled() {
		resting, ok := opposite.Best()
		if !ok || !order.Crosses(resting) {
			break
		}

		price := resting.Price
		filled := order.Fill(resting)
		touched.Add(price)

		if resting.IsFilled() {
			opposite.Remove(resting.ID)
		}

		ob.notifyFill(ctx, order, resting, price, filled)
	}

	levels := touched.Aggregate(opposite)

	if order.IsFilled() {
		return levels
	}

	if order.Market {
		ob.logger.InfoContext(ctx, "Market order remainder dropped",
			logger.NewField("trader", order.TraderID()),
			logger.NewField("order", order.String()),
			logger.NewField("dropped", order.Quantity),
		)
		return levels
	}

	own.Insert(order)
	order.Trader.NotifyExecution(orderbookv1.ExecutionReport{
		Report:   orderbookv1.ReportNew,
		OrderID:  order.ID,
		Side:     order.Side,
		Price:    order.Price,
		Quantity: order.Quantity,
	})

	return append(levels, orderbookv1.PriceLevel{
		Side:     order.Side,
		Price:    order.Price,
		Quantity: own.LevelQuantity(order.Price),
	})
}

func (ob *Orderbook) notifyFill(ctx context.Context, incoming, resting *orderbookv1.Order, price decimal.Decimal, filled int64) {
	matchID := ob.matchID()

	ob.logger.InfoContext(ctx, "Trade executed",
		logger.NewField("matchId", matchID),
		logger.NewField("price", price.String()),
		logger.NewField("quantity", filled),
		logger.NewField("incomingTrader", incoming.TraderID()),
		logger.NewField("incomingOrderId", incoming.ID),
		logger.NewField("restingTrader", resting.TraderID()),
		logger.NewField("restingOrderId", resting.ID),
	)

	incoming.Trader.NotifyExecution(fillReport(incoming, resting, matchID, price, filled))
	resting.Trader.NotifyExecution(fillReport(resting, incoming, matchID, price, filled))
}

func fillReport(receiver, counterparty *orderbookv1.Order, matchID string, price decimal.Decimal, filled int64) orderbookv1.ExecutionReport {
	return orderbookv1.ExecutionReport{
		Report:         orderbookv1.ReportFill,
		OrderID:        receiver.ID,
		MatchID:        matchID,
		Side:           receiver.Side,
		Price:          price,
		Quantity:       filled,
		LeavesQuantity: receiver.Quantity,
		Counterparty:   counterparty.TraderID(),
	}
}

// reject logs a validation failure and notifies the trader with its fixed text.
func (ob *Orderbook) reject(ctx context.Context, trader orderbookv1.Trader, err error) {
	ob.logger.WarnContext(ctx, "Order rejected",
		logger.NewField("trader", trader.ID()),
		logger.NewField("reason", errors.CodeOf(err)),
	)
	trader.NotifyError(err.Error())
}

func (ob *Orderbook) publish(levels []orderbookv1.PriceLevel) {
	if ob.publisher == nil || len(levels) == 0 {
		return
	}
	ob.publisher.PublishPriceLevels(levels)
}
