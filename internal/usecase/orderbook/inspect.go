package orderbook

import (
	"fmt"

	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
)

// BestBid returns the best bid level.
func (ob *Orderbook) BestBid() (orderbookv1.PriceLevel, bool) {
	return ob.best(ob.bids)
}

// BestAsk returns the best ask level.
func (ob *Orderbook) BestAsk() (orderbookv1.PriceLevel, bool) {
	return ob.best(ob.asks)
}

func (ob *Orderbook) best(index *orderbookv1.OrderIndex) (orderbookv1.PriceLevel, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	o, ok := index.Best()
	if !ok {
		return orderbookv1.PriceLevel{}, false
	}
	return orderbookv1.PriceLevel{
		Side:     index.Side(),
		Price:    o.Price,
		Quantity: index.LevelQuantity(o.Price),
	}, true
}

// Levels returns the full aggregated depth of side, best price first.
func (ob *Orderbook) Levels(side orderbookv1.Side) []orderbookv1.PriceLevel {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	return ob.index(side).Levels()
}

// Len returns the number of orders resting on side.
func (ob *Orderbook) Len(side orderbookv1.Side) int {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	return ob.index(side).Len()
}

// Order returns a copy of a resting order.
func (ob *Orderbook) Order(id orderbookv1.OrderID) (orderbookv1.Order, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	o, _ := ob.lookup(id)
	if o == nil {
		return orderbookv1.Order{}, false
	}
	return *o, true
}

// Validate checks the consistency of both indexes and that the book is uncrossed.
func (ob *Orderbook) Validate() error {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if err := ob.bids.Validate(); err != nil {
		return err
	}
	if err := ob.asks.Validate(); err != nil {
		return err
	}

	var err error
	ob.bids.Scan(func(o *orderbookv1.Order) bool {
		if _, dup := ob.asks.Get(o.ID); dup {
			err = fmt.Errorf("order %d rests on both sides", o.ID)
		}
		return err == nil
	})
	if err != nil {
		return err
	}

	bid, hasBid := ob.bids.Best()
	ask, hasAsk := ob.asks.Best()
	if hasBid && hasAsk && bid.Price.GreaterThanOrEqual(ask.Price) {
		return fmt.Errorf("book crossed: best bid %s >= best ask %s", bid.Price, ask.Price)
	}
	return nil
}
