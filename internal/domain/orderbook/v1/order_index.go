package orderbookv1

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// OrderIndex holds the resting orders of one side of the book behind three views:
// priority order, order id and trader id. All mutations go through Insert and Remove,
// which update the three views together.
type OrderIndex struct {
	side     Side
	priority *btree.BTreeG[*Order]
	byID     map[OrderID]*Order
	byTrader map[string]map[OrderID]*Order
}

// NewOrderIndex creates an empty index for side. Bids are kept by price descending,
// asks by price ascending, both by sequence ascending at equal price.
func NewOrderIndex(side Side) *OrderIndex {
	return &OrderIndex{
		side:     side,
		priority: btree.NewBTreeGOptions(priorityLess(side), btree.Options{NoLocks: true}),
		byID:     make(map[OrderID]*Order),
		byTrader: make(map[string]map[OrderID]*Order),
	}
}

func priorityLess(side Side) func(a, b *Order) bool {
	if side == Bid {
		return func(a, b *Order) bool {
			if c := a.Price.Cmp(b.Price); c != 0 {
				return c > 0
			}
			return a.Sequence < b.Sequence
		}
	}
	return func(a, b *Order) bool {
		if c := a.Price.Cmp(b.Price); c != 0 {
			return c < 0
		}
		return a.Sequence < b.Sequence
	}
}

// Side returns the side this index holds.
func (x *OrderIndex) Side() Side {
	return x.side
}

// Len returns the number of resting orders.
func (x *OrderIndex) Len() int {
	return len(x.byID)
}

// Insert adds a resting order. It returns false, leaving the index unchanged,
// if the id is already present.
func (x *OrderIndex) Insert(o *Order) bool {
	if _, ok := x.byID[o.ID]; ok {
		return false
	}

	x.priority.Set(o)
	x.byID[o.ID] = o

	traderID := o.TraderID()
	orders, ok := x.byTrader[traderID]
	if !ok {
		orders = make(map[OrderID]*Order)
		x.byTrader[traderID] = orders
	}
	orders[o.ID] = o

	return true
}

// Remove deletes the order with id from every view.
func (x *OrderIndex) Remove(id OrderID) (*Order, bool) {
	o, ok := x.byID[id]
	if !ok {
		return nil, false
	}

	x.priority.Delete(o)
	delete(x.byID, id)

	traderID := o.TraderID()
	if orders, ok := x.byTrader[traderID]; ok {
		delete(orders, id)
		if len(orders) == 0 {
			delete(x.byTrader, traderID)
		}
	}

	return o, true
}

// Get looks up a resting order by id.
func (x *OrderIndex) Get(id OrderID) (*Order, bool) {
	o, ok := x.byID[id]
	return o, ok
}

// Best returns the order with the highest priority.
func (x *OrderIndex) Best() (*Order, bool) {
	return x.priority.Min()
}

// Scan walks resting orders in priority order until fn returns false.
func (x *OrderIndex) Scan(fn func(o *Order) bool) {
	x.priority.Scan(fn)
}

// ByTrader returns the resting orders of a trader ordered by sequence.
func (x *OrderIndex) ByTrader(traderID string) []*Order {
	orders := x.byTrader[traderID]
	if len(orders) == 0 {
		return nil
	}

	result := make([]*Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Sequence < result[j].Sequence
	})
	return result
}

// LevelQuantity sums the remaining quantity resting at price. It returns zero when
// nothing rests there.
func (x *OrderIndex) LevelQuantity(price decimal.Decimal) int64 {
	var total int64
	// sequences start at 1, so the pivot sorts before every order at price
	pivot := &Order{Price: price}
	x.priority.Ascend(pivot, func(o *Order) bool {
		if !o.Price.Equal(price) {
			return false
		}
		total = addQuantity(total, o.Quantity)
		return true
	})
	return total
}

// Levels aggregates the whole side into price levels, best price first.
func (x *OrderIndex) Levels() []PriceLevel {
	var levels []PriceLevel
	x.priority.Scan(func(o *Order) bool {
		if n := len(levels); n > 0 && levels[n-1].Price.Equal(o.Price) {
			levels[n-1].Quantity = addQuantity(levels[n-1].Quantity, o.Quantity)
			return true
		}
		levels = append(levels, PriceLevel{Side: x.side, Price: o.Price, Quantity: o.Quantity})
		return true
	})
	return levels
}

// addQuantity sums two non-negative quantities, saturating at math.MaxInt64.
func addQuantity(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// Validate checks that the three views hold the same orders.
func (x *OrderIndex) Validate() error {
	if x.priority.Len() != len(x.byID) {
		return fmt.Errorf("%s index: priority view has %d orders, id view has %d", x.side, x.priority.Len(), len(x.byID))
	}

	var traderCount int
	for traderID, orders := range x.byTrader {
		for id, o := range orders {
			if o.TraderID() != traderID {
				return fmt.Errorf("%s index: order %d filed under trader %q belongs to %q", x.side, id, traderID, o.TraderID())
			}
			if x.byID[id] != o {
				return fmt.Errorf("%s index: order %d missing from id view", x.side, id)
			}
		}
		traderCount += len(orders)
	}
	if traderCount != len(x.byID) {
		return fmt.Errorf("%s index: trader view has %d orders, id view has %d", x.side, traderCount, len(x.byID))
	}

	var err error
	x.priority.Scan(func(o *Order) bool {
		switch {
		case x.byID[o.ID] != o:
			err = fmt.Errorf("%s index: order %d missing from id view", x.side, o.ID)
		case o.Side != x.side:
			err = fmt.Errorf("%s index: order %d is on side %s", x.side, o.ID, o.Side)
		case o.Quantity <= 0:
			err = fmt.Errorf("%s index: order %d rests with quantity %d", x.side, o.ID, o.Quantity)
		}
		return err == nil
	})
	return err
}
