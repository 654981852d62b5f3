package orderbookv1

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side is the side of the book an order rests on.
type Side int

const (
	// Bid is the buying side.
	Bid Side = iota
	// Ask is the selling side.
	Ask
)

const (
	// SideTokenBid is the wire token of the bid side.
	SideTokenBid = "BUY"
	// SideTokenAsk is the wire token of the ask side.
	SideTokenAsk = "SELL"
)

// ParseSide maps a wire token to a Side. Matching is exact and case-sensitive.
func ParseSide(token string) (Side, bool) {
	switch token {
	case SideTokenBid:
		return Bid, true
	case SideTokenAsk:
		return Ask, true
	default:
		return 0, false
	}
}

// String returns the wire token of the side.
func (s Side) String() string {
	if s == Bid {
		return SideTokenBid
	}
	return SideTokenAsk
}

// Opposite returns the side an order on s matches against.
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

// OrderID is the trader-assigned identifier of an order.
type OrderID uint64

// Order represents a single accepted order.
type Order struct {
	ID               OrderID
	Trader           Trader
	Side             Side
	Price            decimal.Decimal // zero for market orders
	Market           bool
	Quantity         int64 // remaining
	OriginalQuantity int64
	Sequence         uint64
}

// TraderID returns the identity of the owning trader.
func (o *Order) TraderID() string {
	return o.Trader.ID()
}

// IsBid checks if the order is a bid (buy) order.
func (o *Order) IsBid() bool {
	return o.Side == Bid
}

// IsAsk checks if the order is an ask (sell) order.
func (o *Order) IsAsk() bool {
	return o.Side == Ask
}

// IsFilled checks if the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.Quantity == 0
}

// Crosses reports whether o can trade against the resting order.
// Market orders cross any price.
func (o *Order) Crosses(resting *Order) bool {
	if o.Market {
		return true
	}
	if o.Side == Bid {
		return o.Price.GreaterThanOrEqual(resting.Price)
	}
	return o.Price.LessThanOrEqual(resting.Price)
}

// Fill decrements the remaining quantity of both orders by the matched amount and returns it.
func (o *Order) Fill(resting *Order) int64 {
	filled := min(o.Quantity, resting.Quantity)
	o.Quantity -= filled
	resting.Quantity -= filled
	return filled
}

func (o *Order) String() string {
	if o.Market {
		return fmt.Sprintf("Order(id=%d, side=%s, market, quantity=%d)", o.ID, o.Side, o.Quantity)
	}
	return fmt.Sprintf("Order(id=%d, side=%s, price=%s, quantity=%d)", o.ID, o.Side, o.Price, o.Quantity)
}
