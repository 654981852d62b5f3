package orderbook

import (
	"fmt"
	"testing"

	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/pkg/logger"
	"pgregory.net/rapid"
)

func bookQuantity(book *Orderbook) int64 {
	var total int64
	for _, side := range []orderbookv1.Side{orderbookv1.Bid, orderbookv1.Ask} {
		for _, level := range book.Levels(side) {
			total += level.Quantity
		}
	}
	return total
}

func filledQuantity(traders []*recordingTrader) int64 {
	var total int64
	for _, tr := range traders {
		for _, rep := range tr.fills() {
			total += rep.Quantity
		}
	}
	return total
}

func TestOrderbook_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := NewOrderbook(logger.NewNop(), nil)
		traders := []*recordingTrader{
			newRecordingTrader("t0"),
			newRecordingTrader("t1"),
			newRecordingTrader("t2"),
		}

		var nextID uint64
		var added int64

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			trader := traders[rapid.IntRange(0, len(traders)-1).Draw(t, "trader")]
			side := rapid.SampledFrom([]string{"BUY", "SELL"}).Draw(t, "side")
			quantity := rapid.Int64Range(1, 20).Draw(t, "quantity")

			before := bookQuantity(book)
			filledBefore := filledQuantity(traders)

			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0, 1:
				nextID++
				price := rapid.IntRange(95, 105).Draw(t, "price")
				book.CreateOrder(ctx, trader, limitRequest(nextID, side, price, quantity))
				added = quantity
			case 2:
				book.MarketOrder(ctx, trader, marketRequest(side, quantity))
				added = 0
			case 3:
				if nextID > 0 {
					id := rapid.Uint64Range(1, nextID).Draw(t, "cancel")
					book.CancelOrder(ctx, trader, cancelRequest(id))
				}
				added = -1
			}

			if err := book.Validate(); err != nil {
				t.Fatalf("step %d: %v", i, err)
			}

			// every fill is reported to both traders, so each traded unit counts twice
			traded := filledQuantity(traders) - filledBefore
			if traded%2 != 0 {
				t.Fatalf("step %d: fill reports are unpaired (%d)", i, traded)
			}
			after := bookQuantity(book)
			switch {
			case added > 0 && after != before+added-traded:
				t.Fatalf("step %d: limit order changed book by %d, expected %d", i, after-before, added-traded)
			case added == 0 && after != before-traded/2:
				t.Fatalf("step %d: market order removed %d, fills reported %d", i, before-after, traded/2)
			}
		}
	})
}

func TestOrderbook_CancelAllProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pub := &recordingPublisher{}
		book := NewOrderbook(logger.NewNop(), pub)
		trader := newRecordingTrader("bulk")

		n := rapid.IntRange(1, 30).Draw(t, "orders")
		distinct := map[string]struct{}{}
		for i := 1; i <= n; i++ {
			price := rapid.IntRange(1, 8).Draw(t, "price")
			distinct[fmt.Sprint(price)] = struct{}{}
			book.CreateOrder(ctx, trader, limitRequest(uint64(i), "BUY", price, 1))
		}
		pub.reset()

		bidCount, askCount := book.CancelAllOrders(ctx, trader)
		if bidCount != n || askCount != 0 {
			t.Fatalf("removed %d/%d, expected %d/0", bidCount, askCount, n)
		}
		if len(pub.batches) != 1 || len(pub.last()) != len(distinct) {
			t.Fatalf("expected one batch with %d levels, got %v", len(distinct), pub.batches)
		}
		for _, level := range pub.last() {
			if level.Quantity != 0 {
				t.Fatalf("level %s still has %d", level.Price, level.Quantity)
			}
		}
	})
}
