package orderbookv1

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceLevel is the aggregate resting quantity at one price on one side.
// A zero quantity means the level no longer exists.
type PriceLevel struct {
	Side     Side
	Price    decimal.Decimal
	Quantity int64
}

// PriceSet collects the distinct prices touched on one side during an operation.
type PriceSet struct {
	side   Side
	prices map[string]decimal.Decimal
}

// NewPriceSet creates an empty set for side.
func NewPriceSet(side Side) *PriceSet {
	return &PriceSet{
		side:   side,
		prices: make(map[string]decimal.Decimal),
	}
}

// Add records price. Numerically equal prices are stored once.
func (s *PriceSet) Add(price decimal.Decimal) {
	s.prices[price.String()] = price
}

// Len returns the number of distinct prices.
func (s *PriceSet) Len() int {
	return len(s.prices)
}

// Side returns the side the prices belong to.
func (s *PriceSet) Side() Side {
	return s.side
}

// Prices returns the distinct prices, best first for the side.
func (s *PriceSet) Prices() []decimal.Decimal {
	prices := make([]decimal.Decimal, 0, len(s.prices))
	for _, p := range s.prices {
		prices = append(prices, p)
	}
	sort.Slice(prices, func(i, j int) bool {
		if s.side == Bid {
			return prices[i].GreaterThan(prices[j])
		}
		return prices[i].LessThan(prices[j])
	})
	return prices
}

// Aggregate recomputes the level of every price in the set from index.
func (s *PriceSet) Aggregate(index *OrderIndex) []PriceLevel {
	prices := s.Prices()
	levels := make([]PriceLevel, 0, len(prices))
	for _, p := range prices {
		levels = append(levels, PriceLevel{
			Side:     s.side,
			Price:    p,
			Quantity: index.LevelQuantity(p),
		})
	}
	return levels
}
