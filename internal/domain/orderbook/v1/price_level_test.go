package orderbookv1

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceSet(t *testing.T) {
	testCases := []struct {
		name     string
		side     Side
		prices   []string
		expected []string
	}{
		{
			name:     "bid prices best first",
			side:     Bid,
			prices:   []string{"100", "101", "100.00", "99.5"},
			expected: []string{"101", "100", "99.5"},
		},
		{
			name:     "ask prices best first",
			side:     Ask,
			prices:   []string{"100", "101", "100.0", "99.5", "101"},
			expected: []string{"99.5", "100", "101"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set := NewPriceSet(tc.side)
			for _, p := range tc.prices {
				set.Add(decimal.RequireFromString(p))
			}

			require.Equal(t, len(tc.expected), set.Len())
			var got []string
			for _, p := range set.Prices() {
				got = append(got, p.String())
			}
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.side, set.Side())
		})
	}
}

func TestPriceSet_Aggregate(t *testing.T) {
	index := NewOrderIndex(Ask)
	index.Insert(newTestOrder("a", 1, Ask, "100", 6, 1))
	index.Insert(newTestOrder("a", 2, Ask, "100", 4, 2))

	set := NewPriceSet(Ask)
	set.Add(decimal.RequireFromString("100"))
	set.Add(decimal.RequireFromString("102"))

	levels := set.Aggregate(index)
	require.Len(t, levels, 2)
	assert.Equal(t, int64(10), levels[0].Quantity)
	assert.Equal(t, int64(0), levels[1].Quantity, "emptied level reports zero")
	assert.Equal(t, Ask, levels[1].Side)
}
