package orderbook

import "github.com/oklog/ulid/v2"

// Options represents configuration options for the Orderbook.
type Options struct {
	// Instrument names the book in logs.
	Instrument string
	// MatchID returns the identifier attached to both reports of a fill.
	MatchID func() string
}

// DefaultOptions returns the default orderbook options.
func DefaultOptions() *Options {
	return &Options{
		MatchID: func() string {
			return ulid.Make().String()
		},
	}
}
