package wsfeed

import "time"

// Options configures the WebSocket price level feed.
type Options struct {
	// SendBuffer is the number of encoded levels queued per connection before new ones are dropped.
	SendBuffer   int
	WriteTimeout time.Duration
	PingInterval time.Duration
	// PongTimeout must exceed PingInterval.
	PongTimeout time.Duration
}

// DefaultOptions returns the default feed options.
func DefaultOptions() *Options {
	return &Options{
		SendBuffer:   256,
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
		PongTimeout:  60 * time.Second,
	}
}
