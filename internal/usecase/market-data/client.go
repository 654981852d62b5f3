package marketdata

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/internal/usecase/codec"
	"github.com/krewshul/pyxchange/pkg/errors"
	"github.com/krewshul/pyxchange/pkg/logger"
	"github.com/krewshul/pyxchange/pkg/redis"
	"github.com/shopspring/decimal"
)

const (
	defaultTimeout = 2 * time.Second
	// DefaultQueueSize is the number of price levels buffered before new ones are dropped.
	DefaultQueueSize = 4096
)

// Client is a subscribed client that forwards price levels to a Redis channel
// and keeps a depth hash per side, one field per price. Levels are queued and
// written by a single goroutine in arrival order.
type Client struct {
	id         string
	redis      redis.Client
	channel    string
	instrument string
	logger     *logger.Logger
	timeout    time.Duration

	mu      sync.RWMutex
	closed  bool
	pending chan orderbookv1.PriceLevel
	done    chan struct{}
}

// NewClient creates a Redis backed market data client with the default queue size.
func NewClient(id string, rc redis.Client, channel, instrument string, log *logger.Logger) *Client {
	return NewClientWithQueue(id, rc, channel, instrument, log, DefaultQueueSize)
}

// NewClientWithQueue creates a client holding at most size pending levels.
func NewClientWithQueue(id string, rc redis.Client, channel, instrument string, log *logger.Logger, size int) *Client {
	if size <= 0 {
		size = DefaultQueueSize
	}

	c := &Client{
		id:         id,
		redis:      rc,
		channel:    channel,
		instrument: instrument,
		logger:     log,
		timeout:    defaultTimeout,
		pending:    make(chan orderbookv1.PriceLevel, size),
		done:       make(chan struct{}),
	}
	go c.run()
	return c
}

// ID returns the client id.
func (c *Client) ID() string {
	return c.id
}

// NotifyPriceLevel queues level for publishing without blocking. A full or
// closed client drops the level.
func (c *Client) NotifyPriceLevel(level orderbookv1.PriceLevel) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		c.drop(level, "client closed")
		return
	}

	select {
	case c.pending <- level:
	default:
		c.drop(level, "queue full")
	}
}

// Close stops accepting levels and waits until the queued ones are written.
func (c *Client) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.pending)
	}
	c.mu.Unlock()

	<-c.done
}

func (c *Client) run() {
	defer close(c.done)

	for level := range c.pending {
		c.write(level)
	}
}

// write publishes level and updates the depth hash. A zero quantity removes the price.
func (c *Client) write(level orderbookv1.PriceLevel) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if _, err := c.redis.Publish(ctx, c.channel, codec.EncodePriceLevel(level)); err != nil {
		c.logError(err, "publish_price_level")
	}

	key := c.depthKey(level.Side)
	price := level.Price.String()

	var err error
	if level.Quantity == 0 {
		_, err = c.redis.HDel(ctx, key, price)
	} else {
		_, err = c.redis.HSet(ctx, key, map[string]any{price: level.Quantity})
	}
	if err != nil {
		c.logError(err, "update_depth")
	}
}

// Depth reads the stored depth of side, best price first.
func (c *Client) Depth(ctx context.Context, side orderbookv1.Side) ([]orderbookv1.PriceLevel, error) {
	values, err := c.redis.HGetAll(ctx, c.depthKey(side))
	if err != nil {
		return nil, err
	}

	levels := make([]orderbookv1.PriceLevel, 0, len(values))
	for p, q := range values {
		price, err := decimal.NewFromString(p)
		if err != nil {
			return nil, errors.NewErrorDetailsWithObject("invalid depth price", string(errors.RedisReadError), "price", p)
		}
		quantity, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return nil, errors.NewErrorDetailsWithObject("invalid depth quantity", string(errors.RedisReadError), "quantity", q)
		}
		levels = append(levels, orderbookv1.PriceLevel{Side: side, Price: price, Quantity: quantity})
	}

	sort.Slice(levels, func(i, j int) bool {
		if side == orderbookv1.Bid {
			return levels[i].Price.GreaterThan(levels[j].Price)
		}
		return levels[i].Price.LessThan(levels[j].Price)
	})
	return levels, nil
}

func (c *Client) depthKey(side orderbookv1.Side) string {
	return c.redis.Key("book", c.instrument, side.String())
}

func (c *Client) drop(level orderbookv1.PriceLevel, reason string) {
	c.logger.Warn("Price level dropped",
		logger.NewField("client", c.id),
		logger.NewField("side", level.Side.String()),
		logger.NewField("price", level.Price.String()),
		logger.NewField("error", reason),
	)
}

func (c *Client) logError(err error, action string) {
	c.logger.Error(errors.TracerFromError(err),
		logger.NewField("action", action),
		logger.NewField("client", c.id),
	)
}
