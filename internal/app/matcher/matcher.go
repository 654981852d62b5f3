// Package matcher is the session layer around a single order book. It tracks
// connected traders and subscribed clients and dispatches decoded requests.
package matcher

import (
	"context"
	"sync"

	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/internal/usecase/codec"
	"github.com/krewshul/pyxchange/internal/usecase/orderbook"
	"github.com/krewshul/pyxchange/pkg/errors"
	"github.com/krewshul/pyxchange/pkg/logger"
)

// Matcher owns the order book and the trader and client registries.
type Matcher struct {
	book   *orderbook.Orderbook
	logger *logger.Logger

	mu      sync.RWMutex
	traders map[string]orderbookv1.Trader
	clients map[string]orderbookv1.Client
}

// NewMatcher creates a matcher with default order book options.
func NewMatcher(log *logger.Logger) *Matcher {
	return NewMatcherWithOptions(log, orderbook.DefaultOptions())
}

// NewMatcherWithOptions creates a matcher whose order book broadcasts through the matcher.
func NewMatcherWithOptions(log *logger.Logger, options *orderbook.Options) *Matcher {
	m := &Matcher{
		logger:  log,
		traders: make(map[string]orderbookv1.Trader),
		clients: make(map[string]orderbookv1.Client),
	}
	m.book = orderbook.NewOrderbookWithOptions(log, m, options)
	return m
}

// Orderbook returns the underlying book.
func (m *Matcher) Orderbook() *orderbook.Orderbook {
	return m.book
}

// AddTrader registers trader, replacing any trader with the same id.
func (m *Matcher) AddTrader(trader orderbookv1.Trader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.traders[trader.ID()] = trader
}

// RemoveTrader forgets the trader. Its resting orders stay in the book.
func (m *Matcher) RemoveTrader(trader orderbookv1.Trader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.traders, trader.ID())
}

// Trader looks up a connected trader by id.
func (m *Matcher) Trader(id string) (orderbookv1.Trader, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trader, ok := m.traders[id]
	return trader, ok
}

// AddClient subscribes client to price level broadcasts.
func (m *Matcher) AddClient(client orderbookv1.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID()] = client
}

// RemoveClient unsubscribes client. Later broadcasts skip it.
func (m *Matcher) RemoveClient(client orderbookv1.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, client.ID())
}

// HandleMessage decodes a raw envelope from trader and dispatches it.
// Undecodable or unknown messages are answered with an error notification.
func (m *Matcher) HandleMessage(ctx context.Context, trader orderbookv1.Trader, data []byte) {
	req, err := codec.DecodeRequest(data)
	if err != nil {
		m.logger.WarnContext(ctx, "Message rejected",
			logger.NewField("trader", trader.ID()),
			logger.NewField("reason", errors.CodeOf(err)),
		)
		trader.NotifyError(err.Error())
		return
	}
	m.HandleRequest(ctx, trader, req)
}

// HandleRequest dispatches a decoded request to the order book by message type.
func (m *Matcher) HandleRequest(ctx context.Context, trader orderbookv1.Trader, req *orderbookv1.Request) {
	switch req.Message {
	case orderbookv1.MessageCreateOrder:
		m.book.CreateOrder(ctx, trader, req)
	case orderbookv1.MessageMarketOrder:
		m.book.MarketOrder(ctx, trader, req)
	case orderbookv1.MessageCancelOrder:
		m.book.CancelOrder(ctx, trader, req)
	case orderbookv1.MessageCancelAllOrders:
		m.book.CancelAllOrders(ctx, trader)
	default:
		trader.NotifyError(orderbookv1.TextUnknownMessage)
	}
}

// PublishPriceLevels fans levels out to every subscribed client.
func (m *Matcher) PublishPriceLevels(levels []orderbookv1.PriceLevel) {
	for _, client := range m.snapshotClients() {
		for _, level := range levels {
			client.NotifyPriceLevel(level)
		}
	}
}

func (m *Matcher) snapshotClients() []orderbookv1.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	clients := make([]orderbookv1.Client, 0, len(m.clients))
	for _, client := range m.clients {
		clients = append(clients, client)
	}
	return clients
}
