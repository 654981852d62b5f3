// Package wsfeed streams price level updates to WebSocket subscribers. Every
// connection is registered as a client of the matcher for its lifetime.
package wsfeed

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/internal/usecase/codec"
	"github.com/krewshul/pyxchange/pkg/logger"
)

const maxInboundMessage = 512

// Registry is the set of clients that receive price level broadcasts.
type Registry interface {
	AddClient(client orderbookv1.Client)
	RemoveClient(client orderbookv1.Client)
}

// Feed upgrades HTTP requests to WebSocket subscriptions.
type Feed struct {
	registry Registry
	upgrader websocket.Upgrader
	logger   *logger.Logger
	options  *Options

	mu      sync.Mutex
	clients map[string]*client
}

// NewFeed creates a feed registering its connections on registry.
func NewFeed(registry Registry, log *logger.Logger, options *Options) *Feed {
	return &Feed{
		registry: registry,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  log,
		options: options,
		clients: make(map[string]*client),
	}
}

// ServeHTTP serves one subscriber until it disconnects.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("WebSocket upgrade failed", logger.NewField("error", err.Error()))
		return
	}

	c := newClient("ws-"+uuid.NewString(), conn, f.logger, f.options)
	f.track(c)
	f.registry.AddClient(c)
	f.logger.Info("Subscriber connected",
		logger.NewField("client", c.id),
		logger.NewField("remote", conn.RemoteAddr().String()),
	)

	go c.writePump()
	c.readPump()

	f.registry.RemoveClient(c)
	f.untrack(c)
	c.close()
	f.logger.Info("Subscriber disconnected", logger.NewField("client", c.id))
}

// Close disconnects every subscriber.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		c.close()
	}
}

// Len returns the number of connected subscribers.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

func (f *Feed) track(c *client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[c.id] = c
}

func (f *Feed) untrack(c *client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, c.id)
}

// client is one subscriber connection. Only writePump writes to conn.
type client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	logger  *logger.Logger
	options *Options
}

func newClient(id string, conn *websocket.Conn, log *logger.Logger, options *Options) *client {
	return &client{
		id:      id,
		conn:    conn,
		send:    make(chan []byte, options.SendBuffer),
		done:    make(chan struct{}),
		logger:  log,
		options: options,
	}
}

func (c *client) ID() string {
	return c.id
}

// NotifyPriceLevel queues level without blocking. A full queue drops the update.
func (c *client) NotifyPriceLevel(level orderbookv1.PriceLevel) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- codec.EncodePriceLevel(level):
	default:
		c.logger.Warn("Price level dropped",
			logger.NewField("client", c.id),
			logger.NewField("side", level.Side.String()),
			logger.NewField("price", level.Price.String()),
		)
	}
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.options.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.options.WriteTimeout))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.options.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.options.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

// readPump discards inbound frames and returns once the connection fails or closes.
func (c *client) readPump() {
	c.conn.SetReadLimit(maxInboundMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.options.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.options.PongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("Subscriber read failed",
					logger.NewField("client", c.id),
					logger.NewField("error", err.Error()),
				)
			}
			return
		}
	}
}
