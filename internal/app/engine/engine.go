package engine

import (
	"context"
	"sync"
	"time"

	"github.com/krewshul/pyxchange/internal/app/matcher"
	orderreaderv1 "github.com/krewshul/pyxchange/internal/domain/order-reader/v1"
	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/internal/usecase/metrics"
	"github.com/krewshul/pyxchange/pkg/config"
	"github.com/krewshul/pyxchange/pkg/logger"
	"github.com/krewshul/pyxchange/pkg/util"
	"github.com/segmentio/kafka-go"
)

// TraderFactory builds the notification endpoint of a trader seen for the first time.
type TraderFactory func(id string) orderbookv1.Trader

// Engine feeds order messages from the reader into the matcher, one at a time.
type Engine struct {
	matcher     *matcher.Matcher
	orderReader orderreaderv1.OrderReader
	newTrader   TraderFactory
	logger      *logger.Logger
	config      *config.Config

	mu         sync.RWMutex
	processed  int64
	lastOffset int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	readBackoff   time.Duration
	commitTimeout time.Duration
	metrics       *metrics.Metrics
}

// NewEngine creates a new instance of Engine with the provided dependencies.
func NewEngine(
	m *matcher.Matcher,
	orderReader orderreaderv1.OrderReader,
	newTrader TraderFactory,
	logger *logger.Logger,
	config *config.Config,
) *Engine {
	return NewEngineWithOptions(m, orderReader, newTrader, logger, config, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options
func NewEngineWithOptions(
	m *matcher.Matcher,
	orderReader orderreaderv1.OrderReader,
	newTrader TraderFactory,
	logger *logger.Logger,
	config *config.Config,
	options *Options,
) *Engine {
	return &Engine{
		matcher:     m,
		orderReader: orderReader,
		newTrader:   newTrader,
		logger:      logger,
		config:      config,
		lastOffset:  -1,

		readBackoff:   options.ReadBackoff,
		commitTimeout: options.CommitTimeout,
		metrics:       options.Metrics,
	}
}

// Start launches the order processor.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go e.runOrderProcessor()

	e.logger.Info("Engine started", logger.NewField("instrument", e.config.Instrument))
	return nil
}

// Stop gracefully shuts down the engine
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()

	e.logger.Info("Starting order processor", logger.NewField("instrument", e.config.Instrument))

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Order processor shutting down")
			if err := e.orderReader.Close(); err != nil {
				e.logger.Error(err, logger.NewField("action", "close_order_reader"))
			}
			return
		default:
			msg, err := e.orderReader.ReadMessage(e.ctx)
			if err != nil {
				if e.ctx.Err() != nil {
					continue
				}
				e.logger.ErrorContext(e.ctx, err, logger.NewField("action", "read_order_message"))
				e.sleep(e.readBackoff)
				continue
			}

			e.processMessage(msg)

			if err := e.commit(msg); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.NewField("action", "commit_order_message"))
			}
		}
	}
}

// processMessage hands one message to the matcher. The key is the trader id.
func (e *Engine) processMessage(msg kafka.Message) {
	if e.metrics != nil {
		defer e.metrics.ObserveMessage(time.Now())
	}

	traderID := string(msg.Key)
	ctx := util.WithRequestID(e.ctx, "")

	if traderID == "" {
		e.logger.WarnContext(ctx, "Message without trader id skipped",
			logger.NewField("partition", msg.Partition),
			logger.NewField("offset", msg.Offset),
		)
	} else {
		ctx = util.WithTraderID(ctx, traderID)
		e.logger.DebugContext(ctx, "Processing message", logger.NewField("offset", msg.Offset))
		e.matcher.HandleMessage(ctx, e.trader(ctx, traderID), msg.Value)
	}

	e.mu.Lock()
	e.processed++
	e.lastOffset = msg.Offset
	e.mu.Unlock()
}

// trader returns the registered trader or registers a new one.
func (e *Engine) trader(ctx context.Context, id string) orderbookv1.Trader {
	if trader, ok := e.matcher.Trader(id); ok {
		return trader
	}

	trader := e.newTrader(id)
	e.matcher.AddTrader(trader)
	e.logger.InfoContext(ctx, "Trader connected")
	return trader
}

// commit uses a detached context so the last handled message is committed during shutdown.
func (e *Engine) commit(msg kafka.Message) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(e.ctx), e.commitTimeout)
	defer cancel()
	return e.orderReader.CommitMessages(ctx, msg)
}

func (e *Engine) sleep(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-e.ctx.Done():
	case <-timer.C:
	}
}

// ProcessedMessages returns the number of messages handled so far.
func (e *Engine) ProcessedMessages() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.processed
}

// LastOffset returns the offset of the last handled message, -1 before the first.
func (e *Engine) LastOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastOffset
}
