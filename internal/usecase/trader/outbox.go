package trader

import (
	"context"
	"sync"
	"time"

	reportpublisherv1 "github.com/krewshul/pyxchange/internal/domain/report-publisher/v1"
	"github.com/krewshul/pyxchange/pkg/logger"
)

const (
	defaultPublishTimeout = 5 * time.Second
	// DefaultOutboxSize is the number of notifications buffered before new ones are dropped.
	DefaultOutboxSize = 4096
)

type notification struct {
	traderID string
	payload  []byte
}

// Outbox queues trader notifications and publishes them from a single
// goroutine, so the book never waits on the broker. Notifications are
// published in the order they were queued.
type Outbox struct {
	publisher reportpublisherv1.ReportPublisher
	logger    *logger.Logger
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan notification
	done   chan struct{}
}

// NewOutbox starts an outbox holding at most size pending notifications.
func NewOutbox(publisher reportpublisherv1.ReportPublisher, log *logger.Logger, size int) *Outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}

	o := &Outbox{
		publisher: publisher,
		logger:    log,
		timeout:   defaultPublishTimeout,
		queue:     make(chan notification, size),
		done:      make(chan struct{}),
	}
	go o.run()
	return o
}

// enqueue never blocks. A full or closed outbox drops the notification.
func (o *Outbox) enqueue(traderID string, payload []byte) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		o.drop(traderID, "outbox closed")
		return
	}

	select {
	case o.queue <- notification{traderID: traderID, payload: payload}:
	default:
		o.drop(traderID, "outbox full")
	}
}

func (o *Outbox) run() {
	defer close(o.done)

	for n := range o.queue {
		o.publish(n)
	}
}

func (o *Outbox) publish(n notification) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	if err := o.publisher.Publish(ctx, n.traderID, n.payload); err != nil {
		o.drop(n.traderID, err.Error())
	}
}

func (o *Outbox) drop(traderID, reason string) {
	o.logger.Warn("Trader notification dropped",
		logger.NewField("trader", traderID),
		logger.NewField("error", reason),
	)
}

// Close stops accepting notifications and waits until the queued ones are published.
func (o *Outbox) Close() {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.queue)
	}
	o.mu.Unlock()

	<-o.done
}
