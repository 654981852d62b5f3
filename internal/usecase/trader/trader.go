package trader

import (
	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/internal/usecase/codec"
)

// Trader is a remote trader reached through the report topic.
type Trader struct {
	id     string
	outbox *Outbox
}

// NewTrader creates a trader whose notifications are queued on outbox.
func NewTrader(id string, outbox *Outbox) *Trader {
	return &Trader{
		id:     id,
		outbox: outbox,
	}
}

// NewFactory returns a constructor for traders sharing one outbox.
func NewFactory(outbox *Outbox) func(id string) orderbookv1.Trader {
	return func(id string) orderbookv1.Trader {
		return NewTrader(id, outbox)
	}
}

// ID returns the trader id.
func (t *Trader) ID() string {
	return t.id
}

// NotifyError sends an error notification.
func (t *Trader) NotifyError(text string) {
	t.outbox.enqueue(t.id, codec.EncodeError(text))
}

// NotifyExecution sends an execution report.
func (t *Trader) NotifyExecution(report orderbookv1.ExecutionReport) {
	t.outbox.enqueue(t.id, codec.EncodeExecution(report))
}

func (t *Trader) String() string {
	return "Trader(" + t.id + ")"
}
