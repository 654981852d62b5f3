// Package metrics exposes Prometheus collectors for the matcher and decorators
// that count notifications as they leave the order book.
package metrics

import (
	"time"

	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pyxchange"

// Metrics holds the collectors of one matcher process.
type Metrics struct {
	messages    prometheus.Histogram
	executions  *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	priceLevels *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		messages: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "message_duration_seconds",
			Help:      "Time to handle one inbound order message",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		executions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matcher",
			Name:      "execution_reports_total",
			Help:      "Execution reports sent to traders",
		}, []string{"report"}),
		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matcher",
			Name:      "errors_total",
			Help:      "Error notifications sent to traders",
		}, []string{"text"}),
		priceLevels: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matcher",
			Name:      "price_levels_total",
			Help:      "Price level updates delivered to clients",
		}, []string{"client"}),
	}
}

// ObserveMessage records the handling time of a message started at start.
func (m *Metrics) ObserveMessage(start time.Time) {
	m.messages.Observe(time.Since(start).Seconds())
}

// Trader wraps t so its notifications are counted.
func (m *Metrics) Trader(t orderbookv1.Trader) orderbookv1.Trader {
	return &trader{Trader: t, metrics: m}
}

// Client wraps c so delivered levels are counted per client.
func (m *Metrics) Client(c orderbookv1.Client) orderbookv1.Client {
	return &client{Client: c, levels: m.priceLevels.WithLabelValues(c.ID())}
}

type trader struct {
	orderbookv1.Trader
	metrics *Metrics
}

func (t *trader) NotifyError(text string) {
	t.metrics.rejections.WithLabelValues(text).Inc()
	t.Trader.NotifyError(text)
}

func (t *trader) NotifyExecution(report orderbookv1.ExecutionReport) {
	t.metrics.executions.WithLabelValues(string(report.Report)).Inc()
	t.Trader.NotifyExecution(report)
}

type client struct {
	orderbookv1.Client
	levels prometheus.Counter
}

func (c *client) NotifyPriceLevel(level orderbookv1.PriceLevel) {
	c.levels.Inc()
	c.Client.NotifyPriceLevel(level)
}
