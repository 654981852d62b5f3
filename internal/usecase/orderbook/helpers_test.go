package orderbook

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/pkg/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingTrader struct {
	id      string
	mu      sync.Mutex
	errors  []string
	reports []orderbookv1.ExecutionReport
}

func newRecordingTrader(id string) *recordingTrader {
	return &recordingTrader{id: id}
}

func (r *recordingTrader) ID() string { return r.id }

func (r *recordingTrader) NotifyError(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, text)
}

func (r *recordingTrader) NotifyExecution(report orderbookv1.ExecutionReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

func (r *recordingTrader) fills() []orderbookv1.ExecutionReport {
	return r.byType(orderbookv1.ReportFill)
}

func (r *recordingTrader) byType(report orderbookv1.ReportType) []orderbookv1.ExecutionReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []orderbookv1.ExecutionReport
	for _, rep := range r.reports {
		if rep.Report == report {
			result = append(result, rep)
		}
	}
	return result
}

func (r *recordingTrader) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = nil
	r.reports = nil
}

type recordingPublisher struct {
	batches [][]orderbookv1.PriceLevel
}

func (p *recordingPublisher) PublishPriceLevels(levels []orderbookv1.PriceLevel) {
	p.batches = append(p.batches, levels)
}

func (p *recordingPublisher) last() []orderbookv1.PriceLevel {
	if len(p.batches) == 0 {
		return nil
	}
	return p.batches[len(p.batches)-1]
}

func (p *recordingPublisher) reset() {
	p.batches = nil
}

type testFixture struct {
	book      *Orderbook
	publisher *recordingPublisher
	logs      *observer.ObservedLogs
	matchSeq  int
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	f := &testFixture{
		publisher: &recordingPublisher{},
		logs:      logs,
	}
	f.book = NewOrderbookWithOptions(logger.FromZap(zap.New(core)), f.publisher, &Options{
		Instrument: "TEST",
		MatchID: func() string {
			f.matchSeq++
			return fmt.Sprintf("match-%d", f.matchSeq)
		},
	})
	return f
}

func request(t *testing.T, fields map[string]any) *orderbookv1.Request {
	t.Helper()
	payload, err := json.Marshal(fields)
	require.NoError(t, err)

	req := &orderbookv1.Request{}
	require.NoError(t, json.Unmarshal(payload, req))
	return req
}

func limit(t *testing.T, id uint64, side string, price any, quantity int64) *orderbookv1.Request {
	return request(t, map[string]any{
		"message":  "createOrder",
		"orderId":  id,
		"side":     side,
		"price":    price,
		"quantity": quantity,
	})
}

func market(t *testing.T, side string, quantity int64) *orderbookv1.Request {
	return request(t, map[string]any{
		"message":  "marketOrder",
		"side":     side,
		"quantity": quantity,
	})
}

func cancel(t *testing.T, id uint64) *orderbookv1.Request {
	return request(t, map[string]any{
		"message": "cancelOrder",
		"orderId": id,
	})
}

var ctx = context.Background()

func rawRequest(message string, fields map[string]any) *orderbookv1.Request {
	fields["message"] = message
	payload, err := json.Marshal(fields)
	if err != nil {
		panic(err)
	}
	req := &orderbookv1.Request{}
	if err := json.Unmarshal(payload, req); err != nil {
		panic(err)
	}
	return req
}

func limitRequest(id uint64, side string, price int, quantity int64) *orderbookv1.Request {
	return rawRequest("createOrder", map[string]any{"orderId": id, "side": side, "price": price, "quantity": quantity})
}

func marketRequest(side string, quantity int64) *orderbookv1.Request {
	return rawRequest("marketOrder", map[string]any{"side": side, "quantity": quantity})
}

func cancelRequest(id uint64) *orderbookv1.Request {
	return rawRequest("cancelOrder", map[string]any{"orderId": id})
}
