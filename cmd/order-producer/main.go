package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"strings"
	"time"

	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/internal/usecase/codec"
	"github.com/krewshul/pyxchange/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// generated is one request and the trader that sends it.
type generated struct {
	Trader  string
	Message orderbookv1.MessageType
	Payload []byte
}

// generator produces a realistic request stream. Cancels only target ids the
// same trader created earlier.
type generator struct {
	rng         *rand.Rand
	traders     []string
	basePrice   decimal.Decimal
	priceSpread float64
	nextID      orderbookv1.OrderID
	open        map[string][]orderbookv1.OrderID
}

func newGenerator(rng *rand.Rand, traders int, basePrice, priceSpread float64) *generator {
	g := &generator{
		rng:         rng,
		basePrice:   decimal.NewFromFloat(basePrice),
		priceSpread: priceSpread,
		nextID:      1,
		open:        make(map[string][]orderbookv1.OrderID),
	}
	for i := 0; i < traders; i++ {
		g.traders = append(g.traders, fmt.Sprintf("trader-%03d", i+1))
	}
	return g
}

// next returns the next request: 65% limit, 20% market, 12% cancel, 3% cancel-all.
func (g *generator) next() generated {
	trader := g.traders[g.rng.Intn(len(g.traders))]
	side := orderbookv1.Bid
	if g.rng.Float64() < 0.5 {
		side = orderbookv1.Ask
	}
	quantity := int64(g.rng.Intn(100) + 1)

	roll := g.rng.Float64()
	switch {
	case roll < 0.03:
		delete(g.open, trader)
		return generated{Trader: trader, Message: orderbookv1.MessageCancelAllOrders, Payload: codec.EncodeCancelAllOrders()}
	case roll < 0.15 && len(g.open[trader]) > 0:
		ids := g.open[trader]
		i := g.rng.Intn(len(ids))
		id := ids[i]
		g.open[trader] = append(ids[:i], ids[i+1:]...)
		return generated{Trader: trader, Message: orderbookv1.MessageCancelOrder, Payload: codec.EncodeCancelOrder(id)}
	case roll < 0.35:
		return generated{Trader: trader, Message: orderbookv1.MessageMarketOrder, Payload: codec.EncodeMarketOrder(side, quantity)}
	}

	// Bids sit below the base price and asks above it, with some overlap so orders cross.
	offset := decimal.NewFromFloat(g.rng.Float64() * g.priceSpread).Round(1)
	if g.rng.Float64() < 0.2 {
		offset = offset.Neg()
	}
	price := g.basePrice.Add(offset)
	if side == orderbookv1.Bid {
		price = g.basePrice.Sub(offset)
	}
	if !price.IsPositive() {
		price = g.basePrice
	}

	id := g.nextID
	g.nextID++
	g.open[trader] = append(g.open[trader], id)
	return generated{Trader: trader, Message: orderbookv1.MessageCreateOrder, Payload: codec.EncodeCreateOrder(id, side, price, quantity)}
}

func main() {
	var (
		brokers     = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic       = flag.String("topic", "orders", "Kafka topic name")
		delay       = flag.Duration("delay", 100*time.Millisecond, "Delay between sending requests")
		count       = flag.Int("count", 1000, "Number of requests to generate")
		traders     = flag.Int("traders", 20, "Number of distinct traders")
		basePrice   = flag.Float64("base-price", 3945.5, "Base price for orders")
		priceSpread = flag.Float64("price-spread", 20.0, "Price spread range")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	)
	flag.Parse()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()
	gen := newGenerator(rand.New(rand.NewSource(*seed)), *traders, *basePrice, *priceSpread)

	log.Info("Sending requests",
		logger.NewField("brokers", *brokers),
		logger.NewField("topic", *topic),
		logger.NewField("count", *count),
		logger.NewField("delay", delay.String()),
	)

	sent := make(map[orderbookv1.MessageType]int)
	for i := 0; i < *count; i++ {
		req := gen.next()

		msg := kafka.Message{
			Key:   []byte(req.Trader),
			Value: req.Payload,
			Time:  time.Now(),
		}
		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Error(err,
				logger.NewField("action", "write_request"),
				logger.NewField("index", i+1),
				logger.NewField("trader", req.Trader),
			)
			continue
		}
		sent[req.Message]++

		if (i+1)%100 == 0 || i == *count-1 {
			log.Info("Sent request",
				logger.NewField("index", i+1),
				logger.NewField("trader", req.Trader),
				logger.NewField("payload", string(req.Payload)),
			)
		}

		if i < *count-1 {
			time.Sleep(*delay)
		}
	}

	log.Info("Summary",
		logger.NewField(string(orderbookv1.MessageCreateOrder), sent[orderbookv1.MessageCreateOrder]),
		logger.NewField(string(orderbookv1.MessageMarketOrder), sent[orderbookv1.MessageMarketOrder]),
		logger.NewField(string(orderbookv1.MessageCancelOrder), sent[orderbookv1.MessageCancelOrder]),
		logger.NewField(string(orderbookv1.MessageCancelAllOrders), sent[orderbookv1.MessageCancelAllOrders]),
	)
}
