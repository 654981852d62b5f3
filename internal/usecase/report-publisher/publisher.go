package reportpublisher

import (
	"context"
	"time"

	"github.com/krewshul/pyxchange/pkg/config"
	"github.com/krewshul/pyxchange/pkg/errors"
	"github.com/krewshul/pyxchange/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher represents a Kafka Publisher for trader notifications.
type Publisher struct {
	kafkaWriter kafkaWriter
	logger      *logger.Logger
}

const batchTimeout = 10 * time.Millisecond

// NewPublisher creates a new Kafka publisher writing to the report topic.
// Messages are keyed by trader id so one trader's reports stay ordered.
// Writes are asynchronous; delivery failures are reported through the logger.
func NewPublisher(config config.KafkaConfig, logger *logger.Logger) *Publisher {
	p := newPublisher(nil, logger)
	p.kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.ReportTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		Async:        true,
		Completion:   p.completion,
	}

	return p
}

func newPublisher(w kafkaWriter, logger *logger.Logger) *Publisher {
	return &Publisher{
		kafkaWriter: w,
		logger:      logger,
	}
}

// Publish writes payload to the report topic keyed by traderID.
func (p *Publisher) Publish(ctx context.Context, traderID string, payload []byte) error {
	msg := kafka.Message{
		Key:   []byte(traderID),
		Value: payload,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "traderID", Value: traderID},
		)
		return errors.NewCodedTracer(errors.KafkaWriteError, "failed to publish report").Wrap(err)
	}
	return nil
}

func (p *Publisher) completion(messages []kafka.Message, err error) {
	if err == nil {
		return
	}

	for _, msg := range messages {
		p.logger.Error(errors.NewCodedTracer(errors.KafkaWriteError, "report not delivered").Wrap(err),
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "traderID", Value: string(msg.Key)},
		)
	}
}

// Close flushes pending writes and closes the writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
