package orderreader

import (
	"context"

	"github.com/krewshul/pyxchange/pkg/config"
	"github.com/krewshul/pyxchange/pkg/errors"
	"github.com/krewshul/pyxchange/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type kafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Reader represents a Kafka Reader for consuming messages from the order topic.
type Reader struct {
	kafkaReader kafkaReader
	logger      *logger.Logger
	hasGroup    bool
}

// NewReader creates a new Kafka reader for consuming messages from the order topic.
// Offsets are committed explicitly after a message has been handled.
func NewReader(config config.KafkaConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.OrderTopic,
		GroupID:     config.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return newReader(kafkaReader, log, config.GroupID != "")
}

func newReader(r kafkaReader, log *logger.Logger, hasGroup bool) *Reader {
	return &Reader{
		kafkaReader: r,
		logger:      log,
		hasGroup:    hasGroup,
	}
}

// logError is a helper method to log errors consistently
func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "operation", Value: operation},
	)
}

// ReadMessage reads the next message from the order topic.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	msg, err := r.kafkaReader.FetchMessage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return kafka.Message{}, ctx.Err()
		}
		r.logError(err, "ReadMessage")
		return kafka.Message{}, errors.NewCodedTracer(errors.KafkaReadError, "failed to read order message").Wrap(err)
	}

	r.logger.Debug("ReadMessage",
		logger.Field{Key: "key", Value: string(msg.Key)},
		logger.Field{Key: "partition", Value: msg.Partition},
		logger.Field{Key: "offset", Value: msg.Offset},
	)

	return msg, nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}

// CommitMessages commits the messages to Kafka after processing.
// Without a consumer group there is nothing to commit.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if !r.hasGroup {
		return nil
	}
	if err := r.kafkaReader.CommitMessages(ctx, msgs...); err != nil {
		r.logError(err, "CommitMessages")
		return errors.NewCodedTracer(errors.KafkaReadError, "failed to commit order message").Wrap(err)
	}
	return nil
}
