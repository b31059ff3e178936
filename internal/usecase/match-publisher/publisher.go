package matchpublisher

import (
	"context"
	"encoding/json"

	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/config"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/errors"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher represents a Kafka publisher for executions on the matches topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for the matches topic.
func NewPublisher(cfg config.MatchPublisherConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishTrade publishes one execution to the matches topic. The message is
// keyed by symbol so executions for one symbol stay ordered within a partition.
func (p *Publisher) PublishTrade(ctx context.Context, trade *orderbookv1.Trade) error {
	value, err := json.Marshal(trade)
	if err != nil {
		return errors.NewTracer("failed to encode trade")
	}

	msg := kafka.Message{
		Key:   []byte(trade.Symbol),
		Value: value,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "tradeID", Value: trade.ID},
		)
		return errors.NewTracer("failed to publish trade")
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
