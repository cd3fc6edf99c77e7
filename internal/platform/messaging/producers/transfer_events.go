package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/gcoin-wallet-engine/internal/config"
)

// TransferEventsProducer publishes terminal transfer-status events drained
// from the outbox. Writes are synchronous: an event must not be marked
// processed unless the broker acknowledged it.
type TransferEventsProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewTransferEventsProducer creates the outbox-poller producer and ensures the topic exists
func NewTransferEventsProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*TransferEventsProducer, error) {
	if cfg.EventsTopic == "" {
		return nil, fmt.Errorf("kafka events topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for transfer events producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.EventsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure events topic %s exists: %w", cfg.EventsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.EventsTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &TransferEventsProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.EventsTopic,
	}, nil
}

func (p *TransferEventsProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal transfer event message: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish transfer event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish transfer event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published transfer event", "topic", p.topic, "key", key)
	return nil
}

func (p *TransferEventsProducer) Close() error {
	p.logger.Info("Closing transfer events Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
