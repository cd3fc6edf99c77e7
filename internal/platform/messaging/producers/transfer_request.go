package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/gcoin-wallet-engine/internal/config"
)

// TransferReqMessageProducer publishes pending transfer requests from the
// wallet API to the transfer-request topic.
type TransferReqMessageProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewTransferReqMessageProducer creates the wallet API producer and ensures the topic exists
func NewTransferReqMessageProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*TransferReqMessageProducer, error) {
	if cfg.TransferTopic == "" {
		return nil, fmt.Errorf("kafka transfer topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for transfer request producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.TransferTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure transfer topic %s exists: %w", cfg.TransferTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.TransferTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Using async for high throughput
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.TransferTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.TransferTopic, "count", len(messages))
			}
		},
	}

	return &TransferReqMessageProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.TransferTopic,
	}, nil
}

func (p *TransferReqMessageProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal transfer request message: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish transfer request",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish transfer request to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published transfer request",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *TransferReqMessageProducer) Close() error {
	p.logger.Info("Closing transfer request Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
