package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessagePublisher publishes messages to a single Kafka topic. Both the
// transfer-request producer and the transfer-events producer satisfy it, so
// callers depend on the behavior rather than on a concrete writer.
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// DeadLetterPublisher routes unprocessable messages to a dead-letter topic
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps the kafka.Writer methods producers use, for testability
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var (
	_ MessagePublisher    = (*TransferReqMessageProducer)(nil)
	_ MessagePublisher    = (*TransferEventsProducer)(nil)
	_ DeadLetterPublisher = (*DLQProducer)(nil)
	_ KafkaWriter         = (*kafka.Writer)(nil)
)
