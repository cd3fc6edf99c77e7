package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	topicProbeAttempts = 5
	topicProbeBackoff  = 2 * time.Second
)

// createKafkaTopicIfNotExists ensures the topic is present before a producer
// starts writing to it. Partition reads are retried because brokers may still
// be electing leaders shortly after startup.
func createKafkaTopicIfNotExists(conn *kafka.Conn, topic string, numPartitions, replicationFactor int, log *slog.Logger) error {
	var partitions []kafka.Partition
	var probeErr error

	for attempt := 1; attempt <= topicProbeAttempts; attempt++ {
		partitions, probeErr = conn.ReadPartitions(topic)
		if probeErr == nil {
			break
		}
		log.Warn("Failed to read partitions, retrying",
			"topic", topic,
			"attempt", attempt,
			"error", probeErr,
		)
		time.Sleep(topicProbeBackoff)
	}

	if len(partitions) > 0 {
		if probeErr != nil {
			log.Warn("Topic exists but final partition read failed", "topic", topic, "error", probeErr)
		} else {
			log.Info("Kafka topic already exists", "topic", topic)
		}
		return nil
	}

	if numPartitions <= 0 {
		numPartitions = 1
	}
	if replicationFactor <= 0 {
		replicationFactor = 1
	}

	log.Info("Kafka topic not found, creating it",
		"topic", topic,
		"partitions", numPartitions,
		"replication_factor", replicationFactor,
	)

	err := conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	})
	if err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topic, err)
	}

	log.Info("Created Kafka topic", "topic", topic)
	return nil
}
