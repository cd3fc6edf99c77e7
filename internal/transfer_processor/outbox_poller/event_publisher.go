package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gcoin-wallet-engine/internal/domain/outbox"
	"github.com/gcoin-wallet-engine/internal/domain/shared"
	"github.com/gcoin-wallet-engine/internal/platform/messaging/producers"
)

// EventPublisher publishes outbox events to the transfer events topic
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *outbox.Event) error
}

// EventPublisherImpl implements EventPublisher
type EventPublisherImpl struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewEventPublisher creates a new publisher
func NewEventPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) EventPublisher {
	return &EventPublisherImpl{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishEvent pushes one terminal transfer event to Kafka and marks the
// outbox row processed. The Kafka write is synchronous; the event is only
// marked processed after the broker acknowledged it.
func (p *EventPublisherImpl) PublishEvent(ctx context.Context, event *outbox.Event) error {
	record, err := event.TransferRecord()
	if err != nil {
		p.logger.Error("Failed to unmarshal transfer record from outbox payload",
			"outbox_id", event.ID, "transfer_id", event.TransferID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, event.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", event.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", event.ID, err)
	}

	// Add correlation ID to logger
	logger := p.logger
	if record.CorrelationID != "" {
		logger = p.logger.With("correlation_id", record.CorrelationID)
	}

	logger.Info("Publishing terminal transfer event",
		"outbox_id", event.ID,
		"transfer_id", event.TransferID,
		"status", string(record.Status),
	)

	// Key by sender wallet so one wallet's events stay ordered per partition
	if err := p.producer.Publish(ctx, event.SenderWallet, record); err != nil {
		logger.Error("Failed to publish transfer event to Kafka",
			"outbox_id", event.ID, "transfer_id", event.TransferID, "error", err,
		)
		return fmt.Errorf("failed to publish transfer event %s: %w", event.TransferID, err)
	}

	// Mark outbox event as processed
	if err := p.outboxRepo.UpdateStatus(ctx, event.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox event status to PROCESSED",
			"outbox_id", event.ID, "transfer_id", event.TransferID, "error", err,
		)
		return fmt.Errorf("event %s published OK, but failed to mark outbox %d as PROCESSED: %w", event.TransferID, event.ID, err)
	}

	logger.Info("Outbox event successfully published and marked as PROCESSED", "outbox_id", event.ID, "transfer_id", event.TransferID)
	return nil
}
