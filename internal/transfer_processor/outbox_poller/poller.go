package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gcoin-wallet-engine/internal/config"
	"github.com/gcoin-wallet-engine/internal/domain/outbox"
	"github.com/gcoin-wallet-engine/internal/domain/shared"
)

// Poller processes pending outbox events
type Poller struct {
	outboxRepo       outbox.Repository
	eventPublisher   EventPublisher
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	outboxRepo outbox.Repository,
	eventPublisher EventPublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		outboxRepo:       outboxRepo,
		eventPublisher:   eventPublisher,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting Outbox Poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox Poller stopping due to context cancellation.")
			return
		case <-ticker.C:
			p.logger.Debug("Outbox Poller tick: processing pending events")
			if err := p.processPendingEvents(ctx); err != nil {
				p.logger.Error("Error during batch processing of pending outbox events", "error", err)
			}
		}
	}
}

func (p *Poller) processPendingEvents(ctx context.Context) error {
	events, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox events: %w", err)
	}

	if len(events) == 0 {
		p.logger.Debug("No pending outbox events found.")
		return nil
	}

	p.logger.Info("Fetched pending outbox events", "count", len(events))

	for _, event := range events {
		correlationID := ""
		if record, err := event.TransferRecord(); err == nil && record.CorrelationID != "" {
			correlationID = record.CorrelationID
		}

		logger := p.logger
		if correlationID != "" {
			logger = p.logger.With("correlation_id", correlationID)
		}

		err := p.eventPublisher.PublishEvent(ctx, event)
		if err != nil {
			logger.Error("Failed to publish outbox event",
				"outbox_id", event.ID, "transfer_id", event.TransferID, "current_attempts", event.Attempts, "error", err,
			)

			// Increment attempt count
			if errInc := p.outboxRepo.IncrementAttempts(ctx, event.ID); errInc != nil {
				logger.Error("Failed to increment attempts for outbox event", "outbox_id", event.ID, "error", errInc)
				// Continue to next event if increment fails
				continue
			}

			if event.Attempts+1 >= p.maxRetryAttempts {
				logger.Warn("Max retry attempts reached for outbox event, marking as FAILED_TO_PUBLISH",
					"outbox_id", event.ID, "transfer_id", event.TransferID, "attempts_made", event.Attempts+1,
				)
				if errUpdate := p.outboxRepo.UpdateStatus(ctx, event.ID, shared.OutboxStatusFailedToPublish); errUpdate != nil {
					logger.Error("Failed to update outbox status to FAILED_TO_PUBLISH after max retries", "outbox_id", event.ID, "error", errUpdate)
				}
			}
			continue
		}
		logger.Info("Successfully processed and published outbox event", "outbox_id", event.ID, "transfer_id", event.TransferID)
	}
	return nil
}
