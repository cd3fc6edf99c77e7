package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gcoin-wallet-engine/internal/domain/outbox"
	"github.com/gcoin-wallet-engine/internal/domain/transfer"
	"github.com/gcoin-wallet-engine/internal/transfer_processor/service"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) service.OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateTerminalEvent records a finalized transfer in the outbox for the
// poller to publish. A duplicate event for the same transfer is not an error;
// the first one wins.
func (m *OutboxManagerImpl) CreateTerminalEvent(ctx context.Context, record *transfer.Record) error {
	logger := m.logger
	if record.CorrelationID != "" {
		logger = m.logger.With("correlation_id", record.CorrelationID)
	}

	event, err := outbox.NewEvent(record)
	if err != nil {
		logger.Error("Failed to build outbox event payload",
			"transfer_id", record.ID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to build outbox event for transfer %s: %w", record.ID.String(), err)
	}

	if err := m.outboxRepo.Create(ctx, event); err != nil {
		if errors.Is(err, outbox.ErrDuplicateEvent{TransferID: record.ID}) {
			logger.Info("Outbox event already exists",
				"transfer_id", record.ID.String(),
			)
			return nil
		}
		logger.Error("Failed to create outbox event",
			"transfer_id", record.ID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox event for transfer %s: %w", record.ID.String(), err)
	}

	logger.Info("Terminal transfer event recorded",
		"transfer_id", record.ID.String(),
		"outbox_id", event.ID,
		"status", string(record.Status),
	)
	return nil
}
