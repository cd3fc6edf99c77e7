package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gcoin-wallet-engine/internal/domain/outbox"
	"github.com/gcoin-wallet-engine/internal/domain/shared"
	"github.com/gcoin-wallet-engine/internal/platform/persistence"
)

// OutboxRepository implements the outbox.Repository interface for PostgreSQL
type OutboxRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewOutboxRepository creates a new PostgreSQL outbox repository
func NewOutboxRepository(logger *slog.Logger, db *persistence.PostgresDB) outbox.Repository {
	return &OutboxRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations.
// This ensures event creation is atomic with other database operations.
func (r *OutboxRepository) WithTx(tx pgx.Tx) outbox.Repository {
	return &OutboxRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new outbox event in pending status.
// The event will be picked up by the outbox poller for publishing.
func (r *OutboxRepository) Create(ctx context.Context, event *outbox.Event) error {
	query := `
		INSERT INTO transfer_outbox (transfer_id, sender_wallet, payload, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		event.TransferID,
		event.SenderWallet,
		event.Payload,
		event.Status,
		event.Attempts,
		event.CreatedAt,
	).Scan(&event.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return outbox.ErrDuplicateEvent{TransferID: event.TransferID}
		}
		r.logger.Error("Failed to create outbox event",
			"transfer_id", event.TransferID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox event: %w", err)
	}

	return nil
}

// GetPending retrieves a batch of pending outbox events ordered by creation time.
// This is used by the outbox poller to publish events in FIFO order.
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Event, error) {
	query := `
		SELECT id, transfer_id, sender_wallet, payload, status, attempts, created_at, last_attempt_at
		FROM transfer_outbox
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.querier.Query(ctx, query, shared.OutboxStatusPending, limit)
	if err != nil {
		r.logger.Error("Failed to get pending outbox events", "error", err)
		return nil, fmt.Errorf("failed to get pending outbox events: %w", err)
	}
	defer rows.Close()

	var events []*outbox.Event
	for rows.Next() {
		var event outbox.Event
		err := rows.Scan(
			&event.ID,
			&event.TransferID,
			&event.SenderWallet,
			&event.Payload,
			&event.Status,
			&event.Attempts,
			&event.CreatedAt,
			&event.LastAttemptAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan outbox event", "error", err)
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over outbox events", "error", err)
		return nil, fmt.Errorf("error iterating over outbox events: %w", err)
	}

	return events, nil
}

// UpdateStatus updates the event status and last attempt timestamp.
// Returns ErrEventNotFound if the event doesn't exist.
func (r *OutboxRepository) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	query := `
		UPDATE transfer_outbox
		SET status = $1, last_attempt_at = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update outbox event status",
			"id", id,
			"status", string(status),
			"error", err,
		)
		return fmt.Errorf("failed to update outbox event status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return outbox.ErrEventNotFound{ID: id}
	}

	return nil
}

// IncrementAttempts increments the retry counter and updates last attempt time.
// This is used for tracking failed publish attempts and implementing retry logic.
func (r *OutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	query := `
		UPDATE transfer_outbox
		SET attempts = attempts + 1, last_attempt_at = $1
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to increment outbox event attempts",
			"id", id,
			"error", err,
		)
		return fmt.Errorf("failed to increment outbox event attempts: %w", err)
	}

	if result.RowsAffected() == 0 {
		return outbox.ErrEventNotFound{ID: id}
	}

	return nil
}

// Delete permanently removes an event from the outbox.
// This is typically called after successful publishing.
func (r *OutboxRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM transfer_outbox
		WHERE id = $1
	`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete outbox event",
			"id", id,
			"error", err,
		)
		return fmt.Errorf("failed to delete outbox event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return outbox.ErrEventNotFound{ID: id}
	}

	return nil
}

// GetByTransferID retrieves an event by transfer ID for idempotency checking.
// Returns ErrEventNotFound if no event exists for the given transfer.
func (r *OutboxRepository) GetByTransferID(ctx context.Context, transferID uuid.UUID) (*outbox.Event, error) {
	query := `
		SELECT id, transfer_id, sender_wallet, payload, status, attempts, created_at, last_attempt_at
		FROM transfer_outbox
		WHERE transfer_id = $1
	`

	var event outbox.Event
	err := r.querier.QueryRow(ctx, query, transferID).Scan(
		&event.ID,
		&event.TransferID,
		&event.SenderWallet,
		&event.Payload,
		&event.Status,
		&event.Attempts,
		&event.CreatedAt,
		&event.LastAttemptAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, outbox.ErrEventNotFound{ID: 0}
		}
		r.logger.Error("Failed to get outbox event by transfer ID",
			"transfer_id", transferID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to get outbox event by transfer ID: %w", err)
	}

	return &event, nil
}
