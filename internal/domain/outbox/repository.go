package outbox

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gcoin-wallet-engine/internal/domain/shared"
)

// Repository manages transfer-event outbox persistence
type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetPending(ctx context.Context, limit int) ([]*Event, error)
	UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error
	IncrementAttempts(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	GetByTransferID(ctx context.Context, transferID uuid.UUID) (*Event, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrEventNotFound indicates missing outbox event
type ErrEventNotFound struct {
	ID int64
}

func (e ErrEventNotFound) Error() string {
	return "outbox event not found: " + strconv.FormatInt(e.ID, 10)
}

// ErrDuplicateEvent indicates transfer uniqueness violation
type ErrDuplicateEvent struct {
	TransferID uuid.UUID
}

func (e ErrDuplicateEvent) Error() string {
	return "duplicate outbox event: " + e.TransferID.String()
}
