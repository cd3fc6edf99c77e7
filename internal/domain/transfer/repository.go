package transfer

import (
	"context"

	"github.com/google/uuid"

	"github.com/gcoin-wallet-engine/internal/domain/shared"
)

// Repository manages transfer record persistence with pagination support
type Repository interface {
	Insert(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, transferID uuid.UUID) (*Record, error)
	ListByWallet(ctx context.Context, wallet string, limit, offset int) ([]*Record, error)
	CountByWallet(ctx context.Context, wallet string) (int64, error)

	// UpdateStatus moves a pending record to a terminal status. Records that
	// already carry a terminal status are left untouched and the call returns
	// ErrRecordFinalized.
	UpdateStatus(ctx context.Context, transferID uuid.UUID, status shared.TransferStatus, reason string) error
}

// ErrRecordNotFound indicates missing transfer record
type ErrRecordNotFound struct {
	TransferID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "transfer record not found: " + e.TransferID.String()
}

// Is matches any ErrRecordNotFound when the target carries a nil ID
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	if t.TransferID == uuid.Nil {
		return true
	}
	return e.TransferID == t.TransferID
}

// ErrDuplicateRecord indicates transfer ID uniqueness violation
type ErrDuplicateRecord struct {
	TransferID uuid.UUID
}

func (e ErrDuplicateRecord) Error() string {
	return "duplicate transfer record: " + e.TransferID.String()
}

// Is matches any ErrDuplicateRecord when the target carries a nil ID
func (e ErrDuplicateRecord) Is(target error) bool {
	t, ok := target.(ErrDuplicateRecord)
	if !ok {
		return false
	}
	if t.TransferID == uuid.Nil {
		return true
	}
	return e.TransferID == t.TransferID
}

// ErrRecordFinalized indicates an attempted transition on a terminal record
type ErrRecordFinalized struct {
	TransferID uuid.UUID
	Status     shared.TransferStatus
}

func (e ErrRecordFinalized) Error() string {
	return "transfer record " + e.TransferID.String() + " already finalized as " + string(e.Status)
}

// Is matches any ErrRecordFinalized when the target carries a nil ID
func (e ErrRecordFinalized) Is(target error) bool {
	t, ok := target.(ErrRecordFinalized)
	if !ok {
		return false
	}
	if t.TransferID == uuid.Nil {
		return true
	}
	return e.TransferID == t.TransferID
}

// ErrInvalidTransition indicates a transition to a non-terminal status
type ErrInvalidTransition struct {
	TransferID uuid.UUID
	From       shared.TransferStatus
	To         shared.TransferStatus
}

func (e ErrInvalidTransition) Error() string {
	return "invalid transfer status transition " + string(e.From) + " -> " + string(e.To) + " for " + e.TransferID.String()
}
