package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/gcoin-wallet-engine/internal/domain/shared"
	"github.com/gcoin-wallet-engine/internal/domain/transfer"
)

// Event stores a terminal transfer-status change for reliable publishing.
// Downstream consumers (notifications, reconciliation) learn about transfer
// completion from the events topic instead of polling the record store.
type Event struct {
	ID            int64               `json:"id"`
	TransferID    uuid.UUID           `json:"transfer_id"`
	SenderWallet  string              `json:"sender_wallet"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

// NewEvent wraps a finalized transfer record into a pending outbox event
func NewEvent(record *transfer.Record) (*Event, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	return &Event{
		TransferID:   record.ID,
		SenderWallet: record.SenderWallet,
		Payload:      payload,
		Status:       shared.OutboxStatusPending,
		Attempts:     0,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (e *Event) IncrementAttempts() {
	e.Attempts++
	now := time.Now().UTC()
	e.LastAttemptAt = &now
}

func (e *Event) MarkAsProcessed() {
	e.Status = shared.OutboxStatusProcessed
	now := time.Now().UTC()
	e.LastAttemptAt = &now
}

func (e *Event) MarkAsFailed() {
	e.Status = shared.OutboxStatusFailedToPublish
	now := time.Now().UTC()
	e.LastAttemptAt = &now
}

// TransferRecord extracts the transfer record from the payload
func (e *Event) TransferRecord() (*transfer.Record, error) {
	var record transfer.Record
	if err := json.Unmarshal(e.Payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
