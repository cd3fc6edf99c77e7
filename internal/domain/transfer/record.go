package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gcoin-wallet-engine/internal/domain/shared"
)

// Record represents one side of a money transfer. A completed transfer has a
// "send" record for the sender and a paired "receive" mirror record for the
// recipient, linked through RelatedTransferID.
type Record struct {
	ID                uuid.UUID             `json:"transfer_id"`
	Type              shared.TransferType   `json:"type"`
	Amount            decimal.Decimal       `json:"amount"`
	Fee               decimal.Decimal       `json:"fee"`
	SenderWallet      string                `json:"sender_wallet"`
	RecipientWallet   string                `json:"recipient_wallet"`
	Note              string                `json:"note,omitempty"`
	Status            shared.TransferStatus `json:"status"`
	StatusReason      string                `json:"status_reason,omitempty"`
	RelatedTransferID *uuid.UUID            `json:"related_transfer_id,omitempty"`
	CorrelationID     string                `json:"correlation_id,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	FinalizedAt       *time.Time            `json:"finalized_at,omitempty"`
}

// NewSendRecord creates the sender-side record in pending state
func NewSendRecord(id uuid.UUID, senderWallet, recipientToken string, amount, fee decimal.Decimal, note, correlationID string) *Record {
	return &Record{
		ID:              id,
		Type:            shared.TransferTypeSend,
		Amount:          amount,
		Fee:             fee,
		SenderWallet:    senderWallet,
		RecipientWallet: recipientToken,
		Note:            note,
		Status:          shared.TransferStatusPending,
		CorrelationID:   correlationID,
		CreatedAt:       time.Now().UTC(),
	}
}

// NewReceiveRecord creates the recipient-side mirror of a completed send.
// Mirror records are born completed; the recipient never observes a pending
// credit.
func NewReceiveRecord(related *Record, recipientWallet string) *Record {
	now := time.Now().UTC()
	relatedID := related.ID
	return &Record{
		ID:                uuid.New(),
		Type:              shared.TransferTypeReceive,
		Amount:            related.Amount,
		Fee:               decimal.Zero,
		SenderWallet:      related.SenderWallet,
		RecipientWallet:   recipientWallet,
		Note:              related.Note,
		Status:            shared.TransferStatusCompleted,
		RelatedTransferID: &relatedID,
		CorrelationID:     related.CorrelationID,
		CreatedAt:         now,
		FinalizedAt:       &now,
	}
}

// NewFeeReceiptRecord creates the fee-collection account's receipt for the
// platform fee taken from a transfer. Like mirror records it is born
// completed.
func NewFeeReceiptRecord(related *Record, feeWallet string) *Record {
	now := time.Now().UTC()
	relatedID := related.ID
	return &Record{
		ID:                uuid.New(),
		Type:              shared.TransferTypeReceive,
		Amount:            related.Fee,
		Fee:               decimal.Zero,
		SenderWallet:      related.SenderWallet,
		RecipientWallet:   feeWallet,
		Note:              "platform fee",
		Status:            shared.TransferStatusCompleted,
		RelatedTransferID: &relatedID,
		CorrelationID:     related.CorrelationID,
		CreatedAt:         now,
		FinalizedAt:       &now,
	}
}

// Finalize transitions the record from pending to a terminal status.
// Terminal records admit no further transitions.
func (r *Record) Finalize(status shared.TransferStatus, reason shared.StatusReason) error {
	if r.Status.IsTerminal() {
		return ErrRecordFinalized{TransferID: r.ID, Status: r.Status}
	}
	if !status.IsTerminal() {
		return ErrInvalidTransition{TransferID: r.ID, From: r.Status, To: status}
	}

	now := time.Now().UTC()
	r.Status = status
	r.StatusReason = string(reason)
	r.FinalizedAt = &now
	return nil
}

// IsTerminal reports whether the record has reached a final status
func (r *Record) IsTerminal() bool {
	return r.Status.IsTerminal()
}
