package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrSelfTransfer        = errors.New("recipient must differ from sender wallet")
	ErrInsufficientBalance = errors.New("insufficient balance for transfer and fee")
	ErrOverDailyLimit      = errors.New("amount exceeds the per-transfer daily limit")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrFeeMismatch         = errors.New("quoted fee does not match the fee schedule")
)

// TransferRequest defines a Kafka message carrying a pending transfer to the
// processor. The pending TransferRecord has already been persisted by the
// gateway; the processor drives it to a terminal state.
type TransferRequest struct {
	TransferID     uuid.UUID       `json:"transfer_id"`
	SenderID       uuid.UUID       `json:"sender_id"`
	SenderWallet   string          `json:"sender_wallet"`
	RecipientToken string          `json:"recipient_token"`
	TokenIsUser    bool            `json:"token_is_username"`
	Amount         decimal.Decimal `json:"amount"`
	Fee            decimal.Decimal `json:"fee"`
	Note           string          `json:"note,omitempty"`
	CorrelationID  string          `json:"correlation_id"`
	Timestamp      time.Time       `json:"timestamp"`
}
