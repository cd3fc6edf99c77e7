package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gcoin-wallet-engine/internal/domain/account"
	"github.com/gcoin-wallet-engine/internal/domain/shared"
	"github.com/gcoin-wallet-engine/internal/domain/transfer"
)

// OrchestrationService defines the interface for driving a pending transfer
// to its terminal state.
type OrchestrationService interface {
	ProcessTransfer(ctx context.Context, request *shared.TransferRequest) error
}

// Suggestion is one fuzzy-match candidate for an unresolved wallet address
type Suggestion struct {
	WalletAddress string  `json:"wallet_address"`
	Score         float64 `json:"score"`
}

// Resolution is the outcome of recipient resolution. Account is nil when
// neither an exact nor a confident fuzzy match exists; Suggestions always
// carries the best candidates for "did you mean" handling.
type Resolution struct {
	Account     *account.Account
	Wallet      string
	Suggestions []Suggestion
}

// AddressResolver maps a recipient token (username or wallet address) to an
// account. Read-only; absence is represented by a nil Account, not an error.
type AddressResolver interface {
	Resolve(ctx context.Context, token string, isUsername bool, excludeWallet string) (*Resolution, error)
}

// AccountProvisioner creates zero-balance accounts for well-formed wallet
// addresses that have no account yet. Returns nil on any creation failure so
// the orchestrator can treat "could not provision" as a refund outcome.
type AccountProvisioner interface {
	Provision(ctx context.Context, walletAddress string) *account.Account
}

// TransferValidator re-validates transfer requests against the fee and limit
// policy and checks whether the transfer was already driven to a terminal
// state.
type TransferValidator interface {
	Validate(ctx context.Context, request *shared.TransferRequest) error

	// CheckIdempotency loads the pending record created by the gateway.
	// skip is true when the record is already terminal.
	CheckIdempotency(ctx context.Context, request *shared.TransferRequest) (record *transfer.Record, skip bool, err error)
}

// LedgerMutator applies balance deltas during transfer processing
type LedgerMutator interface {
	// DebitIfSufficient is the conditional sender debit: it decrements the
	// balance only when it covers the amount.
	DebitIfSufficient(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error

	// ApplyDelta applies a signed amount, used for recipient credits.
	ApplyDelta(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error

	// CreditFeeAccount credits the platform fee-collection account and
	// returns its wallet address for the fee-receipt record.
	CreditFeeAccount(ctx context.Context, fee decimal.Decimal) (string, error)
}

// OutboxManager records terminal transfer events for asynchronous publishing
type OutboxManager interface {
	CreateTerminalEvent(ctx context.Context, record *transfer.Record) error
}
