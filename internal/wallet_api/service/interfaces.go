package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gcoin-wallet-engine/internal/domain/account"
	"github.com/gcoin-wallet-engine/internal/domain/shared"
	"github.com/gcoin-wallet-engine/internal/domain/transfer"
)

// AccountService defines the interface for account operations
type AccountService interface {
	// Register creates a new account with a freshly generated wallet address.
	// Returns ErrDuplicateUsername if the username is taken.
	Register(ctx context.Context, username, email, displayName string, initialBalance decimal.Decimal) (*account.Account, error)

	// GetByWalletAddress retrieves an account by its wallet address.
	// Returns (nil, nil) if no account matches.
	GetByWalletAddress(ctx context.Context, walletAddress string) (*account.Account, error)
}

// TransferService defines the interface for transfer operations
type TransferService interface {
	// InitiateTransfer checks the initiation preconditions, persists the
	// pending send record, and hands the transfer to the processor. The
	// returned record is still pending; the processor drives it to a terminal
	// state.
	InitiateTransfer(ctx context.Context, request *shared.TransferRequest) (*transfer.Record, error)

	// GetTransferByID retrieves a transfer record by its ID.
	// Returns (nil, nil) if the record is not found.
	GetTransferByID(ctx context.Context, transferID uuid.UUID) (*transfer.Record, error)

	// GetTransfersByWallet retrieves the paginated transfer history visible to
	// a wallet. Returns records, total count, and any error.
	GetTransfersByWallet(ctx context.Context, walletAddress string, page, perPage int) ([]*transfer.Record, int64, error)
}

// QuoteService defines the interface for fee, limit, and staking quotes
type QuoteService interface {
	// QuoteFee returns the fee for the amount together with a human-readable
	// breakdown of the applied brackets.
	QuoteFee(amount decimal.Decimal) (decimal.Decimal, string)

	// QuoteLimit returns the per-transfer ceiling
	QuoteLimit() decimal.Decimal

	// QuoteStakingReward prices a stake of the principal over the duration and
	// the penalty for withdrawing it early.
	QuoteStakingReward(principal decimal.Decimal, durationDays int) (reward, penalty decimal.Decimal)
}
