package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gcoin-wallet-engine/internal/domain/account"
	"github.com/gcoin-wallet-engine/internal/transfer_processor/service"
)

// LedgerMutatorImpl implements the LedgerMutator interface on top of the
// account repository. It performs no retries; a failed delta is a hard stop
// handled by the orchestrator's error policy.
type LedgerMutatorImpl struct {
	accountRepo      account.Repository
	feeWalletAddress string
	logger           *slog.Logger
}

// NewLedgerMutator creates a new LedgerMutatorImpl. feeWalletAddress
// identifies the platform fee-collection account.
func NewLedgerMutator(accountRepo account.Repository, feeWalletAddress string, logger *slog.Logger) service.LedgerMutator {
	return &LedgerMutatorImpl{
		accountRepo:      accountRepo,
		feeWalletAddress: feeWalletAddress,
		logger:           logger,
	}
}

// DebitIfSufficient decrements the balance only when it covers the amount.
// The balance check and decrement happen in one statement, so concurrent
// debits cannot overdraw the account.
func (m *LedgerMutatorImpl) DebitIfSufficient(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error {
	if err := m.accountRepo.DebitIfSufficient(ctx, accountID, amount); err != nil {
		return err
	}
	m.logger.Debug("Debited account",
		"account_id", accountID.String(),
		"amount", amount.String(),
	)
	return nil
}

// ApplyDelta applies a signed amount to the account balance
func (m *LedgerMutatorImpl) ApplyDelta(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error {
	if err := m.accountRepo.ApplyBalanceDelta(ctx, accountID, delta); err != nil {
		return err
	}
	m.logger.Debug("Applied balance delta",
		"account_id", accountID.String(),
		"delta", delta.String(),
	)
	return nil
}

// CreditFeeAccount credits the platform fee-collection account and returns
// its wallet address
func (m *LedgerMutatorImpl) CreditFeeAccount(ctx context.Context, fee decimal.Decimal) (string, error) {
	feeAccount, err := m.accountRepo.GetByWalletAddress(ctx, m.feeWalletAddress)
	if err != nil {
		return "", fmt.Errorf("failed to look up fee-collection account: %w", err)
	}
	if feeAccount == nil {
		return "", fmt.Errorf("fee-collection account %s does not exist", m.feeWalletAddress)
	}

	if err := m.accountRepo.ApplyBalanceDelta(ctx, feeAccount.ID, fee); err != nil {
		return "", fmt.Errorf("failed to credit fee-collection account: %w", err)
	}

	m.logger.Debug("Credited fee-collection account",
		"wallet_address", feeAccount.WalletAddress,
		"fee", fee.String(),
	)
	return feeAccount.WalletAddress, nil
}
