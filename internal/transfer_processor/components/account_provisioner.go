package components

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gcoin-wallet-engine/internal/domain/account"
	"github.com/gcoin-wallet-engine/internal/transfer_processor/service"
)

// AccountProvisionerImpl implements the AccountProvisioner interface. It is
// the only component that creates accounts on behalf of a third party, going
// through the privileged creation path.
type AccountProvisionerImpl struct {
	accountRepo account.Repository
	logger      *slog.Logger
}

// NewAccountProvisioner creates a new AccountProvisionerImpl
func NewAccountProvisioner(accountRepo account.Repository, logger *slog.Logger) service.AccountProvisioner {
	return &AccountProvisionerImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Provision creates a zero-balance account for a well-formed wallet address
// that has no account yet. The caller is responsible for the format check.
// Returns nil on any failure so the orchestrator can treat it as a refund
// outcome rather than a fault.
func (p *AccountProvisionerImpl) Provision(ctx context.Context, walletAddress string) *account.Account {
	suffix := strings.ToLower(strings.TrimPrefix(walletAddress, account.WalletAddressPrefix))
	username := "user_" + suffix
	email := username + "@wallet.local"
	displayName := "Wallet " + suffix

	acc, err := account.NewAccount(walletAddress, username, email, displayName, decimal.Zero)
	if err != nil {
		p.logger.Warn("Failed to build provisioned account",
			"wallet_address", walletAddress,
			"error", err,
		)
		return nil
	}

	if err := p.accountRepo.CreatePrivileged(ctx, acc); err != nil {
		p.logger.Warn("Failed to create provisioned account",
			"wallet_address", walletAddress,
			"username", username,
			"error", err,
		)
		return nil
	}

	p.logger.Info("Provisioned new account",
		"wallet_address", walletAddress,
		"username", username,
	)
	return acc
}
