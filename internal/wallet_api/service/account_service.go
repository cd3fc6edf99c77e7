package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gcoin-wallet-engine/internal/domain/account"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo account.Repository) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
	}
}

// Register creates a new account with a freshly generated wallet address. The
// address is random, so a collision surfaces as ErrDuplicateWalletAddress and
// the client can simply retry.
func (s *AccountServiceImpl) Register(ctx context.Context, username, email, displayName string, initialBalance decimal.Decimal) (*account.Account, error) {
	existing, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, account.ErrDuplicateUsername{Username: username}
	}

	acc, err := account.NewAccount(account.NewWalletAddress(), username, email, displayName, initialBalance)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.CreatePrivileged(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// GetByWalletAddress retrieves an account by its wallet address
func (s *AccountServiceImpl) GetByWalletAddress(ctx context.Context, walletAddress string) (*account.Account, error) {
	return s.accountRepo.GetByWalletAddress(ctx, walletAddress)
}
