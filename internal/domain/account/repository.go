package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository defines account persistence operations
type Repository interface {
	// CreatePrivileged inserts an account on behalf of a third party. It is
	// the only creation path that bypasses per-user write restrictions and is
	// reserved for registration and the account provisioner.
	CreatePrivileged(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetByWalletAddress and GetByUsername return (nil, nil) when no account
	// matches; absence is not an error for recipient resolution.
	GetByWalletAddress(ctx context.Context, walletAddress string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// ListWalletAddresses returns every known wallet address except the
	// excluded one, for fuzzy recipient matching.
	ListWalletAddresses(ctx context.Context, excluding string) ([]string, error)

	// ApplyBalanceDelta applies a signed amount to the account balance
	ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// DebitIfSufficient atomically decrements the balance only when it covers
	// the amount, returning ErrInsufficientBalance otherwise. This closes the
	// read-then-write race on concurrent debits from the same account.
	DebitIfSufficient(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// Is matches any ErrAccountNotFound when the target carries a nil ID
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrInsufficientBalance indicates a conditional debit found the balance short
type ErrInsufficientBalance struct {
	AccountID uuid.UUID
}

func (e ErrInsufficientBalance) Error() string {
	return "insufficient balance on account: " + e.AccountID.String()
}

// Is matches any ErrInsufficientBalance when the target carries a nil ID
func (e ErrInsufficientBalance) Is(target error) bool {
	t, ok := target.(ErrInsufficientBalance)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrDuplicateWalletAddress indicates wallet address uniqueness violation
type ErrDuplicateWalletAddress struct {
	WalletAddress string
}

func (e ErrDuplicateWalletAddress) Error() string {
	return "account with wallet address already exists: " + e.WalletAddress
}

// ErrDuplicateUsername indicates username uniqueness violation
type ErrDuplicateUsername struct {
	Username string
}

func (e ErrDuplicateUsername) Error() string {
	return "account with username already exists: " + e.Username
}
