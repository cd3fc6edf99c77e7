package account

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletAddressPrefix is the fixed prefix every wallet address carries
const WalletAddressPrefix = "gCoin"

var walletAddressPattern = regexp.MustCompile(`^gCoin[0-9A-Za-z]{8,}$`)

// Common errors
var (
	ErrInvalidWalletAddress = errors.New("wallet address must start with gCoin followed by at least 8 alphanumeric characters")
	ErrEmptyUsername        = errors.New("username cannot be empty")
	ErrNegativeBalance      = errors.New("balance cannot be negative")
)

// Account represents a wallet account. The wallet address is the externally
// shareable identifier and is immutable once assigned.
type Account struct {
	ID            uuid.UUID       `json:"id"`
	WalletAddress string          `json:"wallet_address"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	DisplayName   string          `json:"display_name"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewAccount creates a new account with the given identity and balance
func NewAccount(walletAddress, username, email, displayName string, initialBalance decimal.Decimal) (*Account, error) {
	if !IsValidWalletAddress(walletAddress) {
		return nil, ErrInvalidWalletAddress
	}
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if initialBalance.IsNegative() {
		return nil, ErrNegativeBalance
	}

	now := time.Now().UTC()
	return &Account{
		ID:            uuid.New(),
		WalletAddress: walletAddress,
		Username:      username,
		Email:         email,
		DisplayName:   displayName,
		Balance:       initialBalance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsValidWalletAddress checks the wallet address format invariant
func IsValidWalletAddress(addr string) bool {
	return walletAddressPattern.MatchString(addr)
}

// NewWalletAddress generates a fresh wallet address from a random identity
func NewWalletAddress() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return WalletAddressPrefix + raw[:12]
}

// CanSpend checks whether the account balance covers the given total
func (a *Account) CanSpend(total decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(total)
}
