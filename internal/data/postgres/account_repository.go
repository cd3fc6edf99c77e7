// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the wallet engine.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/gcoin-wallet-engine/internal/domain/account"
	"github.com/gcoin-wallet-engine/internal/platform/persistence"
)

const uniqueViolationCode = "23505"

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(), // Initialize with the pool
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls. The returned repository will use the provided
// transaction for all database operations.
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx, // Use the transaction
		logger:  r.logger,
	}
}

// CreatePrivileged stores a new account in the database. Uniqueness of the
// wallet address and username is enforced by database constraints and mapped
// to domain errors.
func (r *AccountRepository) CreatePrivileged(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, wallet_address, username, email, display_name, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.WalletAddress,
		acc.Username,
		acc.Email,
		acc.DisplayName,
		acc.Balance,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			switch pgErr.ConstraintName {
			case "accounts_wallet_address_key":
				return account.ErrDuplicateWalletAddress{WalletAddress: acc.WalletAddress}
			case "accounts_username_key":
				return account.ErrDuplicateUsername{Username: acc.Username}
			}
		}
		r.logger.Error("Failed to create account", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, wallet_address, username, email, display_name, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.WalletAddress,
		&acc.Username,
		&acc.Email,
		&acc.DisplayName,
		&acc.Balance,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// GetByWalletAddress retrieves an account by its wallet address
func (r *AccountRepository) GetByWalletAddress(ctx context.Context, walletAddress string) (*account.Account, error) {
	query := `
		SELECT id, wallet_address, username, email, display_name, balance, created_at, updated_at
		FROM accounts
		WHERE wallet_address = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, walletAddress).Scan(
		&acc.ID,
		&acc.WalletAddress,
		&acc.Username,
		&acc.Email,
		&acc.DisplayName,
		&acc.Balance,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Absence is not an error for recipient resolution
		}
		r.logger.Error("Failed to get account by wallet address", "wallet_address", walletAddress, "error", err)
		return nil, fmt.Errorf("failed to get account by wallet address: %w", err)
	}

	return &acc, nil
}

// GetByUsername retrieves an account by its username
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	query := `
		SELECT id, wallet_address, username, email, display_name, balance, created_at, updated_at
		FROM accounts
		WHERE username = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, username).Scan(
		&acc.ID,
		&acc.WalletAddress,
		&acc.Username,
		&acc.Email,
		&acc.DisplayName,
		&acc.Balance,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Absence is not an error for recipient resolution
		}
		r.logger.Error("Failed to get account by username", "username", username, "error", err)
		return nil, fmt.Errorf("failed to get account by username: %w", err)
	}

	return &acc, nil
}

// ListWalletAddresses returns all known wallet addresses except the excluded one.
// Used to build the candidate set for fuzzy recipient matching.
func (r *AccountRepository) ListWalletAddresses(ctx context.Context, excluding string) ([]string, error) {
	query := `
		SELECT wallet_address
		FROM accounts
		WHERE wallet_address <> $1
		ORDER BY wallet_address ASC
	`

	rows, err := r.querier.Query(ctx, query, excluding)
	if err != nil {
		r.logger.Error("Failed to list wallet addresses", "error", err)
		return nil, fmt.Errorf("failed to list wallet addresses: %w", err)
	}
	defer rows.Close()

	var addresses []string
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			r.logger.Error("Failed to scan wallet address", "error", err)
			return nil, fmt.Errorf("failed to scan wallet address: %w", err)
		}
		addresses = append(addresses, address)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over wallet addresses", "error", err)
		return nil, fmt.Errorf("error iterating over wallet addresses: %w", err)
	}

	return addresses, nil
}

// ApplyBalanceDelta applies a signed amount to the account balance.
// Credits always succeed; negative deltas rely on the balance check constraint
// and should normally go through DebitIfSufficient instead.
func (r *AccountRepository) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, delta, id)
	if err != nil {
		r.logger.Error("Failed to apply balance delta", "id", id.String(), "error", err)
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}

// DebitIfSufficient atomically decrements the balance only when it covers the
// amount. The balance check happens inside the UPDATE itself, so concurrent
// debits of the same account cannot overdraw it.
func (r *AccountRepository) DebitIfSufficient(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1
	`

	result, err := r.querier.Exec(ctx, query, amount, id)
	if err != nil {
		r.logger.Error("Failed to debit account", "id", id.String(), "error", err)
		return fmt.Errorf("failed to debit account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrInsufficientBalance{AccountID: id}
	}

	return nil
}
