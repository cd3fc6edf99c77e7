package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gcoin-wallet-engine/internal/domain/fees"
	"github.com/gcoin-wallet-engine/internal/domain/shared"
	"github.com/gcoin-wallet-engine/internal/domain/transfer"
	"github.com/gcoin-wallet-engine/internal/transfer_processor/service"
)

// TransferValidatorImpl implements the TransferValidator interface
type TransferValidatorImpl struct {
	transferRepo transfer.Repository
	calculator   *fees.Calculator
	logger       *slog.Logger
}

// NewTransferValidator creates a new TransferValidatorImpl. The calculator
// must be the same instance the gateway quotes with, so the re-check never
// disagrees with the quote.
func NewTransferValidator(transferRepo transfer.Repository, calculator *fees.Calculator, logger *slog.Logger) service.TransferValidator {
	return &TransferValidatorImpl{
		transferRepo: transferRepo,
		calculator:   calculator,
		logger:       logger,
	}
}

// Validate re-checks the policy preconditions the gateway verified. The
// checks are pure, so repeating them here guards against stale or forged
// messages on the transfer topic.
func (v *TransferValidatorImpl) Validate(ctx context.Context, request *shared.TransferRequest) error {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	if request.Amount.Sign() <= 0 {
		logger.Error("Invalid amount", "transfer_id", request.TransferID.String(), "amount", request.Amount.String())
		return shared.ErrInvalidAmount
	}

	if request.RecipientToken == request.SenderWallet {
		logger.Error("Self transfer", "transfer_id", request.TransferID.String())
		return shared.ErrSelfTransfer
	}

	if !v.calculator.WithinDailyLimit(request.Amount) {
		logger.Error("Amount over daily limit", "transfer_id", request.TransferID.String(), "amount", request.Amount.String())
		return shared.ErrOverDailyLimit
	}

	if !request.Fee.Equal(v.calculator.Fee(request.Amount)) {
		logger.Error("Fee mismatch",
			"transfer_id", request.TransferID.String(),
			"quoted_fee", request.Fee.String(),
			"expected_fee", v.calculator.Fee(request.Amount).String(),
		)
		return shared.ErrFeeMismatch
	}

	return nil
}

// CheckIdempotency loads the pending record the gateway created. A missing
// record means the message arrived before the record write became visible,
// which is retryable. A terminal record means the transfer was already
// processed and the message should be skipped.
func (v *TransferValidatorImpl) CheckIdempotency(ctx context.Context, request *shared.TransferRequest) (*transfer.Record, bool, error) {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	record, err := v.transferRepo.GetByID(ctx, request.TransferID)
	if err != nil {
		logger.Error("Failed to load transfer record for idempotency check",
			"transfer_id", request.TransferID.String(),
			"error", err,
		)
		return nil, false, fmt.Errorf("idempotency check failed for transfer %s: %w", request.TransferID.String(), err)
	}

	if record.IsTerminal() {
		logger.Info("Transfer already processed (idempotency)",
			"transfer_id", request.TransferID.String(),
			"status", string(record.Status),
		)
		return record, true, nil
	}

	return record, false, nil
}
