package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gcoin-wallet-engine/internal/domain/account"
	"github.com/gcoin-wallet-engine/internal/domain/shared"
	"github.com/gcoin-wallet-engine/internal/domain/transfer"
)

// OrchestratorImpl drives a pending transfer through the saga: resolve the
// recipient, provision if needed, debit the sender, credit the recipient and
// the fee account, create the mirror record, and finalize. Each step is a
// separate remote mutation with no cross-step atomicity; ordering guarantees
// that an interruption never leaves a credited recipient without a matching
// sender debit.
type OrchestratorImpl struct {
	transferRepo  transfer.Repository
	validator     TransferValidator
	resolver      AddressResolver
	provisioner   AccountProvisioner
	mutator       LedgerMutator
	outboxManager OutboxManager
	logger        *slog.Logger
}

func NewOrchestrator(
	transferRepo transfer.Repository,
	validator TransferValidator,
	resolver AddressResolver,
	provisioner AccountProvisioner,
	mutator LedgerMutator,
	outboxManager OutboxManager,
	logger *slog.Logger,
) OrchestrationService {
	return &OrchestratorImpl{
		transferRepo:  transferRepo,
		validator:     validator,
		resolver:      resolver,
		provisioner:   provisioner,
		mutator:       mutator,
		outboxManager: outboxManager,
		logger:        logger,
	}
}

// ProcessTransfer handles the core logic for driving one transfer to a
// terminal state. A nil return acknowledges the Kafka message; a non-nil
// return is only used before any funds have moved, where redelivery is safe.
func (s *OrchestratorImpl) ProcessTransfer(ctx context.Context, request *shared.TransferRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Processing transfer",
		"transfer_id", request.TransferID.String(),
		"sender_wallet", request.SenderWallet,
		"amount", request.Amount.String(),
	)

	// 1. Load the pending record; skip if already terminal
	record, skip, err := s.validator.CheckIdempotency(ctx, request)
	if err != nil {
		return err // Let Kafka retry, nothing has moved yet
	}
	if skip {
		return nil // Already processed, acknowledge
	}

	// 2. Re-validate against the fee and limit policy
	if err := s.validator.Validate(ctx, request); err != nil {
		logger.Warn("Transfer failed re-validation",
			"transfer_id", request.TransferID.String(),
			"error", err,
		)
		return s.finalize(ctx, logger, record, shared.TransferStatusRefunded, shared.ReasonValidationFailed)
	}

	// 3. Resolve the recipient
	resolution, err := s.resolver.Resolve(ctx, request.RecipientToken, request.TokenIsUser, request.SenderWallet)
	if err != nil {
		return err // Storage fault before any debit, let Kafka retry
	}

	recipient := resolution.Account
	if recipient == nil {
		// 4. Provision when the token is a well-formed but unknown wallet address
		if !request.TokenIsUser && account.IsValidWalletAddress(request.RecipientToken) {
			recipient = s.provisioner.Provision(ctx, request.RecipientToken)
			if recipient == nil {
				logger.Warn("Recipient provisioning failed",
					"transfer_id", request.TransferID.String(),
					"recipient_token", request.RecipientToken,
				)
				return s.finalize(ctx, logger, record, shared.TransferStatusRefunded, shared.ReasonProvisioningFailed)
			}
			logger.Info("Provisioned recipient account",
				"transfer_id", request.TransferID.String(),
				"recipient_wallet", recipient.WalletAddress,
			)
		} else {
			logger.Warn("Recipient could not be resolved",
				"transfer_id", request.TransferID.String(),
				"recipient_token", request.RecipientToken,
				"suggestions", resolution.Suggestions,
			)
			return s.finalize(ctx, logger, record, shared.TransferStatusRefunded, shared.ReasonRecipientNotFound)
		}
	}

	// A username token can resolve back to the sender; re-check here since the
	// gateway could only compare raw tokens.
	if recipient.WalletAddress == request.SenderWallet {
		logger.Warn("Recipient resolved to the sender wallet",
			"transfer_id", request.TransferID.String(),
		)
		return s.finalize(ctx, logger, record, shared.TransferStatusRefunded, shared.ReasonValidationFailed)
	}

	// 5. Conditional sender debit
	total := request.Amount.Add(request.Fee)
	if err := s.mutator.DebitIfSufficient(ctx, request.SenderID, total); err != nil {
		if errors.Is(err, account.ErrInsufficientBalance{}) {
			// The debit definitively did not happen, so no funds moved
			logger.Warn("Sender balance no longer covers amount plus fee",
				"transfer_id", request.TransferID.String(),
				"total", total.String(),
			)
			return s.finalize(ctx, logger, record, shared.TransferStatusRefunded, shared.ReasonInsufficientBalance)
		}
		// Ambiguous fault: the debit may or may not have been applied.
		// Redelivery could double-debit, so record the failure instead.
		logger.Error("Sender debit failed",
			"transfer_id", request.TransferID.String(),
			"error", err,
		)
		return s.finalize(ctx, logger, record, shared.TransferStatusFailed, shared.ReasonDebitFailed)
	}

	// 6. Recipient credit. The sender is already debited; there is no
	// automatic compensation past this point.
	if err := s.mutator.ApplyDelta(ctx, recipient.ID, request.Amount); err != nil {
		logger.Error("Recipient credit failed after sender debit",
			"transfer_id", request.TransferID.String(),
			"recipient_wallet", recipient.WalletAddress,
			"error", err,
		)
		return s.finalize(ctx, logger, record, shared.TransferStatusFailed, shared.ReasonCreditFailed)
	}

	// 7. Fee credit and fee-receipt record, best-effort relative to the
	// user-visible transfer outcome
	if request.Fee.Sign() > 0 {
		feeWallet, err := s.mutator.CreditFeeAccount(ctx, request.Fee)
		if err != nil {
			logger.Error("Fee credit failed, continuing",
				"transfer_id", request.TransferID.String(),
				"fee", request.Fee.String(),
				"error", err,
			)
		} else {
			receipt := transfer.NewFeeReceiptRecord(record, feeWallet)
			if err := s.transferRepo.Insert(ctx, receipt); err != nil {
				logger.Error("Failed to insert fee-receipt record, continuing",
					"transfer_id", request.TransferID.String(),
					"error", err,
				)
			}
		}
	}

	// 8. Mirror record for the recipient
	mirror := transfer.NewReceiveRecord(record, recipient.WalletAddress)
	if err := s.transferRepo.Insert(ctx, mirror); err != nil {
		logger.Error("Failed to insert mirror record",
			"transfer_id", request.TransferID.String(),
			"error", err,
		)
		return s.finalize(ctx, logger, record, shared.TransferStatusFailed, shared.ReasonMirrorRecordFailed)
	}

	// 9. Finalize
	return s.finalize(ctx, logger, record, shared.TransferStatusCompleted, "")
}

// finalize moves the record to a terminal status and emits the terminal
// event. It always acknowledges the message: once funds may have moved,
// redelivery is more dangerous than a record stuck in pending, which is the
// accepted worst observable state.
func (s *OrchestratorImpl) finalize(
	ctx context.Context,
	logger *slog.Logger,
	record *transfer.Record,
	status shared.TransferStatus,
	reason shared.StatusReason,
) error {
	if err := s.transferRepo.UpdateStatus(ctx, record.ID, status, string(reason)); err != nil {
		if errors.Is(err, transfer.ErrRecordFinalized{}) {
			logger.Info("Transfer record already finalized",
				"transfer_id", record.ID.String(),
			)
			return nil
		}
		logger.Error("Failed to finalize transfer record, leaving it pending",
			"transfer_id", record.ID.String(),
			"target_status", string(status),
			"error", err,
		)
		return nil
	}

	if err := record.Finalize(status, reason); err != nil {
		logger.Error("Failed to finalize in-memory record",
			"transfer_id", record.ID.String(),
			"error", err,
		)
		return nil
	}

	if err := s.outboxManager.CreateTerminalEvent(ctx, record); err != nil {
		logger.Error("Failed to create terminal transfer event",
			"transfer_id", record.ID.String(),
			"error", err,
		)
	}

	logger.Info("Transfer finalized",
		"transfer_id", record.ID.String(),
		"status", string(status),
		"reason", string(reason),
	)
	return nil
}
