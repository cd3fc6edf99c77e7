package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gcoin-wallet-engine/internal/domain/account"
	"github.com/gcoin-wallet-engine/internal/domain/fees"
	"github.com/gcoin-wallet-engine/internal/domain/shared"
	"github.com/gcoin-wallet-engine/internal/domain/transfer"
	"github.com/gcoin-wallet-engine/internal/platform/messaging/producers"
)

// ErrUnknownSender indicates the sender wallet has no account
var ErrUnknownSender = errors.New("sender wallet address has no account")

// TransferServiceImpl implements the TransferService interface
type TransferServiceImpl struct {
	accountRepo  account.Repository
	transferRepo transfer.Repository
	calculator   *fees.Calculator
	producer     producers.MessagePublisher
	logger       *slog.Logger
}

// NewTransferService creates a new transfer service
func NewTransferService(
	logger *slog.Logger,
	accountRepo account.Repository,
	transferRepo transfer.Repository,
	calculator *fees.Calculator,
	producer producers.MessagePublisher,
) TransferService {
	return &TransferServiceImpl{
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		calculator:   calculator,
		producer:     producer,
		logger:       logger,
	}
}

// InitiateTransfer checks the initiation preconditions synchronously, writes
// the pending send record, and publishes the request for the processor. The
// balance check here is advisory; the authoritative check is the processor's
// conditional debit.
func (s *TransferServiceImpl) InitiateTransfer(ctx context.Context, request *shared.TransferRequest) (*transfer.Record, error) {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	if request.Amount.Sign() <= 0 {
		return nil, shared.ErrInvalidAmount
	}
	if request.RecipientToken == request.SenderWallet {
		return nil, shared.ErrSelfTransfer
	}
	if !s.calculator.WithinDailyLimit(request.Amount) {
		return nil, shared.ErrOverDailyLimit
	}
	if !request.Fee.Equal(s.calculator.Fee(request.Amount)) {
		return nil, shared.ErrFeeMismatch
	}

	sender, err := s.accountRepo.GetByWalletAddress(ctx, request.SenderWallet)
	if err != nil {
		logger.Error("Failed to load sender account",
			"sender_wallet", request.SenderWallet,
			"error", err,
		)
		return nil, err
	}
	if sender == nil {
		return nil, ErrUnknownSender
	}
	if !sender.CanSpend(request.Amount.Add(request.Fee)) {
		return nil, shared.ErrInsufficientBalance
	}

	request.SenderID = sender.ID

	record := transfer.NewSendRecord(
		request.TransferID,
		request.SenderWallet,
		request.RecipientToken,
		request.Amount,
		request.Fee,
		request.Note,
		request.CorrelationID,
	)
	if err := s.transferRepo.Insert(ctx, record); err != nil {
		logger.Error("Failed to persist pending transfer record",
			"transfer_id", request.TransferID.String(),
			"error", err,
		)
		return nil, err
	}

	if err := s.producer.Publish(ctx, request.TransferID.String(), request); err != nil {
		logger.Error("Failed to publish transfer request, refunding record",
			"transfer_id", request.TransferID.String(),
			"error", err,
		)
		// Best effort; a record stuck in pending is visible but harmless since
		// no funds have moved
		if updErr := s.transferRepo.UpdateStatus(ctx, request.TransferID, shared.TransferStatusRefunded, string(shared.ReasonPublishFailed)); updErr != nil {
			logger.Error("Failed to refund unpublished transfer record",
				"transfer_id", request.TransferID.String(),
				"error", updErr,
			)
		}
		return nil, err
	}

	logger.Info("Transfer request published",
		"transfer_id", request.TransferID.String(),
		"sender_wallet", request.SenderWallet,
		"amount", request.Amount.String(),
		"fee", request.Fee.String(),
	)
	return record, nil
}

// GetTransferByID retrieves a transfer record by its ID. Returns nil if not found
func (s *TransferServiceImpl) GetTransferByID(ctx context.Context, transferID uuid.UUID) (*transfer.Record, error) {
	record, err := s.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		if errors.Is(err, transfer.ErrRecordNotFound{}) {
			s.logger.Info("Transfer not found", "transfer_id", transferID.String())
			return nil, nil
		}
		s.logger.Error("Failed to get transfer", "transfer_id", transferID.String(), "error", err)
		return nil, err
	}
	return record, nil
}

// GetTransfersByWallet retrieves the paginated transfer history for a wallet.
// Returns records, total count, and any error
func (s *TransferServiceImpl) GetTransfersByWallet(ctx context.Context, walletAddress string, page, perPage int) ([]*transfer.Record, int64, error) {
	offset := (page - 1) * perPage

	records, err := s.transferRepo.ListByWallet(ctx, walletAddress, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transferRepo.CountByWallet(ctx, walletAddress)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
