package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gcoin-wallet-engine/internal/domain/account"
	"github.com/gcoin-wallet-engine/internal/domain/shared"
	"github.com/gcoin-wallet-engine/internal/domain/transfer"
	"github.com/gcoin-wallet-engine/internal/wallet_api/middleware"
	"github.com/gcoin-wallet-engine/internal/wallet_api/service"
)

// TransferHandler handles HTTP requests for transfer operations
type TransferHandler struct {
	transferService service.TransferService
	logger          *slog.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(logger *slog.Logger, transferService service.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// Create initiates a new transfer. On success the transfer is accepted for
// asynchronous processing and returned in pending state.
func (h *TransferHandler) Create(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if !account.IsValidWalletAddress(req.SenderWallet) {
		RespondBadRequest(c, "Invalid sender wallet address")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid amount")
		return
	}
	fee, err := decimal.NewFromString(req.Fee)
	if err != nil {
		RespondBadRequest(c, "Invalid fee")
		return
	}

	request := &shared.TransferRequest{
		TransferID:     uuid.New(),
		SenderWallet:   req.SenderWallet,
		RecipientToken: req.RecipientToken,
		TokenIsUser:    req.TokenIsUser,
		Amount:         amount,
		Fee:            fee,
		Note:           req.Note,
		CorrelationID:  middleware.GetCorrelationID(c),
		Timestamp:      time.Now().UTC(),
	}

	record, err := h.transferService.InitiateTransfer(c.Request.Context(), request)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrInvalidAmount):
			RespondBadRequest(c, err.Error())
		case errors.Is(err, shared.ErrSelfTransfer):
			RespondUnprocessable(c, "SELF_TRANSFER", err.Error())
		case errors.Is(err, shared.ErrOverDailyLimit):
			RespondUnprocessable(c, "OVER_DAILY_LIMIT", err.Error())
		case errors.Is(err, shared.ErrFeeMismatch):
			RespondUnprocessable(c, "FEE_MISMATCH", err.Error())
		case errors.Is(err, shared.ErrInsufficientBalance):
			RespondUnprocessable(c, "INSUFFICIENT_BALANCE", err.Error())
		case errors.Is(err, service.ErrUnknownSender):
			RespondNotFound(c, "Sender account not found")
		default:
			h.logger.Error("Failed to initiate transfer", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondAccepted(c, mapTransferToResponse(record))
}

// GetByID retrieves transfer details by transfer ID, returns 404 if not found
func (h *TransferHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transfer ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transfer ID")
		return
	}

	record, err := h.transferService.GetTransferByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get transfer", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}
	if record == nil {
		RespondNotFound(c, "Transfer not found")
		return
	}

	RespondOK(c, mapTransferToResponse(record))
}

// GetByWallet retrieves paginated transfer history for a wallet
func (h *TransferHandler) GetByWallet(c *gin.Context) {
	walletAddress := c.Param("wallet")
	if !account.IsValidWalletAddress(walletAddress) {
		RespondBadRequest(c, "Invalid wallet address")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	records, total, err := h.transferService.GetTransfersByWallet(
		c.Request.Context(),
		walletAddress,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get transfers", "wallet_address", walletAddress, "error", err)
		RespondInternalError(c)
		return
	}

	var transfers []TransferResponse
	for _, record := range records {
		transfers = append(transfers, mapTransferToResponse(record))
	}

	RespondWithPaginatedData(c, http.StatusOK, transfers, pagination.Page, pagination.PerPage, int(total))
}

// mapTransferToResponse maps a transfer record to a transfer response DTO
func mapTransferToResponse(record *transfer.Record) TransferResponse {
	response := TransferResponse{
		TransferID:      record.ID.String(),
		Type:            string(record.Type),
		Amount:          record.Amount.StringFixed(2),
		Fee:             record.Fee.StringFixed(2),
		SenderWallet:    record.SenderWallet,
		RecipientWallet: record.RecipientWallet,
		Note:            record.Note,
		Status:          string(record.Status),
		StatusReason:    record.StatusReason,
		CreatedAt:       record.CreatedAt.Format(time.RFC3339),
	}

	if record.RelatedTransferID != nil {
		response.RelatedTransferID = record.RelatedTransferID.String()
	}
	if record.FinalizedAt != nil {
		response.FinalizedAt = record.FinalizedAt.Format(time.RFC3339)
	}

	return response
}
