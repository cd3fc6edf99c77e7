package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gcoin-wallet-engine/internal/domain/account"
	"github.com/gcoin-wallet-engine/internal/wallet_api/service"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Register handles registration of a new wallet account. The wallet address
// is generated server side and returned in the response.
func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	initialBalance := decimal.Zero
	if req.InitialBalance != "" {
		parsed, err := decimal.NewFromString(req.InitialBalance)
		if err != nil {
			RespondBadRequest(c, "Invalid initial balance")
			return
		}
		initialBalance = parsed
	}

	acc, err := h.accountService.Register(c.Request.Context(), req.Username, req.Email, req.DisplayName, initialBalance)
	if err != nil {
		var duplicateUsernameErr account.ErrDuplicateUsername
		if errors.As(err, &duplicateUsernameErr) {
			h.logger.Warn("Attempt to register duplicate username", "username", duplicateUsernameErr.Username)
			RespondConflict(c, "Account with this username already exists")
			return
		}
		if errors.Is(err, account.ErrEmptyUsername) || errors.Is(err, account.ErrNegativeBalance) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to register account", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByWalletAddress retrieves an account by its wallet address, returning
// 404 if not found
func (h *AccountHandler) GetByWalletAddress(c *gin.Context) {
	walletAddress := c.Param("wallet")
	if !account.IsValidWalletAddress(walletAddress) {
		RespondBadRequest(c, "Invalid wallet address")
		return
	}

	acc, err := h.accountService.GetByWalletAddress(c.Request.Context(), walletAddress)
	if err != nil {
		h.logger.Error("Failed to get account", "wallet_address", walletAddress, "error", err)
		RespondInternalError(c)
		return
	}
	if acc == nil {
		RespondNotFound(c, "Account not found")
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		WalletAddress: acc.WalletAddress,
		Username:      acc.Username,
		Email:         acc.Email,
		DisplayName:   acc.DisplayName,
		Balance:       acc.Balance.StringFixed(2),
		CreatedAt:     acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     acc.UpdatedAt.Format(time.RFC3339),
	}
}
