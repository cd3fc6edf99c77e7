package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gcoin-wallet-engine/internal/wallet_api/service"
)

// QuoteHandler handles HTTP requests for fee, limit, and staking quotes
type QuoteHandler struct {
	quoteService service.QuoteService
	logger       *slog.Logger
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(logger *slog.Logger, quoteService service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// GetFee quotes the fee for an amount passed as the "amount" query parameter
func (h *QuoteHandler) GetFee(c *gin.Context) {
	amountParam := c.Query("amount")
	amount, err := decimal.NewFromString(amountParam)
	if err != nil || amount.Sign() <= 0 {
		RespondBadRequest(c, "amount must be a positive decimal")
		return
	}

	fee, description := h.quoteService.QuoteFee(amount)

	RespondOK(c, FeeQuoteResponse{
		Amount:      amount.StringFixed(2),
		Fee:         fee.StringFixed(2),
		Total:       amount.Add(fee).StringFixed(2),
		Description: description,
	})
}

// GetLimit returns the per-transfer ceiling
func (h *QuoteHandler) GetLimit(c *gin.Context) {
	RespondOK(c, LimitQuoteResponse{
		DailyLimit: h.quoteService.QuoteLimit().StringFixed(2),
	})
}

// GetStakingReward quotes the reward for staking "principal" over
// "duration_days", plus the early-withdrawal penalty
func (h *QuoteHandler) GetStakingReward(c *gin.Context) {
	principal, err := decimal.NewFromString(c.Query("principal"))
	if err != nil || principal.Sign() <= 0 {
		RespondBadRequest(c, "principal must be a positive decimal")
		return
	}

	durationDays, err := strconv.Atoi(c.Query("duration_days"))
	if err != nil || durationDays <= 0 {
		RespondBadRequest(c, "duration_days must be a positive integer")
		return
	}

	reward, penalty := h.quoteService.QuoteStakingReward(principal, durationDays)

	RespondOK(c, StakingQuoteResponse{
		Principal:              principal.StringFixed(2),
		DurationDays:           durationDays,
		Reward:                 reward.StringFixed(2),
		EarlyWithdrawalPenalty: penalty.StringFixed(2),
	})
}
