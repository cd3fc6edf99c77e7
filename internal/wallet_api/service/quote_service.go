package service

import (
	"github.com/shopspring/decimal"

	"github.com/gcoin-wallet-engine/internal/domain/fees"
)

// QuoteServiceImpl implements the QuoteService interface on top of the shared
// fee calculator. The same calculator instance backs the processor's
// re-validation, so a quoted fee is always accepted later.
type QuoteServiceImpl struct {
	calculator *fees.Calculator
}

// NewQuoteService creates a new quote service
func NewQuoteService(calculator *fees.Calculator) QuoteService {
	return &QuoteServiceImpl{calculator: calculator}
}

// QuoteFee returns the fee and its bracket breakdown for the amount
func (s *QuoteServiceImpl) QuoteFee(amount decimal.Decimal) (decimal.Decimal, string) {
	return s.calculator.Fee(amount), s.calculator.FeeDescription(amount)
}

// QuoteLimit returns the per-transfer ceiling
func (s *QuoteServiceImpl) QuoteLimit() decimal.Decimal {
	return s.calculator.DailyLimit()
}

// QuoteStakingReward prices a stake and its early-withdrawal penalty
func (s *QuoteServiceImpl) QuoteStakingReward(principal decimal.Decimal, durationDays int) (decimal.Decimal, decimal.Decimal) {
	return s.calculator.StakingReward(principal, durationDays), s.calculator.EarlyWithdrawalPenalty(principal)
}
