// Package fees implements the fee schedule, per-transfer limit, and staking
// reward math. A single Calculator instance backs both the quote endpoints
// and the transfer processor so a previewed fee always matches the charged
// fee.
package fees

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const daysPerYear = 365

// bracket is one progressive fee tier. The rate applies only to the slice of
// the amount above the previous bracket's upper bound, which keeps the total
// fee monotone in the amount.
type bracket struct {
	upTo decimal.Decimal // zero value means unbounded
	rate decimal.Decimal
}

// Default fee policy. Exact tiers are a product decision; changing them here
// changes both quoting and charging at once.
var defaultSchedule = []bracket{
	{upTo: decimal.NewFromInt(1_000), rate: decimal.RequireFromString("0.02")},
	{upTo: decimal.NewFromInt(10_000), rate: decimal.RequireFromString("0.015")},
	{upTo: decimal.NewFromInt(100_000), rate: decimal.RequireFromString("0.01")},
	{rate: decimal.RequireFromString("0.005")},
}

// Calculator computes transfer fees, enforces the per-transfer ceiling, and
// prices staking rewards. All methods are pure.
type Calculator struct {
	schedule     []bracket
	dailyLimit   decimal.Decimal
	annualRate   decimal.Decimal
	penaltyRate  decimal.Decimal
	displayScale int32
}

// NewCalculator creates a calculator with the default fee schedule and the
// given policy parameters.
func NewCalculator(dailyLimit, stakingAnnualRate, earlyWithdrawalPenaltyRate decimal.Decimal) *Calculator {
	return &Calculator{
		schedule:     defaultSchedule,
		dailyLimit:   dailyLimit,
		annualRate:   stakingAnnualRate,
		penaltyRate:  earlyWithdrawalPenaltyRate,
		displayScale: 2,
	}
}

// Fee computes the tiered transfer fee for the amount. Non-positive amounts
// carry no fee.
func (c *Calculator) Fee(amount decimal.Decimal) decimal.Decimal {
	if amount.Sign() <= 0 {
		return decimal.Zero
	}

	fee := decimal.Zero
	lower := decimal.Zero
	for _, b := range c.schedule {
		upper := amount
		if !b.upTo.IsZero() && b.upTo.LessThan(amount) {
			upper = b.upTo
		}
		if upper.LessThanOrEqual(lower) {
			break
		}
		fee = fee.Add(upper.Sub(lower).Mul(b.rate))
		lower = upper
	}

	return fee.Round(c.displayScale)
}

// FeeDescription renders a human-readable breakdown of how the fee for the
// amount was composed.
func (c *Calculator) FeeDescription(amount decimal.Decimal) string {
	if amount.Sign() <= 0 {
		return "no fee"
	}

	var parts []string
	lower := decimal.Zero
	for _, b := range c.schedule {
		upper := amount
		if !b.upTo.IsZero() && b.upTo.LessThan(amount) {
			upper = b.upTo
		}
		if upper.LessThanOrEqual(lower) {
			break
		}
		pct := b.rate.Mul(decimal.NewFromInt(100))
		parts = append(parts, fmt.Sprintf("%s%% on %s", pct.String(), upper.Sub(lower).StringFixed(c.displayScale)))
		lower = upper
	}

	return fmt.Sprintf("fee %s (%s)", c.Fee(amount).StringFixed(c.displayScale), strings.Join(parts, ", "))
}

// WithinDailyLimit checks the per-transfer ceiling. This is a single-transfer
// check, not a rolling daily accumulation.
func (c *Calculator) WithinDailyLimit(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(c.dailyLimit)
}

// DailyLimit returns the configured per-transfer ceiling
func (c *Calculator) DailyLimit() decimal.Decimal {
	return c.dailyLimit
}

// StakingReward computes principal * annualRate * (durationDays / 365),
// rounded to 2 decimal places.
func (c *Calculator) StakingReward(principal decimal.Decimal, durationDays int) decimal.Decimal {
	if principal.Sign() <= 0 || durationDays <= 0 {
		return decimal.Zero
	}
	return principal.
		Mul(c.annualRate).
		Mul(decimal.NewFromInt(int64(durationDays))).
		Div(decimal.NewFromInt(daysPerYear)).
		Round(c.displayScale)
}

// EarlyWithdrawalPenalty computes the penalty on principal for withdrawing a
// stake before maturity. The penalty applies to principal, never to reward.
func (c *Calculator) EarlyWithdrawalPenalty(principal decimal.Decimal) decimal.Decimal {
	if principal.Sign() <= 0 {
		return decimal.Zero
	}
	return principal.Mul(c.penaltyRate).Round(c.displayScale)
}
