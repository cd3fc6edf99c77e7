package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newCalculator() *Calculator {
	return NewCalculator(
		decimal.RequireFromString("1000000.00"),
		decimal.RequireFromString("0.30"),
		decimal.RequireFromString("0.10"),
	)
}

func TestCalculator_Fee(t *testing.T) {
	calc := newCalculator()

	tests := []struct {
		name        string
		amount      string
		expectedFee string
	}{
		{"zero amount", "0", "0"},
		{"negative amount", "-10.00", "0"},
		{"first bracket", "100.00", "2.00"},
		{"first bracket boundary", "1000.00", "20.00"},
		{"second bracket", "5000.00", "80.00"},
		{"second bracket boundary", "10000.00", "155.00"},
		{"third bracket boundary", "100000.00", "1055.00"},
		{"top bracket", "200000.00", "1555.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee := calc.Fee(decimal.RequireFromString(tt.amount))
			assert.True(t, fee.Equal(decimal.RequireFromString(tt.expectedFee)),
				"fee for %s: got %s, want %s", tt.amount, fee, tt.expectedFee)
		})
	}
}

func TestCalculator_FeeIsMonotone(t *testing.T) {
	calc := newCalculator()
	step := decimal.RequireFromString("997.37")

	prev := decimal.Zero
	amount := step
	for i := 0; i < 150; i++ {
		fee := calc.Fee(amount)
		assert.True(t, fee.GreaterThanOrEqual(prev),
			"fee decreased at amount %s: %s < %s", amount, fee, prev)
		prev = fee
		amount = amount.Add(step)
	}
}

func TestCalculator_FeeDescription(t *testing.T) {
	calc := newCalculator()

	assert.Equal(t, "no fee", calc.FeeDescription(decimal.Zero))

	desc := calc.FeeDescription(decimal.RequireFromString("5000.00"))
	assert.Contains(t, desc, "fee 80.00")
	assert.Contains(t, desc, "2% on 1000.00")
	assert.Contains(t, desc, "1.5% on 4000.00")
}

func TestCalculator_WithinDailyLimit(t *testing.T) {
	calc := newCalculator()

	assert.True(t, calc.WithinDailyLimit(decimal.RequireFromString("1000000.00")))
	assert.False(t, calc.WithinDailyLimit(decimal.RequireFromString("1000000.01")))
	assert.True(t, calc.DailyLimit().Equal(decimal.RequireFromString("1000000.00")))
}

func TestCalculator_StakingReward(t *testing.T) {
	calc := newCalculator()

	tests := []struct {
		name      string
		principal string
		days      int
		expected  string
	}{
		{"one week", "1000.00", 7, "5.75"},
		{"full year", "1000.00", 365, "300.00"},
		{"zero principal", "0", 30, "0"},
		{"negative principal", "-50.00", 30, "0"},
		{"zero duration", "1000.00", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reward := calc.StakingReward(decimal.RequireFromString(tt.principal), tt.days)
			assert.True(t, reward.Equal(decimal.RequireFromString(tt.expected)),
				"reward: got %s, want %s", reward, tt.expected)
		})
	}
}

func TestCalculator_EarlyWithdrawalPenalty(t *testing.T) {
	calc := newCalculator()

	penalty := calc.EarlyWithdrawalPenalty(decimal.RequireFromString("1000.00"))
	assert.True(t, penalty.Equal(decimal.RequireFromString("100.00")))

	assert.True(t, calc.EarlyWithdrawalPenalty(decimal.Zero).IsZero())
}
