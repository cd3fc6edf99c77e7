package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/gcoin-wallet-engine/internal/domain/fees"
	"github.com/gcoin-wallet-engine/internal/wallet_api/service"
)

func newQuoteHandlerUnderTest() *QuoteHandler {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	calculator := fees.NewCalculator(
		decimal.RequireFromString("1000000.00"),
		decimal.RequireFromString("0.30"),
		decimal.RequireFromString("0.10"),
	)
	return NewQuoteHandler(logger, service.NewQuoteService(calculator))
}

func TestQuoteHandler_GetFee(t *testing.T) {
	handler := newQuoteHandlerUnderTest()
	router := setupTestRouter()
	router.GET("/quotes/fee", handler.GetFee)

	t.Run("Success", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/quotes/fee?amount=100.00", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		responseBody := decodeData[FeeQuoteResponse](t, rr.Body.Bytes())
		assert.Equal(t, "100.00", responseBody.Amount)
		assert.Equal(t, "2.00", responseBody.Fee)
		assert.Equal(t, "102.00", responseBody.Total)
		assert.NotEmpty(t, responseBody.Description)
	})

	t.Run("MissingAmount", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/quotes/fee", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/quotes/fee?amount=-5", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestQuoteHandler_GetLimit(t *testing.T) {
	handler := newQuoteHandlerUnderTest()
	router := setupTestRouter()
	router.GET("/quotes/limit", handler.GetLimit)

	req, _ := http.NewRequest(http.MethodGet, "/quotes/limit", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	responseBody := decodeData[LimitQuoteResponse](t, rr.Body.Bytes())
	assert.Equal(t, "1000000.00", responseBody.DailyLimit)
}

func TestQuoteHandler_GetStakingReward(t *testing.T) {
	handler := newQuoteHandlerUnderTest()
	router := setupTestRouter()
	router.GET("/quotes/staking-reward", handler.GetStakingReward)

	t.Run("Success", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/quotes/staking-reward?principal=1000&duration_days=7", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		responseBody := decodeData[StakingQuoteResponse](t, rr.Body.Bytes())
		assert.Equal(t, "1000.00", responseBody.Principal)
		assert.Equal(t, 7, responseBody.DurationDays)
		// 1000 * 0.30 * 7/365
		assert.Equal(t, "5.75", responseBody.Reward)
		assert.Equal(t, "100.00", responseBody.EarlyWithdrawalPenalty)
	})

	t.Run("MissingDuration", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/quotes/staking-reward?principal=1000", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("InvalidPrincipal", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/quotes/staking-reward?principal=0&duration_days=7", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
