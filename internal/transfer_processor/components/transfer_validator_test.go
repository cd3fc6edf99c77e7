package components

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gcoin-wallet-engine/internal/domain/fees"
	"github.com/gcoin-wallet-engine/internal/domain/shared"
	"github.com/gcoin-wallet-engine/internal/domain/transfer"
)

type MockTransferRepo struct {
	mock.Mock
}

func (m *MockTransferRepo) Insert(ctx context.Context, record *transfer.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTransferRepo) GetByID(ctx context.Context, transferID uuid.UUID) (*transfer.Record, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.Record), args.Error(1)
}

func (m *MockTransferRepo) ListByWallet(ctx context.Context, wallet string, limit, offset int) ([]*transfer.Record, error) {
	args := m.Called(ctx, wallet, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transfer.Record), args.Error(1)
}

func (m *MockTransferRepo) CountByWallet(ctx context.Context, wallet string) (int64, error) {
	args := m.Called(ctx, wallet)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransferRepo) UpdateStatus(ctx context.Context, transferID uuid.UUID, status shared.TransferStatus, reason string) error {
	args := m.Called(ctx, transferID, status, reason)
	return args.Error(0)
}

func newTestCalculator() *fees.Calculator {
	return fees.NewCalculator(
		decimal.RequireFromString("1000000.00"),
		decimal.RequireFromString("0.30"),
		decimal.RequireFromString("0.10"),
	)
}

func validRequest(calc *fees.Calculator) *shared.TransferRequest {
	amount := decimal.RequireFromString("100.00")
	return &shared.TransferRequest{
		TransferID:     uuid.New(),
		SenderID:       uuid.New(),
		SenderWallet:   "gCoinFF00AA11BB",
		RecipientToken: "gCoinAB12CD34EF",
		Amount:         amount,
		Fee:            calc.Fee(amount),
		CorrelationID:  "corr-1",
		Timestamp:      time.Now().UTC(),
	}
}

func TestTransferValidator_Validate(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()
	calc := newTestCalculator()

	tests := []struct {
		name        string
		mutate      func(req *shared.TransferRequest)
		expectedErr error
	}{
		{
			name:   "valid request passes",
			mutate: func(req *shared.TransferRequest) {},
		},
		{
			name: "zero amount rejected",
			mutate: func(req *shared.TransferRequest) {
				req.Amount = decimal.Zero
			},
			expectedErr: shared.ErrInvalidAmount,
		},
		{
			name: "negative amount rejected",
			mutate: func(req *shared.TransferRequest) {
				req.Amount = decimal.RequireFromString("-5")
			},
			expectedErr: shared.ErrInvalidAmount,
		},
		{
			name: "self transfer rejected",
			mutate: func(req *shared.TransferRequest) {
				req.RecipientToken = req.SenderWallet
			},
			expectedErr: shared.ErrSelfTransfer,
		},
		{
			name: "amount over limit rejected",
			mutate: func(req *shared.TransferRequest) {
				req.Amount = decimal.RequireFromString("1000000.01")
				req.Fee = calc.Fee(req.Amount)
			},
			expectedErr: shared.ErrOverDailyLimit,
		},
		{
			name: "amount at limit accepted",
			mutate: func(req *shared.TransferRequest) {
				req.Amount = decimal.RequireFromString("1000000.00")
				req.Fee = calc.Fee(req.Amount)
			},
		},
		{
			name: "fee mismatch rejected",
			mutate: func(req *shared.TransferRequest) {
				req.Fee = req.Fee.Add(decimal.RequireFromString("0.01"))
			},
			expectedErr: shared.ErrFeeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewTransferValidator(&MockTransferRepo{}, calc, logger)
			req := validRequest(calc)
			tt.mutate(req)

			err := validator.Validate(ctx, req)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransferValidator_CheckIdempotency(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()
	calc := newTestCalculator()

	t.Run("pending record proceeds", func(t *testing.T) {
		mockRepo := &MockTransferRepo{}
		req := validRequest(calc)
		pending := transfer.NewSendRecord(req.TransferID, req.SenderWallet, req.RecipientToken, req.Amount, req.Fee, "", req.CorrelationID)
		mockRepo.On("GetByID", mock.Anything, req.TransferID).Return(pending, nil)

		validator := NewTransferValidator(mockRepo, calc, logger)
		record, skip, err := validator.CheckIdempotency(ctx, req)

		require.NoError(t, err)
		assert.False(t, skip)
		assert.Equal(t, pending, record)
	})

	t.Run("terminal record skips", func(t *testing.T) {
		mockRepo := &MockTransferRepo{}
		req := validRequest(calc)
		done := transfer.NewSendRecord(req.TransferID, req.SenderWallet, req.RecipientToken, req.Amount, req.Fee, "", req.CorrelationID)
		require.NoError(t, done.Finalize(shared.TransferStatusCompleted, ""))
		mockRepo.On("GetByID", mock.Anything, req.TransferID).Return(done, nil)

		validator := NewTransferValidator(mockRepo, calc, logger)
		record, skip, err := validator.CheckIdempotency(ctx, req)

		require.NoError(t, err)
		assert.True(t, skip)
		assert.Equal(t, done, record)
	})

	t.Run("missing record is retryable", func(t *testing.T) {
		mockRepo := &MockTransferRepo{}
		req := validRequest(calc)
		mockRepo.On("GetByID", mock.Anything, req.TransferID).
			Return(nil, transfer.ErrRecordNotFound{TransferID: req.TransferID})

		validator := NewTransferValidator(mockRepo, calc, logger)
		record, skip, err := validator.CheckIdempotency(ctx, req)

		assert.ErrorIs(t, err, transfer.ErrRecordNotFound{})
		assert.False(t, skip)
		assert.Nil(t, record)
	})

	t.Run("storage error is retryable", func(t *testing.T) {
		mockRepo := &MockTransferRepo{}
		req := validRequest(calc)
		dbErr := errors.New("mongo down")
		mockRepo.On("GetByID", mock.Anything, req.TransferID).Return(nil, dbErr)

		validator := NewTransferValidator(mockRepo, calc, logger)
		_, _, err := validator.CheckIdempotency(ctx, req)

		assert.ErrorIs(t, err, dbErr)
	})
}
