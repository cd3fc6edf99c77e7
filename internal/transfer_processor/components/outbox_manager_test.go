package components

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gcoin-wallet-engine/internal/domain/outbox"
	"github.com/gcoin-wallet-engine/internal/domain/shared"
	"github.com/gcoin-wallet-engine/internal/domain/transfer"
)

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, event *outbox.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Event), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetByTransferID(ctx context.Context, transferID uuid.UUID) (*outbox.Event, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Event), args.Error(1)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	args := m.Called(tx)
	return args.Get(0).(outbox.Repository)
}

func finalizedRecord(t *testing.T) *transfer.Record {
	t.Helper()
	record := transfer.NewSendRecord(
		uuid.New(),
		"gCoinFF00AA11BB",
		"gCoinAB12CD34EF",
		decimal.RequireFromString("100.00"),
		decimal.RequireFromString("2.00"),
		"",
		"corr-1",
	)
	if err := record.Finalize(shared.TransferStatusCompleted, ""); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return record
}

func TestOutboxManager_CreateTerminalEvent(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	t.Run("creates pending event with record payload", func(t *testing.T) {
		mockRepo := &MockOutboxRepo{}
		record := finalizedRecord(t)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(event *outbox.Event) bool {
			return event.TransferID == record.ID &&
				event.SenderWallet == record.SenderWallet &&
				event.Status == shared.OutboxStatusPending
		})).Return(nil)

		manager := NewOutboxManager(mockRepo, logger)
		err := manager.CreateTerminalEvent(ctx, record)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate event is not an error", func(t *testing.T) {
		mockRepo := &MockOutboxRepo{}
		record := finalizedRecord(t)
		mockRepo.On("Create", mock.Anything, mock.Anything).
			Return(outbox.ErrDuplicateEvent{TransferID: record.ID})

		manager := NewOutboxManager(mockRepo, logger)
		err := manager.CreateTerminalEvent(ctx, record)

		assert.NoError(t, err)
	})

	t.Run("storage error wrapped", func(t *testing.T) {
		mockRepo := &MockOutboxRepo{}
		record := finalizedRecord(t)
		dbErr := errors.New("db down")
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(dbErr)

		manager := NewOutboxManager(mockRepo, logger)
		err := manager.CreateTerminalEvent(ctx, record)

		assert.ErrorIs(t, err, dbErr)
	})
}
