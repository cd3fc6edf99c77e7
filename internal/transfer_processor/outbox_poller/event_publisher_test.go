package outbox_poller

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
	"github.com/stretchr/testify/require"

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

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func terminalEvent(t *testing.T) *outbox.Event {
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
	require.NoError(t, record.Finalize(shared.TransferStatusCompleted, ""))

	event, err := outbox.NewEvent(record)
	require.NoError(t, err)
	event.ID = 42
	return event
}

func TestEventPublisher_PublishEvent(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	t.Run("publishes and marks processed", func(t *testing.T) {
		mockRepo := &MockOutboxRepo{}
		mockProducer := &MockMessagePublisher{}
		event := terminalEvent(t)

		mockProducer.On("Publish", mock.Anything, event.SenderWallet, mock.MatchedBy(func(value interface{}) bool {
			record, ok := value.(*transfer.Record)
			return ok && record.ID == event.TransferID
		})).Return(nil)
		mockRepo.On("UpdateStatus", mock.Anything, event.ID, shared.OutboxStatusProcessed).Return(nil)

		publisher := NewEventPublisher(mockRepo, mockProducer, logger)
		err := publisher.PublishEvent(ctx, event)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockProducer.AssertExpectations(t)
	})

	t.Run("corrupt payload is marked failed", func(t *testing.T) {
		mockRepo := &MockOutboxRepo{}
		mockProducer := &MockMessagePublisher{}
		event := terminalEvent(t)
		event.Payload = []byte("{not json")

		mockRepo.On("UpdateStatus", mock.Anything, event.ID, shared.OutboxStatusFailedToPublish).Return(nil)

		publisher := NewEventPublisher(mockRepo, mockProducer, logger)
		err := publisher.PublishEvent(ctx, event)

		assert.Error(t, err)
		mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("broker failure leaves event pending", func(t *testing.T) {
		mockRepo := &MockOutboxRepo{}
		mockProducer := &MockMessagePublisher{}
		event := terminalEvent(t)
		brokerErr := errors.New("kafka down")

		mockProducer.On("Publish", mock.Anything, event.SenderWallet, mock.Anything).Return(brokerErr)

		publisher := NewEventPublisher(mockRepo, mockProducer, logger)
		err := publisher.PublishEvent(ctx, event)

		assert.ErrorIs(t, err, brokerErr)
		mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("status update failure after publish is an error", func(t *testing.T) {
		mockRepo := &MockOutboxRepo{}
		mockProducer := &MockMessagePublisher{}
		event := terminalEvent(t)
		dbErr := errors.New("db down")

		mockProducer.On("Publish", mock.Anything, event.SenderWallet, mock.Anything).Return(nil)
		mockRepo.On("UpdateStatus", mock.Anything, event.ID, shared.OutboxStatusProcessed).Return(dbErr)

		publisher := NewEventPublisher(mockRepo, mockProducer, logger)
		err := publisher.PublishEvent(ctx, event)

		assert.ErrorIs(t, err, dbErr)
	})
}
