package components

import (
	"context"
	"errors"
	"testing"

	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gcoin-wallet-engine/internal/domain/account"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) CreatePrivileged(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByWalletAddress(ctx context.Context, walletAddress string) (*account.Account, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepo) ListWalletAddresses(ctx context.Context, excluding string) ([]string, error) {
	args := m.Called(ctx, excluding)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccountRepo) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockAccountRepo) DebitIfSufficient(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockAccountRepo) WithTx(tx pgx.Tx) account.Repository {
	args := m.Called(tx)
	return args.Get(0).(account.Repository)
}

func TestAddressResolver_Resolve_Username(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	t.Run("exact username match", func(t *testing.T) {
		mockRepo := &MockAccountRepo{}
		acc := &account.Account{ID: uuid.New(), WalletAddress: "gCoinAB12CD34", Username: "alice"}
		mockRepo.On("GetByUsername", mock.Anything, "alice").Return(acc, nil)

		resolver := NewAddressResolver(mockRepo, logger)
		resolution, err := resolver.Resolve(ctx, "alice", true, "gCoinFF00AA11")

		assert.NoError(t, err)
		assert.Equal(t, acc, resolution.Account)
		assert.Equal(t, "gCoinAB12CD34", resolution.Wallet)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown username has no fuzzy fallback", func(t *testing.T) {
		mockRepo := &MockAccountRepo{}
		mockRepo.On("GetByUsername", mock.Anything, "nobody").Return(nil, nil)

		resolver := NewAddressResolver(mockRepo, logger)
		resolution, err := resolver.Resolve(ctx, "nobody", true, "gCoinFF00AA11")

		assert.NoError(t, err)
		assert.Nil(t, resolution.Account)
		assert.Empty(t, resolution.Suggestions)
		mockRepo.AssertNotCalled(t, "ListWalletAddresses", mock.Anything, mock.Anything)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		mockRepo := &MockAccountRepo{}
		dbErr := errors.New("db down")
		mockRepo.On("GetByUsername", mock.Anything, "alice").Return(nil, dbErr)

		resolver := NewAddressResolver(mockRepo, logger)
		resolution, err := resolver.Resolve(ctx, "alice", true, "")

		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, resolution)
	})
}

func TestAddressResolver_Resolve_Wallet(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	t.Run("exact wallet match returns immediately", func(t *testing.T) {
		mockRepo := &MockAccountRepo{}
		acc := &account.Account{ID: uuid.New(), WalletAddress: "gCoinAB12CD34"}
		mockRepo.On("GetByWalletAddress", mock.Anything, "gCoinAB12CD34").Return(acc, nil)

		resolver := NewAddressResolver(mockRepo, logger)
		resolution, err := resolver.Resolve(ctx, "gCoinAB12CD34", false, "gCoinFF00AA11")

		assert.NoError(t, err)
		assert.Equal(t, acc, resolution.Account)
		mockRepo.AssertNotCalled(t, "ListWalletAddresses", mock.Anything, mock.Anything)
	})

	t.Run("fuzzy match auto-selects close candidate", func(t *testing.T) {
		mockRepo := &MockAccountRepo{}
		matched := &account.Account{ID: uuid.New(), WalletAddress: "gCoinAB12CD34"}

		mockRepo.On("GetByWalletAddress", mock.Anything, "gCoinAB12CD99").Return(nil, nil).Once()
		mockRepo.On("ListWalletAddresses", mock.Anything, "gCoinFF00AA11").
			Return([]string{"gCoinAB12CD34", "gCoinZZ99XX88"}, nil)
		mockRepo.On("GetByWalletAddress", mock.Anything, "gCoinAB12CD34").Return(matched, nil).Once()

		resolver := NewAddressResolver(mockRepo, logger)
		resolution, err := resolver.Resolve(ctx, "gCoinAB12CD99", false, "gCoinFF00AA11")

		require.NoError(t, err)
		assert.Equal(t, matched, resolution.Account)
		assert.Equal(t, "gCoinAB12CD34", resolution.Wallet)

		// Suggestions are always returned, sorted descending by score
		require.NotEmpty(t, resolution.Suggestions)
		assert.Equal(t, "gCoinAB12CD34", resolution.Suggestions[0].WalletAddress)
		for i := 1; i < len(resolution.Suggestions); i++ {
			assert.GreaterOrEqual(t, resolution.Suggestions[i-1].Score, resolution.Suggestions[i].Score)
		}
		mockRepo.AssertExpectations(t)
	})

	t.Run("no candidate over threshold leaves account nil", func(t *testing.T) {
		mockRepo := &MockAccountRepo{}
		mockRepo.On("GetByWalletAddress", mock.Anything, "gCoinAB12CD99").Return(nil, nil)
		mockRepo.On("ListWalletAddresses", mock.Anything, "").
			Return([]string{"gCoinZZ99XX88"}, nil)

		resolver := NewAddressResolver(mockRepo, logger)
		resolution, err := resolver.Resolve(ctx, "gCoinAB12CD99", false, "")

		require.NoError(t, err)
		assert.Nil(t, resolution.Account)
		assert.Len(t, resolution.Suggestions, 1)
	})

	t.Run("suggestions capped at three", func(t *testing.T) {
		mockRepo := &MockAccountRepo{}
		mockRepo.On("GetByWalletAddress", mock.Anything, "gCoinAB12CD99").Return(nil, nil).Once()
		mockRepo.On("ListWalletAddresses", mock.Anything, "").
			Return([]string{"gCoinAB12CD34", "gCoinAB12CD35", "gCoinAB12CD36", "gCoinAB12CD37"}, nil)
		mockRepo.On("GetByWalletAddress", mock.Anything, mock.Anything).
			Return(&account.Account{ID: uuid.New(), WalletAddress: "gCoinAB12CD34"}, nil)

		resolver := NewAddressResolver(mockRepo, logger)
		resolution, err := resolver.Resolve(ctx, "gCoinAB12CD99", false, "")

		require.NoError(t, err)
		assert.Len(t, resolution.Suggestions, 3)
	})
}

func TestSimilarityScore(t *testing.T) {
	t.Run("exact match scores one", func(t *testing.T) {
		assert.Equal(t, 1.0, similarityScore("gCoinAB12CD34", "gCoinAB12CD34"))
	})

	t.Run("close addresses score high", func(t *testing.T) {
		// Differ only in the last two characters
		score := similarityScore("gCoinAB12CD99", "gCoinAB12CD34")
		assert.Greater(t, score, similarityThreshold)
	})

	t.Run("missing prefix scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, similarityScore("gCoinAB12CD34", "walletAB12CD34"))
		assert.Equal(t, 0.0, similarityScore("AB12CD34", "gCoinAB12CD34"))
	})

	t.Run("length difference penalized", func(t *testing.T) {
		full := similarityScore("gCoinAB12CD34", "gCoinAB12CD39")
		truncated := similarityScore("gCoinAB12CD34", "gCoinAB12CD34FFFF")
		assert.Greater(t, full, truncated)
	})

	t.Run("never below zero", func(t *testing.T) {
		assert.GreaterOrEqual(t, similarityScore("gCoinA", "gCoinZZZZZZZZZZZZZZZZ"), 0.0)
	})
}

func TestRankCandidates(t *testing.T) {
	suggestions := rankCandidates("gCoinAB12CD99", []string{
		"gCoinZZ99XX88",
		"gCoinAB12CD34",
		"gCoinAB12XXXX",
	})

	require.Len(t, suggestions, 3)
	assert.Equal(t, "gCoinAB12CD34", suggestions[0].WalletAddress)
	assert.GreaterOrEqual(t, suggestions[0].Score, suggestions[1].Score)
	assert.GreaterOrEqual(t, suggestions[1].Score, suggestions[2].Score)
}
