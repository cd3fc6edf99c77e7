package transfer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcoin-wallet-engine/internal/domain/shared"
)

func newPendingRecord() *Record {
	return NewSendRecord(
		uuid.New(),
		"gCoinFF00AA11BB",
		"gCoinAB12CD34EF",
		decimal.RequireFromString("100.00"),
		decimal.RequireFromString("2.00"),
		"rent",
		"corr-1",
	)
}

func TestNewSendRecord(t *testing.T) {
	record := newPendingRecord()

	assert.Equal(t, shared.TransferTypeSend, record.Type)
	assert.Equal(t, shared.TransferStatusPending, record.Status)
	assert.Empty(t, record.StatusReason)
	assert.Nil(t, record.FinalizedAt)
	assert.Nil(t, record.RelatedTransferID)
	assert.False(t, record.IsTerminal())
}

func TestNewReceiveRecord(t *testing.T) {
	send := newPendingRecord()
	mirror := NewReceiveRecord(send, "gCoinAB12CD34EF")

	assert.Equal(t, shared.TransferTypeReceive, mirror.Type)
	assert.Equal(t, shared.TransferStatusCompleted, mirror.Status)
	assert.True(t, mirror.IsTerminal())
	assert.NotNil(t, mirror.FinalizedAt)
	require.NotNil(t, mirror.RelatedTransferID)
	assert.Equal(t, send.ID, *mirror.RelatedTransferID)
	assert.NotEqual(t, send.ID, mirror.ID)
	assert.True(t, mirror.Amount.Equal(send.Amount))
	assert.True(t, mirror.Fee.IsZero())
	assert.Equal(t, send.Note, mirror.Note)
	assert.Equal(t, send.CorrelationID, mirror.CorrelationID)
}

func TestNewFeeReceiptRecord(t *testing.T) {
	send := newPendingRecord()
	receipt := NewFeeReceiptRecord(send, "gCoinFEE0000001")

	assert.Equal(t, shared.TransferTypeReceive, receipt.Type)
	assert.Equal(t, shared.TransferStatusCompleted, receipt.Status)
	assert.Equal(t, "gCoinFEE0000001", receipt.RecipientWallet)
	assert.True(t, receipt.Amount.Equal(send.Fee))
	assert.True(t, receipt.Fee.IsZero())
	require.NotNil(t, receipt.RelatedTransferID)
	assert.Equal(t, send.ID, *receipt.RelatedTransferID)
}

func TestRecord_Finalize(t *testing.T) {
	t.Run("pending to completed", func(t *testing.T) {
		record := newPendingRecord()

		err := record.Finalize(shared.TransferStatusCompleted, "")

		require.NoError(t, err)
		assert.Equal(t, shared.TransferStatusCompleted, record.Status)
		assert.Empty(t, record.StatusReason)
		assert.NotNil(t, record.FinalizedAt)
	})

	t.Run("pending to refunded carries reason", func(t *testing.T) {
		record := newPendingRecord()

		err := record.Finalize(shared.TransferStatusRefunded, shared.ReasonInsufficientBalance)

		require.NoError(t, err)
		assert.Equal(t, shared.TransferStatusRefunded, record.Status)
		assert.Equal(t, string(shared.ReasonInsufficientBalance), record.StatusReason)
	})

	t.Run("terminal record admits no further transitions", func(t *testing.T) {
		record := newPendingRecord()
		require.NoError(t, record.Finalize(shared.TransferStatusCompleted, ""))
		finalizedAt := record.FinalizedAt

		err := record.Finalize(shared.TransferStatusFailed, shared.ReasonDebitFailed)

		assert.ErrorIs(t, err, ErrRecordFinalized{})
		assert.Equal(t, shared.TransferStatusCompleted, record.Status)
		assert.Same(t, finalizedAt, record.FinalizedAt)
	})

	t.Run("transition to pending is rejected", func(t *testing.T) {
		record := newPendingRecord()

		err := record.Finalize(shared.TransferStatusPending, "")

		var invalidErr ErrInvalidTransition
		assert.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, shared.TransferStatusPending, record.Status)
		assert.Nil(t, record.FinalizedAt)
	})
}
