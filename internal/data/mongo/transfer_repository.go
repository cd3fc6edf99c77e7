package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gcoin-wallet-engine/internal/domain/shared"
	"github.com/gcoin-wallet-engine/internal/domain/transfer"
)

const (
	// TransferCollectionName is the name of the transfer records collection in MongoDB
	TransferCollectionName = "transfer_records"
)

// transferDocument is the BSON shape of a transfer record. Decimal amounts are
// persisted as strings so no precision is lost on the round trip.
type transferDocument struct {
	TransferID        uuid.UUID  `bson:"transfer_id"`
	Type              string     `bson:"type"`
	Amount            string     `bson:"amount"`
	Fee               string     `bson:"fee"`
	SenderWallet      string     `bson:"sender_wallet"`
	RecipientWallet   string     `bson:"recipient_wallet"`
	Note              string     `bson:"note,omitempty"`
	Status            string     `bson:"status"`
	StatusReason      string     `bson:"status_reason,omitempty"`
	RelatedTransferID *uuid.UUID `bson:"related_transfer_id,omitempty"`
	CorrelationID     string     `bson:"correlation_id,omitempty"`
	CreatedAt         time.Time  `bson:"created_at"`
	FinalizedAt       *time.Time `bson:"finalized_at,omitempty"`
}

func toDocument(record *transfer.Record) *transferDocument {
	return &transferDocument{
		TransferID:        record.ID,
		Type:              string(record.Type),
		Amount:            record.Amount.String(),
		Fee:               record.Fee.String(),
		SenderWallet:      record.SenderWallet,
		RecipientWallet:   record.RecipientWallet,
		Note:              record.Note,
		Status:            string(record.Status),
		StatusReason:      record.StatusReason,
		RelatedTransferID: record.RelatedTransferID,
		CorrelationID:     record.CorrelationID,
		CreatedAt:         record.CreatedAt,
		FinalizedAt:       record.FinalizedAt,
	}
}

func (d *transferDocument) toRecord() (*transfer.Record, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", d.Amount, err)
	}
	fee, err := decimal.NewFromString(d.Fee)
	if err != nil {
		return nil, fmt.Errorf("invalid stored fee %q: %w", d.Fee, err)
	}

	return &transfer.Record{
		ID:                d.TransferID,
		Type:              shared.TransferType(d.Type),
		Amount:            amount,
		Fee:               fee,
		SenderWallet:      d.SenderWallet,
		RecipientWallet:   d.RecipientWallet,
		Note:              d.Note,
		Status:            shared.TransferStatus(d.Status),
		StatusReason:      d.StatusReason,
		RelatedTransferID: d.RelatedTransferID,
		CorrelationID:     d.CorrelationID,
		CreatedAt:         d.CreatedAt,
		FinalizedAt:       d.FinalizedAt,
	}, nil
}

// TransferRepository implements the transfer.Repository interface for MongoDB
type TransferRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransferRepository creates a new MongoDB transfer record repository
func NewTransferRepository(logger *slog.Logger, db *mongo.Database) transfer.Repository {
	return &TransferRepository{
		db:     db,
		logger: logger,
	}
}

// Insert stores a new transfer record after checking for duplicates.
// Returns ErrDuplicateRecord if a record with the same transfer ID exists.
func (r *TransferRepository) Insert(ctx context.Context, record *transfer.Record) error {
	collection := r.db.Collection(TransferCollectionName)

	// Check if record already exists
	existing, err := r.GetByID(ctx, record.ID)
	if err != nil && !errors.Is(err, transfer.ErrRecordNotFound{}) {
		r.logger.Error("Failed to check for existing transfer record",
			"transfer_id", record.ID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing transfer record: %w", err)
	}

	if existing != nil {
		return transfer.ErrDuplicateRecord{TransferID: record.ID}
	}

	_, err = collection.InsertOne(ctx, toDocument(record))
	if err != nil {
		r.logger.Error("Failed to insert transfer record",
			"transfer_id", record.ID.String(),
			"error", err)
		return fmt.Errorf("failed to insert transfer record: %w", err)
	}

	return nil
}

// GetByID retrieves a transfer record by its transfer ID.
// Returns ErrRecordNotFound if no record exists.
func (r *TransferRepository) GetByID(ctx context.Context, transferID uuid.UUID) (*transfer.Record, error) {
	collection := r.db.Collection(TransferCollectionName)

	filter := bson.M{"transfer_id": transferID}
	var doc transferDocument
	err := collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transfer.ErrRecordNotFound{TransferID: transferID}
		}
		r.logger.Error("Failed to get transfer record",
			"transfer_id", transferID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get transfer record: %w", err)
	}

	return doc.toRecord()
}

// ListByWallet retrieves paginated transfer records visible to a wallet: send
// records where it is the sender and receive records where it is the
// recipient. Results are sorted by creation time in descending order.
func (r *TransferRepository) ListByWallet(ctx context.Context, wallet string, limit, offset int) ([]*transfer.Record, error) {
	collection := r.db.Collection(TransferCollectionName)

	filter := walletVisibilityFilter(wallet)
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}). // Newest first
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list transfer records",
			"wallet", wallet,
			"error", err)
		return nil, fmt.Errorf("failed to list transfer records: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*transferDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode transfer records",
			"wallet", wallet,
			"error", err)
		return nil, fmt.Errorf("failed to decode transfer records: %w", err)
	}

	records := make([]*transfer.Record, 0, len(docs))
	for _, doc := range docs {
		record, err := doc.toRecord()
		if err != nil {
			r.logger.Error("Failed to convert transfer document",
				"transfer_id", doc.TransferID.String(),
				"error", err)
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// CountByWallet counts the total number of transfer records visible to a wallet
func (r *TransferRepository) CountByWallet(ctx context.Context, wallet string) (int64, error) {
	collection := r.db.Collection(TransferCollectionName)

	count, err := collection.CountDocuments(ctx, walletVisibilityFilter(wallet))
	if err != nil {
		r.logger.Error("Failed to count transfer records",
			"wallet", wallet,
			"error", err)
		return 0, fmt.Errorf("failed to count transfer records: %w", err)
	}

	return count, nil
}

// UpdateStatus moves a pending record to a terminal status. The pending-only
// filter makes terminal statuses immutable at the storage layer: a record that
// already completed, failed, or refunded is never rewritten.
func (r *TransferRepository) UpdateStatus(ctx context.Context, transferID uuid.UUID, status shared.TransferStatus, reason string) error {
	collection := r.db.Collection(TransferCollectionName)

	filter := bson.M{
		"transfer_id": transferID,
		"status":      string(shared.TransferStatusPending),
	}
	update := bson.M{
		"$set": bson.M{
			"status":        string(status),
			"status_reason": reason,
			"finalized_at":  time.Now().UTC(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update transfer record status",
			"transfer_id", transferID.String(),
			"status", string(status),
			"error", err)
		return fmt.Errorf("failed to update transfer record status: %w", err)
	}

	if result.MatchedCount == 0 {
		// Distinguish a missing record from one already finalized
		existing, getErr := r.GetByID(ctx, transferID)
		if getErr != nil {
			return getErr
		}
		return transfer.ErrRecordFinalized{TransferID: transferID, Status: existing.Status}
	}

	return nil
}

func walletVisibilityFilter(wallet string) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"type": string(shared.TransferTypeSend), "sender_wallet": wallet},
			{"type": string(shared.TransferTypeReceive), "recipient_wallet": wallet},
		},
	}
}
