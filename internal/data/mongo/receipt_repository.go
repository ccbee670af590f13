// Package mongo provides the MongoDB-backed receipt archive. Receipts are
// denormalized documents written once at generation time and read back for
// reprints and audits.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/school-finance-ledger/internal/domain/receipt"
)

const (
	// ReceiptCollectionName is the name of the receipt collection in MongoDB
	ReceiptCollectionName = "receipts"
)

// ReceiptRepository implements the receipt.Archive interface for MongoDB
type ReceiptRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewReceiptRepository creates a new MongoDB receipt repository
func NewReceiptRepository(logger *slog.Logger, db *mongo.Database) receipt.Archive {
	return &ReceiptRepository{
		db:     db,
		logger: logger,
	}
}

// Save archives a generated receipt
func (r *ReceiptRepository) Save(ctx context.Context, rec *receipt.Receipt) error {
	collection := r.db.Collection(ReceiptCollectionName)

	_, err := collection.InsertOne(ctx, rec)
	if err != nil {
		r.logger.Error("Failed to archive receipt",
			"receipt_number", rec.ReceiptNumber,
			"error", err)
		return fmt.Errorf("failed to archive receipt: %w", err)
	}

	return nil
}

// GetByReceiptNumber retrieves an archived receipt by its receipt number.
// Returns ErrReceiptNotFound if no receipt exists with the given number.
func (r *ReceiptRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*receipt.Receipt, error) {
	collection := r.db.Collection(ReceiptCollectionName)

	filter := bson.M{"receipt_number": receiptNumber}
	var rec receipt.Receipt
	err := collection.FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, receipt.ErrReceiptNotFound{ReceiptNumber: receiptNumber}
		}
		r.logger.Error("Failed to get receipt",
			"receipt_number", receiptNumber,
			"error", err)
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	return &rec, nil
}
