package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Item is one line on a printed receipt
type Item struct {
	Description string          `json:"description" bson:"description"`
	Amount      decimal.Decimal `json:"amount" bson:"amount"`
}

// Receipt is the denormalized print view of a transaction: everything the
// cashier window needs, joined once at generation time and archived as a
// document.
type Receipt struct {
	TransactionID   int64           `json:"transaction_id" bson:"transaction_id"`
	ReceiptNumber   string          `json:"receipt_number" bson:"receipt_number"`
	StudentName     string          `json:"student_name" bson:"student_name"`
	NIS             string          `json:"nis" bson:"nis"`
	Items           []Item          `json:"payment_items" bson:"payment_items"`
	TotalAmount     decimal.Decimal `json:"total_amount" bson:"total_amount"`
	PaymentMethod   string          `json:"payment_method" bson:"payment_method"`
	ReceivedBy      string          `json:"received_by" bson:"received_by"`
	TransactionDate time.Time       `json:"transaction_date" bson:"transaction_date"`
	Notes           string          `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Number builds the receipt number for a transaction at a point in time
func Number(transactionID int64, at time.Time) string {
	millis := fmt.Sprintf("%d", at.UnixMilli())
	return fmt.Sprintf("RCP%06d-%s", transactionID, millis[len(millis)-6:])
}

// Archive stores generated receipts for later reprints and audits
type Archive interface {
	Save(ctx context.Context, r *Receipt) error
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*Receipt, error)
}

// PrintResult reports what the printer did with a receipt
type PrintResult struct {
	Success       bool   `json:"success"`
	PrintedCopies int    `json:"printed_copies"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
}

// ErrReceiptNotFound indicates a missing archived receipt
type ErrReceiptNotFound struct {
	ReceiptNumber string
}

func (e ErrReceiptNotFound) Error() string {
	return "receipt not found: " + e.ReceiptNumber
}
