package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyCreator  = errors.New("created_by cannot be empty")
)

// Type classifies a cash movement. EXPENSE debits the referenced balances;
// INCOME and TRANSFER credit them.
type Type string

const (
	TypeIncome   Type = "INCOME"
	TypeExpense  Type = "EXPENSE"
	TypeTransfer Type = "TRANSFER"
)

// Valid reports whether the transaction type is known
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense || t == TypeTransfer
}

// SignedAmount returns the balance delta this type applies for the amount
func (t Type) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	if t == TypeExpense {
		return amount.Neg()
	}
	return amount
}

// Transaction is one immutable row of the cash movement log. Rows are only
// ever inserted, in the same database transaction that adjusts the cached
// balances they fund.
type Transaction struct {
	ID               int64           `json:"id"`
	Type             Type            `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	ReferenceNumber  *string         `json:"reference_number"`
	AccountID        int64           `json:"account_id"`
	FundPositionID   *int64          `json:"fund_position_id"`
	StudentPaymentID *int64          `json:"student_payment_id"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewTransaction validates and builds a log row (not yet persisted)
func NewTransaction(txType Type, amount decimal.Decimal, description string, accountID int64, createdBy string) (*Transaction, error) {
	if !txType.Valid() {
		return nil, ErrInvalidType
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if createdBy == "" {
		return nil, ErrEmptyCreator
	}

	return &Transaction{
		Type:        txType,
		Amount:      amount,
		Description: description,
		AccountID:   accountID,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}, nil
}
