package savings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository defines savings persistence operations
type Repository interface {
	// GetByStudentID returns nil, nil when the student has no savings yet
	GetByStudentID(ctx context.Context, studentID int64) (*Savings, error)

	// Create inserts a zero-balance savings row for the student
	Create(ctx context.Context, s *Savings) error

	// LockByStudentID row-locks the student's savings so concurrent
	// withdrawals serialize. Returns nil, nil when no row exists.
	LockByStudentID(ctx context.Context, studentID int64) (*Savings, error)

	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	InsertTransaction(ctx context.Context, t *Transaction) error
	ListTransactions(ctx context.Context, savingsID int64) ([]*Transaction, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrInsufficientBalance indicates a withdrawal exceeding the balance
type ErrInsufficientBalance struct {
	SavingsID int64
	Balance   decimal.Decimal
	Amount    decimal.Decimal
}

func (e ErrInsufficientBalance) Error() string {
	return fmt.Sprintf("insufficient balance for withdrawal: balance %s, requested %s",
		e.Balance.String(), e.Amount.String())
}
