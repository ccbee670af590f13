package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, acc *Account) error
	GetByID(ctx context.Context, id int64) (*Account, error)
	List(ctx context.Context, activeOnly bool) ([]*Account, error)

	// ApplyBalanceDelta adds the signed delta to the cached balance.
	// Must only be called inside a transaction that also records the
	// corresponding ledger row.
	ApplyBalanceDelta(ctx context.Context, id int64, delta decimal.Decimal) error

	// LockForUpdate acquires a row lock so concurrent units serialize
	// on the same account.
	LockForUpdate(ctx context.Context, id int64) (*Account, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates a missing account
type ErrAccountNotFound struct {
	AccountID int64
}

func (e ErrAccountNotFound) Error() string {
	return fmt.Sprintf("account not found: %d", e.AccountID)
}

// ErrInsufficientFunds indicates a debit that would overdraw the account
type ErrInsufficientFunds struct {
	AccountID int64
	Balance   decimal.Decimal
	Amount    decimal.Decimal
}

func (e ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("account %d balance %s cannot cover %s", e.AccountID, e.Balance.String(), e.Amount.String())
}
