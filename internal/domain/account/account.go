package account

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrEmptyName       = errors.New("account name cannot be empty")
	ErrInvalidType     = errors.New("account type must be CASH or BANK")
	ErrNegativeBalance = errors.New("opening balance cannot be negative")
)

// Type distinguishes physical cash boxes from bank accounts
type Type string

const (
	TypeCash Type = "CASH"
	TypeBank Type = "BANK"
)

// Account holds a cached money balance. The balance is only ever mutated
// inside a ledger transaction that also writes the corresponding
// transactions row, so at every committed state it equals the signed sum
// of transactions referencing the account.
type Account struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Type          Type            `json:"type"`
	BankName      *string         `json:"bank_name"`
	AccountNumber *string         `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewAccount creates an active account with the given opening balance
func NewAccount(name string, accType Type, openingBalance decimal.Decimal) (*Account, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if accType != TypeCash && accType != TypeBank {
		return nil, ErrInvalidType
	}
	if openingBalance.IsNegative() {
		return nil, ErrNegativeBalance
	}

	now := time.Now()
	return &Account{
		Name:      name,
		Type:      accType,
		Balance:   openingBalance,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanWithdraw checks whether the account covers the given debit
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
