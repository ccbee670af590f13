package savings

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates a non-positive savings movement
var ErrInvalidAmount = errors.New("amount must be positive")

// TransactionType classifies a savings movement
type TransactionType string

const (
	TypeDeposit    TransactionType = "DEPOSIT"
	TypeWithdrawal TransactionType = "WITHDRAWAL"
)

// Valid reports whether the savings transaction type is known
func (t TransactionType) Valid() bool {
	return t == TypeDeposit || t == TypeWithdrawal
}

// Savings is a student's savings pocket, created lazily on the first
// movement. Balance never goes negative: withdrawals that would overdraw
// are rejected inside the same atomic unit that re-reads the balance.
type Savings struct {
	ID        int64           `json:"id"`
	StudentID int64           `json:"student_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Apply returns the balance after the movement, or ErrInsufficientBalance
// for a withdrawal the current balance cannot cover.
func (s *Savings) Apply(txType TransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if txType == TypeDeposit {
		return s.Balance.Add(amount), nil
	}
	if s.Balance.LessThan(amount) {
		return decimal.Zero, ErrInsufficientBalance{
			SavingsID: s.ID,
			Balance:   s.Balance,
			Amount:    amount,
		}
	}
	return s.Balance.Sub(amount), nil
}

// Transaction is one immutable row of a student's savings ledger
type Transaction struct {
	ID          int64           `json:"id"`
	SavingsID   int64           `json:"savings_id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}
