package report

import (
	"context"
	"time"

	"github.com/school-finance-ledger/internal/domain/payment"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/shopspring/decimal"
)

// DailyReport sums cash movement for one calendar day [date, date+1d)
type DailyReport struct {
	Date              string          `json:"date"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpense      decimal.Decimal `json:"total_expense"`
	NetCashflow       decimal.Decimal `json:"net_cashflow"`
	TransactionsCount int             `json:"transactions_count"`
}

// MonthlyReport additionally groups income by the linked payment type
type MonthlyReport struct {
	Month              string                          `json:"month"`
	Year               int                             `json:"year"`
	TotalIncome        decimal.Decimal                 `json:"total_income"`
	TotalExpense       decimal.Decimal                 `json:"total_expense"`
	NetCashflow        decimal.Decimal                 `json:"net_cashflow"`
	PaymentCollections map[payment.Type]decimal.Decimal `json:"payment_collections"`
}

// OutstandingItem is one unpaid obligation on a student's report row
type OutstandingItem struct {
	PaymentType     payment.Type    `json:"payment_type"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
	DueDate         *time.Time      `json:"due_date"`
}

// OutstandingStudent groups a student's unpaid obligations with the total
type OutstandingStudent struct {
	StudentID           int64             `json:"student_id"`
	StudentName         string            `json:"student_name"`
	NIS                 string            `json:"nis"`
	Grade               student.Grade     `json:"grade"`
	ClassName           string            `json:"class_name"`
	OutstandingPayments []OutstandingItem `json:"outstanding_payments"`
	TotalOutstanding    decimal.Decimal   `json:"total_outstanding"`
}

// AccountPosition is one account line of the cash position report
type AccountPosition struct {
	AccountName string          `json:"account_name"`
	AccountType string          `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
}

// FundPositionLine is one fund line of the cash position report
type FundPositionLine struct {
	FundName string          `json:"fund_name"`
	Balance  decimal.Decimal `json:"balance"`
}

// CashPosition sums active account balances plus all fund pools
type CashPosition struct {
	Accounts          []AccountPosition  `json:"accounts"`
	FundPositions     []FundPositionLine `json:"fund_positions"`
	TotalCashPosition decimal.Decimal    `json:"total_cash_position"`
}

// TypeTotal is an aggregation bucket for one transaction row scanned by the
// reporting queries; PaymentType is empty for rows not linked to a config.
type TypeTotal struct {
	TransactionType string
	PaymentType     payment.Type
	Total           decimal.Decimal
	Count           int
}

// Repository defines the read-only aggregation queries reports are built
// from. Implementations never mutate state and tolerate zero rows.
type Repository interface {
	// SumByTypeInRange aggregates transactions in [from, to) by
	// transaction type and, for income, the linked payment type.
	SumByTypeInRange(ctx context.Context, from, to time.Time) ([]TypeTotal, error)

	// ListOutstanding returns non-PAID obligations joined with student and
	// config data, optionally filtered by grade and class.
	ListOutstanding(ctx context.Context, grade student.Grade, className string) ([]OutstandingRow, error)

	// CashPositions returns active account and all fund position balances.
	CashPositions(ctx context.Context) ([]AccountPosition, []FundPositionLine, error)
}

// OutstandingRow is one joined obligation row before per-student grouping
type OutstandingRow struct {
	StudentID   int64
	StudentName string
	NIS         string
	Grade       student.Grade
	ClassName   string
	Item        OutstandingItem
}
