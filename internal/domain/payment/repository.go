package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/shopspring/decimal"
)

// Filter narrows student payment list queries; zero values mean "no filter".
// Grade/ClassName filter on the owning student, PaymentType on the linked
// config; the query layer adds the joins those predicates require.
type Filter struct {
	StudentID   int64
	Status      Status
	Grade       student.Grade
	ClassName   string
	PaymentType Type
}

// ConfigRepository defines billing configuration persistence operations
type ConfigRepository interface {
	Create(ctx context.Context, cfg *Config) error
	GetByID(ctx context.Context, id int64) (*Config, error)
	List(ctx context.Context, activeOnly bool) ([]*Config, error)
	WithTx(tx pgx.Tx) ConfigRepository
}

// StudentPaymentRepository defines obligation persistence operations
type StudentPaymentRepository interface {
	Create(ctx context.Context, sp *StudentPayment) error
	GetByID(ctx context.Context, id int64) (*StudentPayment, error)
	List(ctx context.Context, filter Filter) ([]*StudentPayment, error)

	// ListHistory returns a student's obligations joined with the linked
	// config's payment type (barcode scan view).
	ListHistory(ctx context.Context, studentID int64) ([]*HistoryEntry, error)

	// UpdateAmounts persists the paid/remaining/status triple computed by
	// ApplyPayment. Must run inside the same transaction as the balance
	// update and ledger insert.
	UpdateAmounts(ctx context.Context, sp *StudentPayment) error

	LockForUpdate(ctx context.Context, id int64) (*StudentPayment, error)
	WithTx(tx pgx.Tx) StudentPaymentRepository
}

// HistoryEntry is an obligation joined with its config's payment type
type HistoryEntry struct {
	ID              int64           `json:"id"`
	PaymentType     Type            `json:"payment_type"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
	Status          Status          `json:"status"`
	DueDate         *time.Time      `json:"due_date"`
}

// ErrConfigNotFound indicates a missing billing configuration
type ErrConfigNotFound struct {
	ConfigID int64
}

func (e ErrConfigNotFound) Error() string {
	return fmt.Sprintf("payment config not found: %d", e.ConfigID)
}

// ErrStudentPaymentNotFound indicates a missing obligation
type ErrStudentPaymentNotFound struct {
	StudentPaymentID int64
}

func (e ErrStudentPaymentNotFound) Error() string {
	return fmt.Sprintf("student payment not found: %d", e.StudentPaymentID)
}

// ErrExceedsRemaining indicates a payment larger than the open obligation
type ErrExceedsRemaining struct {
	StudentPaymentID int64
	Amount           decimal.Decimal
	Remaining        decimal.Decimal
}

func (e ErrExceedsRemaining) Error() string {
	return fmt.Sprintf("payment amount %s exceeds remaining amount %s for student payment %d",
		e.Amount.String(), e.Remaining.String(), e.StudentPaymentID)
}
