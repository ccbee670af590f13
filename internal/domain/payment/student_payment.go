package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of an obligation. PENDING and PARTIAL can only move toward PAID;
// PAID is terminal (there is no unpay operation).
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPartial Status = "PARTIAL"
	StatusPaid    Status = "PAID"
)

// StatusFor derives the status from the paid/remaining pair. The PENDING
// branch is unreachable for positive increments but kept so the status
// stays a pure function of the amounts.
func StatusFor(paid, remaining decimal.Decimal) Status {
	switch {
	case remaining.IsZero():
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

// StudentPayment is an obligation: what one student owes under one billing
// configuration. Invariant after every mutation:
// amount_due == amount_paid + amount_remaining, amount_remaining >= 0.
type StudentPayment struct {
	ID              int64           `json:"id"`
	StudentID       int64           `json:"student_id"`
	PaymentConfigID int64           `json:"payment_config_id"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
	DueDate         *time.Time      `json:"due_date"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewStudentPayment creates a PENDING obligation for the full config amount
func NewStudentPayment(studentID int64, cfg *Config, dueDate *time.Time) (*StudentPayment, error) {
	if !cfg.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	return &StudentPayment{
		StudentID:       studentID,
		PaymentConfigID: cfg.ID,
		AmountDue:       cfg.Amount,
		AmountPaid:      decimal.Zero,
		AmountRemaining: cfg.Amount,
		DueDate:         dueDate,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ApplyPayment records a payment increment against the obligation. The
// increment must be positive and must not exceed the remaining amount;
// there is no partial auto-clamping.
func (p *StudentPayment) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(p.AmountRemaining) {
		return ErrExceedsRemaining{
			StudentPaymentID: p.ID,
			Amount:           amount,
			Remaining:        p.AmountRemaining,
		}
	}

	p.AmountPaid = p.AmountPaid.Add(amount)
	p.AmountRemaining = p.AmountDue.Sub(p.AmountPaid)
	p.Status = StatusFor(p.AmountPaid, p.AmountRemaining)
	p.UpdatedAt = time.Now()
	return nil
}
