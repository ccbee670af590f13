package payment

import (
	"errors"
	"time"

	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrEmptyName     = errors.New("payment config name cannot be empty")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidType   = errors.New("invalid payment type")
)

// Type classifies what a billing configuration charges for
type Type string

const (
	TypeSPP         Type = "SPP"
	TypeUangGedung  Type = "UANG_GEDUNG"
	TypeDaftarUlang Type = "DAFTAR_ULANG"
	TypeUangUjian   Type = "UANG_UJIAN"
	TypeUangSeragam Type = "UANG_SERAGAM"
	TypeUangBuku    Type = "UANG_BUKU"
	TypeStudyTour   Type = "STUDY_TOUR"
	TypeTabungan    Type = "TABUNGAN"
	TypeLainnya     Type = "LAINNYA"
)

// Valid reports whether the payment type is known
func (t Type) Valid() bool {
	switch t {
	case TypeSPP, TypeUangGedung, TypeDaftarUlang, TypeUangUjian,
		TypeUangSeragam, TypeUangBuku, TypeStudyTour, TypeTabungan, TypeLainnya:
		return true
	}
	return false
}

// Config defines a billing rule. Scope is one of: a whole grade, a
// grade+class, a specific student, or unscoped (all students). Configs are
// treated as immutable once student payments reference them.
type Config struct {
	ID             int64           `json:"id"`
	PaymentType    Type            `json:"payment_type"`
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Grade          *student.Grade  `json:"grade"`
	ClassName      *string         `json:"class_name"`
	StudentID      *int64          `json:"student_id"`
	IsActive       bool            `json:"is_active"`
	CanInstallment bool            `json:"can_installment"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewConfig creates an active billing configuration
func NewConfig(paymentType Type, name string, amount decimal.Decimal, canInstallment bool) (*Config, error) {
	if !paymentType.Valid() {
		return nil, ErrInvalidType
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	return &Config{
		PaymentType:    paymentType,
		Name:           name,
		Amount:         amount,
		IsActive:       true,
		CanInstallment: canInstallment,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
