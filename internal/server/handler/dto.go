package handler

import (
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents a request to create a new account
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	Type           string          `json:"type" binding:"required,oneof=CASH BANK"`
	BankName       *string         `json:"bank_name"`
	AccountNumber  *string         `json:"account_number"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CreateFundPositionRequest represents a request to create a fund pool
type CreateFundPositionRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// CreateStudentRequest represents a request to register a student
type CreateStudentRequest struct {
	NIS         string  `json:"nis" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Grade       string  `json:"grade" binding:"required,oneof=TK SD SMP SMA SMK"`
	ClassName   string  `json:"class_name" binding:"required"`
	Phone       *string `json:"phone"`
	ParentPhone *string `json:"parent_phone"`
	Address     *string `json:"address"`
}

// CreatePaymentConfigRequest represents a request to create a billing rule
type CreatePaymentConfigRequest struct {
	PaymentType    string          `json:"payment_type" binding:"required,oneof=SPP UANG_GEDUNG DAFTAR_ULANG UANG_UJIAN UANG_SERAGAM UANG_BUKU STUDY_TOUR TABUNGAN LAINNYA"`
	Name           string          `json:"name" binding:"required"`
	Description    *string         `json:"description"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Grade          *string         `json:"grade" binding:"omitempty,oneof=TK SD SMP SMA SMK"`
	ClassName      *string         `json:"class_name"`
	StudentID      *int64          `json:"student_id"`
	CanInstallment bool            `json:"can_installment"`
}

// AssignStudentPaymentsRequest represents a request to create obligations
// under a billing rule
type AssignStudentPaymentsRequest struct {
	PaymentConfigID int64   `json:"payment_config_id" binding:"required"`
	StudentIDs      []int64 `json:"student_ids"`
	DueDate         *string `json:"due_date"` // RFC 3339
}

// CreateTransactionRequest represents a request to record a ledger entry
type CreateTransactionRequest struct {
	Type             string          `json:"type" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Description      string          `json:"description" binding:"required"`
	ReferenceNumber  *string         `json:"reference_number"`
	AccountID        int64           `json:"account_id" binding:"required"`
	FundPositionID   *int64          `json:"fund_position_id"`
	StudentPaymentID *int64          `json:"student_payment_id"`
	CreatedBy        string          `json:"created_by" binding:"required"`
}

// ProcessPaymentRequest represents a request to settle a student obligation
type ProcessPaymentRequest struct {
	StudentPaymentID int64           `json:"student_payment_id" binding:"required"`
	AccountID        int64           `json:"account_id" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	ReferenceNumber  *string         `json:"reference_number"`
	CreatedBy        string          `json:"created_by" binding:"required"`
}

// CreateTransferRequest represents a request to move money between accounts
type CreateTransferRequest struct {
	FromAccountID int64           `json:"from_account_id" binding:"required"`
	ToAccountID   int64           `json:"to_account_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	CreatedBy     string          `json:"created_by" binding:"required"`
}

// CreateSavingsTransactionRequest represents a savings movement request
type CreateSavingsTransactionRequest struct {
	StudentID   int64           `json:"student_id" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=DEPOSIT WITHDRAWAL"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description *string         `json:"description"`
	CreatedBy   string          `json:"created_by" binding:"required"`
}

// GenerateSppCardRequest represents a request to issue an SPP card
type GenerateSppCardRequest struct {
	StudentID int64 `json:"student_id" binding:"required"`
}

// CreateNotificationRequest represents a request to enqueue a WhatsApp message
type CreateNotificationRequest struct {
	Phone   string `json:"phone" binding:"required"`
	Message string `json:"message" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=BILL_REMINDER PAYMENT_CONFIRMATION ANNOUNCEMENT"`
}

// PrintReceiptRequest represents a request to print an archived receipt
type PrintReceiptRequest struct {
	ReceiptNumber string `json:"receipt_number" binding:"required"`
	Copies        int    `json:"copies" binding:"omitempty,min=1"`
}
