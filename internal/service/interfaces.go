// Package service implements the application's use cases on top of the
// domain repositories. Every write operation runs as one database
// transaction: row locks are taken up front and validation re-reads state
// inside the transaction, so concurrent units serialize per row and the
// store never shows partial writes.
package service

import (
	"context"
	"time"

	"github.com/school-finance-ledger/internal/domain/account"
	"github.com/school-finance-ledger/internal/domain/card"
	"github.com/school-finance-ledger/internal/domain/fund"
	"github.com/school-finance-ledger/internal/domain/ledger"
	"github.com/school-finance-ledger/internal/domain/notification"
	"github.com/school-finance-ledger/internal/domain/payment"
	"github.com/school-finance-ledger/internal/domain/receipt"
	"github.com/school-finance-ledger/internal/domain/report"
	"github.com/school-finance-ledger/internal/domain/savings"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/shopspring/decimal"
)

// AccountService defines account operations
type AccountService interface {
	// CreateAccount creates a new cash or bank account
	CreateAccount(ctx context.Context, name string, accType account.Type, bankName, accountNumber *string, openingBalance decimal.Decimal) (*account.Account, error)

	// GetAccountByID returns ErrAccountNotFound if the account doesn't exist
	GetAccountByID(ctx context.Context, id int64) (*account.Account, error)

	// GetAccounts lists accounts, optionally active-only
	GetAccounts(ctx context.Context, activeOnly bool) ([]*account.Account, error)
}

// FundService defines fund position operations
type FundService interface {
	CreateFundPosition(ctx context.Context, name string, description *string) (*fund.Position, error)
	GetFundPositions(ctx context.Context) ([]*fund.Position, error)
}

// StudentService defines student operations
type StudentService interface {
	// CreateStudent creates a student; returns ErrDuplicateNIS when the NIS
	// is already registered
	CreateStudent(ctx context.Context, input CreateStudentInput) (*student.Student, error)

	// GetStudentByID returns ErrStudentNotFound if the student doesn't exist
	GetStudentByID(ctx context.Context, id int64) (*student.Student, error)

	// GetStudents lists students matching the filter
	GetStudents(ctx context.Context, filter student.Filter) ([]*student.Student, error)
}

// PaymentService defines billing configuration and obligation operations
type PaymentService interface {
	// CreatePaymentConfig creates a billing rule. A config scoped to a
	// specific student validates the student exists.
	CreatePaymentConfig(ctx context.Context, input CreatePaymentConfigInput) (*payment.Config, error)

	GetPaymentConfigs(ctx context.Context, activeOnly bool) ([]*payment.Config, error)

	// AssignStudentPayments creates PENDING obligations for the config's
	// scope, or for the explicit student list when one is given.
	AssignStudentPayments(ctx context.Context, configID int64, studentIDs []int64, dueDate *time.Time) ([]*payment.StudentPayment, error)

	// GetStudentPayments lists obligations matching the filter
	GetStudentPayments(ctx context.Context, filter payment.Filter) ([]*payment.StudentPayment, error)
}

// ReconciliationService defines the atomic cash movement operations. Every
// method that writes keeps the transaction log and the cached balances in
// step inside a single database transaction.
type ReconciliationService interface {
	// RecordTransaction appends a log row and applies the signed delta to
	// the account and optional fund position balances
	RecordTransaction(ctx context.Context, input RecordTransactionInput) (*ledger.Transaction, error)

	// ProcessPayment settles an amount against a student obligation:
	// obligation transition, account credit and INCOME log row, all atomic.
	// Returns ErrExceedsRemaining when the amount overshoots the obligation.
	ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*ledger.Transaction, error)

	// CreateTransfer moves money between accounts as an EXPENSE/INCOME row
	// pair sharing a TRF reference number. Rejects insufficient source funds.
	CreateTransfer(ctx context.Context, input CreateTransferInput) (*TransferResult, error)

	// GetTransactionByID returns ErrTransactionNotFound if missing
	GetTransactionByID(ctx context.Context, id int64) (*ledger.Transaction, error)

	// GetTransactions lists log rows newest first
	GetTransactions(ctx context.Context, filter ledger.Filter, page ledger.Page) ([]*ledger.Transaction, error)
}

// SavingsService defines student savings operations
type SavingsService interface {
	// CreateSavingsTransaction applies a deposit or withdrawal, creating
	// the savings row lazily. Withdrawals that would overdraw are rejected
	// with ErrInsufficientBalance.
	CreateSavingsTransaction(ctx context.Context, input SavingsTransactionInput) (*savings.Transaction, error)

	// GetStudentSavings returns the savings row with its ledger, or
	// nil, nil when the student has no savings yet
	GetStudentSavings(ctx context.Context, studentID int64) (*StudentSavings, error)
}

// CardService defines SPP card operations
type CardService interface {
	// GenerateSppCard issues a new active card, deactivating prior ones
	GenerateSppCard(ctx context.Context, studentID int64) (*card.SppCard, error)

	// ScanBarcode resolves an active barcode to the student and their
	// payment history; unknown or inactive barcodes yield nil, nil
	ScanBarcode(ctx context.Context, barcode string) (*ScanResult, error)
}

// ReportService defines the reporting aggregations
type ReportService interface {
	GetDailyReport(ctx context.Context, date time.Time) (*report.DailyReport, error)
	GetMonthlyReport(ctx context.Context, month time.Month, year int) (*report.MonthlyReport, error)
	GetOutstandingPayments(ctx context.Context, grade student.Grade, className string) ([]*report.OutstandingStudent, error)
	GetCashPositionReport(ctx context.Context) (*report.CashPosition, error)
}

// ReceiptService defines receipt generation, archival and printing
type ReceiptService interface {
	// GenerateReceipt builds the denormalized print view of a transaction
	// and archives it
	GenerateReceipt(ctx context.Context, transactionID int64) (*receipt.Receipt, error)

	// GetReceipt retrieves an archived receipt by its receipt number
	GetReceipt(ctx context.Context, receiptNumber string) (*receipt.Receipt, error)

	// PrintReceipt sends the receipt to the printer; copies must be within
	// the configured bound
	PrintReceipt(ctx context.Context, rec *receipt.Receipt, copies int) (*receipt.PrintResult, error)
}

// NotificationService defines the WhatsApp side channel operations
type NotificationService interface {
	// CreateNotification inserts a PENDING row and hands it to the
	// dispatch queue. The returned row reflects the pre-dispatch state.
	CreateNotification(ctx context.Context, phone, message string, nType notification.Type) (*notification.WhatsappNotification, error)

	// SendPaymentConfirmation enqueues a payment confirmation to the
	// student's parent phone; a no-op when no phone is on file
	SendPaymentConfirmation(ctx context.Context, st *student.Student, amount decimal.Decimal) error
}

// CreateStudentInput carries the fields for student registration
type CreateStudentInput struct {
	NIS         string
	Name        string
	Grade       student.Grade
	ClassName   string
	Phone       *string
	ParentPhone *string
	Address     *string
}

// CreatePaymentConfigInput carries the fields for a billing rule
type CreatePaymentConfigInput struct {
	PaymentType    payment.Type
	Name           string
	Description    *string
	Amount         decimal.Decimal
	Grade          *student.Grade
	ClassName      *string
	StudentID      *int64
	CanInstallment bool
}

// RecordTransactionInput carries the fields for a manual ledger entry
type RecordTransactionInput struct {
	Type             ledger.Type
	Amount           decimal.Decimal
	Description      string
	ReferenceNumber  *string
	AccountID        int64
	FundPositionID   *int64
	StudentPaymentID *int64
	CreatedBy        string
}

// ProcessPaymentInput carries the fields for settling an obligation
type ProcessPaymentInput struct {
	StudentPaymentID int64
	AccountID        int64
	Amount           decimal.Decimal
	ReferenceNumber  *string
	CreatedBy        string
}

// CreateTransferInput carries the fields for an inter-account transfer
type CreateTransferInput struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
	Description   string
	CreatedBy     string
}

// TransferResult pairs the two log rows a transfer produces
type TransferResult struct {
	OutTransaction *ledger.Transaction `json:"out_transaction"`
	InTransaction  *ledger.Transaction `json:"in_transaction"`
}

// SavingsTransactionInput carries the fields for a savings movement
type SavingsTransactionInput struct {
	StudentID   int64
	Type        savings.TransactionType
	Amount      decimal.Decimal
	Description *string
	CreatedBy   string
}

// StudentSavings bundles a savings row with its transaction history
type StudentSavings struct {
	Savings      *savings.Savings       `json:"savings"`
	Transactions []*savings.Transaction `json:"transactions"`
}

// ScanResult is what a successful barcode scan resolves to
type ScanResult struct {
	Student        *student.Student        `json:"student"`
	PaymentHistory []*payment.HistoryEntry `json:"payment_history"`
}
