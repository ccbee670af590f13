package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/school-finance-ledger/internal/domain/account"
	"github.com/school-finance-ledger/internal/domain/ledger"
	"github.com/school-finance-ledger/internal/domain/payment"
	"github.com/school-finance-ledger/internal/domain/receipt"
	"github.com/school-finance-ledger/internal/domain/student"
)

// The cashier window prints at most this many copies of one receipt
const maxReceiptCopies = 10

// ReceiptServiceImpl implements the ReceiptService interface
type ReceiptServiceImpl struct {
	transactionRepo    ledger.Repository
	accountRepo        account.Repository
	studentPaymentRepo payment.StudentPaymentRepository
	configRepo         payment.ConfigRepository
	studentRepo        student.Repository
	archive            receipt.Archive
	printer            Printer
	logger             *slog.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	transactionRepo ledger.Repository,
	accountRepo account.Repository,
	studentPaymentRepo payment.StudentPaymentRepository,
	configRepo payment.ConfigRepository,
	studentRepo student.Repository,
	archive receipt.Archive,
	printer Printer,
	logger *slog.Logger,
) ReceiptService {
	return &ReceiptServiceImpl{
		transactionRepo:    transactionRepo,
		accountRepo:        accountRepo,
		studentPaymentRepo: studentPaymentRepo,
		configRepo:         configRepo,
		studentRepo:        studentRepo,
		archive:            archive,
		printer:            printer,
		logger:             logger,
	}
}

// GenerateReceipt builds the denormalized print view of a transaction and
// archives it. Transactions without a linked obligation still get a
// receipt; student fields fall back to "N/A".
func (s *ReceiptServiceImpl) GenerateReceipt(ctx context.Context, transactionID int64) (*receipt.Receipt, error) {
	t, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	acc, err := s.accountRepo.GetByID(ctx, t.AccountID)
	if err != nil {
		return nil, err
	}

	rec := &receipt.Receipt{
		TransactionID:   t.ID,
		ReceiptNumber:   receipt.Number(t.ID, time.Now()),
		StudentName:     "N/A",
		NIS:             "N/A",
		TotalAmount:     t.Amount,
		ReceivedBy:      t.CreatedBy,
		TransactionDate: t.CreatedAt,
	}

	itemDescription := t.Description
	if t.StudentPaymentID != nil {
		sp, err := s.studentPaymentRepo.GetByID(ctx, *t.StudentPaymentID)
		if err != nil {
			return nil, err
		}
		st, err := s.studentRepo.GetByID(ctx, sp.StudentID)
		if err != nil {
			return nil, err
		}
		cfg, err := s.configRepo.GetByID(ctx, sp.PaymentConfigID)
		if err != nil {
			return nil, err
		}
		rec.StudentName = st.Name
		rec.NIS = st.NIS
		itemDescription = cfg.Name
	}
	rec.Items = []receipt.Item{{Description: itemDescription, Amount: t.Amount}}

	if acc.Type == account.TypeCash {
		rec.PaymentMethod = "CASH"
	} else {
		rec.PaymentMethod = fmt.Sprintf("BANK TRANSFER (%s)", acc.Name)
	}

	if t.ReferenceNumber != nil {
		rec.Notes = "Ref: " + *t.ReferenceNumber
	}

	if err := s.archive.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("Generated receipt", "receipt_number", rec.ReceiptNumber, "transaction_id", t.ID)
	return rec, nil
}

// GetReceipt retrieves an archived receipt by its receipt number
func (s *ReceiptServiceImpl) GetReceipt(ctx context.Context, receiptNumber string) (*receipt.Receipt, error) {
	return s.archive.GetByReceiptNumber(ctx, receiptNumber)
}

// PrintReceipt sends the receipt to the printer. Out-of-range copy counts
// and printer failures resolve to an unsuccessful result, not an error:
// the cashier retries from the UI.
func (s *ReceiptServiceImpl) PrintReceipt(ctx context.Context, rec *receipt.Receipt, copies int) (*receipt.PrintResult, error) {
	if copies < 1 || copies > maxReceiptCopies {
		return &receipt.PrintResult{
			Success:       false,
			PrintedCopies: 0,
			ReceiptNumber: rec.ReceiptNumber,
		}, nil
	}

	if err := s.printer.Print(rec, copies); err != nil {
		s.logger.Warn("Receipt printing failed", "receipt_number", rec.ReceiptNumber, "error", err)
		return &receipt.PrintResult{
			Success:       false,
			PrintedCopies: 0,
			ReceiptNumber: rec.ReceiptNumber,
		}, nil
	}

	return &receipt.PrintResult{
		Success:       true,
		PrintedCopies: copies,
		ReceiptNumber: rec.ReceiptNumber,
	}, nil
}
