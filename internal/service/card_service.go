package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/school-finance-ledger/internal/domain/card"
	"github.com/school-finance-ledger/internal/domain/payment"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/school-finance-ledger/internal/platform/persistence"
)

// CardServiceImpl implements the CardService interface
type CardServiceImpl struct {
	txRunner           persistence.TxRunner
	cardRepo           card.Repository
	studentRepo        student.Repository
	studentPaymentRepo payment.StudentPaymentRepository
	logger             *slog.Logger
}

// NewCardService creates a new SPP card service
func NewCardService(
	txRunner persistence.TxRunner,
	cardRepo card.Repository,
	studentRepo student.Repository,
	studentPaymentRepo payment.StudentPaymentRepository,
	logger *slog.Logger,
) CardService {
	return &CardServiceImpl{
		txRunner:           txRunner,
		cardRepo:           cardRepo,
		studentRepo:        studentRepo,
		studentPaymentRepo: studentPaymentRepo,
		logger:             logger,
	}
}

// GenerateSppCard issues a new active card for the student, deactivating
// any prior active cards in the same transaction so the at-most-one-active
// invariant holds at every committed state.
func (s *CardServiceImpl) GenerateSppCard(ctx context.Context, studentID int64) (*card.SppCard, error) {
	var issued *card.SppCard

	err := s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		cardRepo := s.cardRepo.WithTx(tx)
		studentRepo := s.studentRepo.WithTx(tx)

		if _, err := studentRepo.GetByID(ctx, studentID); err != nil {
			return err
		}

		if err := cardRepo.DeactivateForStudent(ctx, studentID); err != nil {
			return err
		}

		now := time.Now()
		issued = &card.SppCard{
			StudentID: studentID,
			Barcode:   card.Barcode(studentID, now),
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return cardRepo.Insert(ctx, issued)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Generated spp card", "student_id", studentID, "barcode", issued.Barcode)
	return issued, nil
}

// ScanBarcode resolves an active barcode to the student and their full
// payment history. Unknown or inactive barcodes resolve to nil, nil: a
// failed scan at the cashier window is not an error.
func (s *CardServiceImpl) ScanBarcode(ctx context.Context, barcode string) (*ScanResult, error) {
	c, err := s.cardRepo.GetActiveByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	st, err := s.studentRepo.GetByID(ctx, c.StudentID)
	if err != nil {
		return nil, err
	}

	history, err := s.studentPaymentRepo.ListHistory(ctx, c.StudentID)
	if err != nil {
		return nil, err
	}

	return &ScanResult{
		Student:        st,
		PaymentHistory: history,
	}, nil
}
