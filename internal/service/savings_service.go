package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/school-finance-ledger/internal/domain/savings"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/school-finance-ledger/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

// SavingsServiceImpl implements the SavingsService interface
type SavingsServiceImpl struct {
	txRunner    persistence.TxRunner
	savingsRepo savings.Repository
	studentRepo student.Repository
	logger      *slog.Logger
}

// NewSavingsService creates a new savings service
func NewSavingsService(
	txRunner persistence.TxRunner,
	savingsRepo savings.Repository,
	studentRepo student.Repository,
	logger *slog.Logger,
) SavingsService {
	return &SavingsServiceImpl{
		txRunner:    txRunner,
		savingsRepo: savingsRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// CreateSavingsTransaction applies a deposit or withdrawal to a student's
// savings. The savings row is created lazily on the first movement; the
// balance is re-read under a row lock so concurrent withdrawals cannot
// jointly overdraw it.
func (s *SavingsServiceImpl) CreateSavingsTransaction(ctx context.Context, input SavingsTransactionInput) (*savings.Transaction, error) {
	if !input.Type.Valid() {
		return nil, savings.ErrInvalidAmount
	}
	if !input.Amount.IsPositive() {
		return nil, savings.ErrInvalidAmount
	}

	var result *savings.Transaction

	err := s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		savingsRepo := s.savingsRepo.WithTx(tx)
		studentRepo := s.studentRepo.WithTx(tx)

		if _, err := studentRepo.GetByID(ctx, input.StudentID); err != nil {
			return err
		}

		sv, err := savingsRepo.LockByStudentID(ctx, input.StudentID)
		if err != nil {
			return err
		}
		if sv == nil {
			now := time.Now()
			sv = &savings.Savings{
				StudentID: input.StudentID,
				Balance:   decimal.Zero,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := savingsRepo.Create(ctx, sv); err != nil {
				return err
			}
			if sv.ID == 0 {
				// Lost the insert race to a concurrent first movement;
				// lock the row that transaction created.
				sv, err = savingsRepo.LockByStudentID(ctx, input.StudentID)
				if err != nil {
					return err
				}
				if sv == nil {
					return fmt.Errorf("savings row for student %d vanished after conflicting insert", input.StudentID)
				}
			}
		}

		newBalance, err := sv.Apply(input.Type, input.Amount)
		if err != nil {
			return err
		}

		if err := savingsRepo.UpdateBalance(ctx, sv.ID, newBalance); err != nil {
			return err
		}

		result = &savings.Transaction{
			SavingsID:   sv.ID,
			Type:        input.Type,
			Amount:      input.Amount,
			Description: input.Description,
			CreatedBy:   input.CreatedBy,
			CreatedAt:   time.Now(),
		}
		return savingsRepo.InsertTransaction(ctx, result)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created savings transaction",
		"student_id", input.StudentID,
		"type", input.Type,
		"savings_transaction_id", result.ID,
	)
	return result, nil
}

// GetStudentSavings returns the savings row with its transaction history,
// or nil, nil when the student has no savings yet.
func (s *SavingsServiceImpl) GetStudentSavings(ctx context.Context, studentID int64) (*StudentSavings, error) {
	sv, err := s.savingsRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, nil
	}

	transactions, err := s.savingsRepo.ListTransactions(ctx, sv.ID)
	if err != nil {
		return nil, err
	}

	return &StudentSavings{
		Savings:      sv,
		Transactions: transactions,
	}, nil
}
