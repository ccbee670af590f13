package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/school-finance-ledger/internal/domain/account"
	"github.com/school-finance-ledger/internal/domain/fund"
	"github.com/school-finance-ledger/internal/domain/ledger"
	"github.com/school-finance-ledger/internal/domain/payment"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/school-finance-ledger/internal/platform/persistence"
)

// ReconciliationServiceImpl implements the ReconciliationService interface.
// It is the only writer of the transactions table and the cached account and
// fund balances, which keeps the two in step at every committed state.
type ReconciliationServiceImpl struct {
	txRunner           persistence.TxRunner
	transactionRepo    ledger.Repository
	accountRepo        account.Repository
	fundRepo           fund.Repository
	studentPaymentRepo payment.StudentPaymentRepository
	studentRepo        student.Repository
	notifications      NotificationService
	logger             *slog.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	txRunner persistence.TxRunner,
	transactionRepo ledger.Repository,
	accountRepo account.Repository,
	fundRepo fund.Repository,
	studentPaymentRepo payment.StudentPaymentRepository,
	studentRepo student.Repository,
	notifications NotificationService,
	logger *slog.Logger,
) ReconciliationService {
	return &ReconciliationServiceImpl{
		txRunner:           txRunner,
		transactionRepo:    transactionRepo,
		accountRepo:        accountRepo,
		fundRepo:           fundRepo,
		studentPaymentRepo: studentPaymentRepo,
		studentRepo:        studentRepo,
		notifications:      notifications,
		logger:             logger,
	}
}

// RecordTransaction appends a row to the transaction log and applies the
// signed delta to the account and, when linked, the fund position balance.
// The delta is applied unconditionally: an EXPENSE may push the cached
// balance negative, the log is the source of truth.
func (s *ReconciliationServiceImpl) RecordTransaction(ctx context.Context, input RecordTransactionInput) (*ledger.Transaction, error) {
	t, err := ledger.NewTransaction(input.Type, input.Amount, input.Description, input.AccountID, input.CreatedBy)
	if err != nil {
		return nil, err
	}
	t.ReferenceNumber = input.ReferenceNumber
	t.FundPositionID = input.FundPositionID
	t.StudentPaymentID = input.StudentPaymentID

	delta := input.Type.SignedAmount(input.Amount)

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accountRepo := s.accountRepo.WithTx(tx)
		fundRepo := s.fundRepo.WithTx(tx)
		transactionRepo := s.transactionRepo.WithTx(tx)

		if _, err := accountRepo.LockForUpdate(ctx, input.AccountID); err != nil {
			return err
		}

		if input.FundPositionID != nil {
			if _, err := fundRepo.LockForUpdate(ctx, *input.FundPositionID); err != nil {
				return err
			}
		}
		if input.StudentPaymentID != nil {
			if _, err := s.studentPaymentRepo.WithTx(tx).GetByID(ctx, *input.StudentPaymentID); err != nil {
				return err
			}
		}

		if err := transactionRepo.Insert(ctx, t); err != nil {
			return err
		}
		if err := accountRepo.ApplyBalanceDelta(ctx, input.AccountID, delta); err != nil {
			return err
		}
		if input.FundPositionID != nil {
			if err := fundRepo.ApplyBalanceDelta(ctx, *input.FundPositionID, delta); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recorded transaction", "transaction_id", t.ID, "type", t.Type, "account_id", t.AccountID)
	return t, nil
}

// ProcessPayment settles an amount against a student obligation. The
// obligation and the receiving account are locked up front; the obligation
// transition, the account credit and the INCOME log row commit together or
// not at all. Two concurrent payments against one obligation therefore
// serialize, and the second sees the first's remaining amount.
func (s *ReconciliationServiceImpl) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*ledger.Transaction, error) {
	if !input.Amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}

	var t *ledger.Transaction
	var studentID int64

	err := s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		paymentRepo := s.studentPaymentRepo.WithTx(tx)
		accountRepo := s.accountRepo.WithTx(tx)
		transactionRepo := s.transactionRepo.WithTx(tx)

		sp, err := paymentRepo.LockForUpdate(ctx, input.StudentPaymentID)
		if err != nil {
			return err
		}
		if err := sp.ApplyPayment(input.Amount); err != nil {
			return err
		}
		studentID = sp.StudentID

		if _, err := accountRepo.LockForUpdate(ctx, input.AccountID); err != nil {
			return err
		}

		if err := paymentRepo.UpdateAmounts(ctx, sp); err != nil {
			return err
		}
		if err := accountRepo.ApplyBalanceDelta(ctx, input.AccountID, input.Amount); err != nil {
			return err
		}

		t, err = ledger.NewTransaction(
			ledger.TypeIncome,
			input.Amount,
			fmt.Sprintf("Payment for student payment ID: %d", sp.ID),
			input.AccountID,
			input.CreatedBy,
		)
		if err != nil {
			return err
		}
		t.ReferenceNumber = input.ReferenceNumber
		t.StudentPaymentID = &sp.ID

		return transactionRepo.Insert(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Processed payment", "student_payment_id", input.StudentPaymentID, "transaction_id", t.ID)

	// Write-behind confirmation: the payment is committed, a notification
	// failure must not surface to the caller.
	if s.notifications != nil {
		if st, err := s.studentRepo.GetByID(ctx, studentID); err == nil {
			if err := s.notifications.SendPaymentConfirmation(ctx, st, input.Amount); err != nil {
				s.logger.Warn("Failed to enqueue payment confirmation", "student_id", studentID, "error", err)
			}
		} else {
			s.logger.Warn("Failed to load student for payment confirmation", "student_id", studentID, "error", err)
		}
	}

	return t, nil
}

// CreateTransfer moves money between two accounts as an EXPENSE/INCOME pair
// sharing one TRF reference number. Both rows and both balance updates
// commit atomically; a source balance that cannot cover the amount rejects
// the whole transfer.
func (s *ReconciliationServiceImpl) CreateTransfer(ctx context.Context, input CreateTransferInput) (*TransferResult, error) {
	if !input.Amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	if input.FromAccountID == input.ToAccountID {
		return nil, fmt.Errorf("cannot transfer to the same account: %d", input.FromAccountID)
	}

	reference := "TRF-" + uuid.New().String()
	result := &TransferResult{}

	err := s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accountRepo := s.accountRepo.WithTx(tx)
		transactionRepo := s.transactionRepo.WithTx(tx)

		// Lock in ascending id order so concurrent opposite transfers
		// cannot deadlock.
		firstID, secondID := input.FromAccountID, input.ToAccountID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		locked := make(map[int64]*account.Account, 2)
		for _, id := range []int64{firstID, secondID} {
			acc, err := accountRepo.LockForUpdate(ctx, id)
			if err != nil {
				return err
			}
			locked[id] = acc
		}

		source := locked[input.FromAccountID]
		if !source.CanWithdraw(input.Amount) {
			return account.ErrInsufficientFunds{
				AccountID: source.ID,
				Balance:   source.Balance,
				Amount:    input.Amount,
			}
		}

		out, err := ledger.NewTransaction(ledger.TypeExpense, input.Amount, input.Description, input.FromAccountID, input.CreatedBy)
		if err != nil {
			return err
		}
		out.ReferenceNumber = &reference
		if err := transactionRepo.Insert(ctx, out); err != nil {
			return err
		}

		in, err := ledger.NewTransaction(ledger.TypeIncome, input.Amount, input.Description, input.ToAccountID, input.CreatedBy)
		if err != nil {
			return err
		}
		in.ReferenceNumber = &reference
		if err := transactionRepo.Insert(ctx, in); err != nil {
			return err
		}

		if err := accountRepo.ApplyBalanceDelta(ctx, input.FromAccountID, input.Amount.Neg()); err != nil {
			return err
		}
		if err := accountRepo.ApplyBalanceDelta(ctx, input.ToAccountID, input.Amount); err != nil {
			return err
		}

		result.OutTransaction = out
		result.InTransaction = in
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created transfer",
		"reference", reference,
		"from_account_id", input.FromAccountID,
		"to_account_id", input.ToAccountID,
	)
	return result, nil
}

// GetTransactionByID retrieves a log row, returns ErrTransactionNotFound if missing
func (s *ReconciliationServiceImpl) GetTransactionByID(ctx context.Context, id int64) (*ledger.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, id)
}

// GetTransactions lists log rows matching the filter, newest first
func (s *ReconciliationServiceImpl) GetTransactions(ctx context.Context, filter ledger.Filter, page ledger.Page) ([]*ledger.Transaction, error) {
	return s.transactionRepo.List(ctx, filter, page)
}
