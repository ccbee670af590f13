package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/school-finance-ledger/internal/domain/payment"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/school-finance-ledger/internal/platform/persistence"
)

// PaymentServiceImpl implements the PaymentService interface
type PaymentServiceImpl struct {
	txRunner           persistence.TxRunner
	configRepo         payment.ConfigRepository
	studentPaymentRepo payment.StudentPaymentRepository
	studentRepo        student.Repository
	logger             *slog.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	txRunner persistence.TxRunner,
	configRepo payment.ConfigRepository,
	studentPaymentRepo payment.StudentPaymentRepository,
	studentRepo student.Repository,
	logger *slog.Logger,
) PaymentService {
	return &PaymentServiceImpl{
		txRunner:           txRunner,
		configRepo:         configRepo,
		studentPaymentRepo: studentPaymentRepo,
		studentRepo:        studentRepo,
		logger:             logger,
	}
}

// CreatePaymentConfig creates a billing rule. A config scoped to a specific
// student validates that the student exists first.
func (s *PaymentServiceImpl) CreatePaymentConfig(ctx context.Context, input CreatePaymentConfigInput) (*payment.Config, error) {
	cfg, err := payment.NewConfig(input.PaymentType, input.Name, input.Amount, input.CanInstallment)
	if err != nil {
		return nil, err
	}
	cfg.Description = input.Description
	cfg.Grade = input.Grade
	cfg.ClassName = input.ClassName
	cfg.StudentID = input.StudentID

	if input.StudentID != nil {
		if _, err := s.studentRepo.GetByID(ctx, *input.StudentID); err != nil {
			return nil, err
		}
	}

	if err := s.configRepo.Create(ctx, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetPaymentConfigs lists billing rules, optionally restricted to active ones
func (s *PaymentServiceImpl) GetPaymentConfigs(ctx context.Context, activeOnly bool) ([]*payment.Config, error) {
	return s.configRepo.List(ctx, activeOnly)
}

// AssignStudentPayments creates PENDING obligations under the config for the
// given students, or for the config's scope when no explicit list is passed.
// All rows are created in a single transaction: either every target student
// gets an obligation or none do.
func (s *PaymentServiceImpl) AssignStudentPayments(ctx context.Context, configID int64, studentIDs []int64, dueDate *time.Time) ([]*payment.StudentPayment, error) {
	var created []*payment.StudentPayment

	err := s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		configRepo := s.configRepo.WithTx(tx)
		studentRepo := s.studentRepo.WithTx(tx)
		paymentRepo := s.studentPaymentRepo.WithTx(tx)

		cfg, err := configRepo.GetByID(ctx, configID)
		if err != nil {
			return err
		}

		targets, err := s.resolveTargets(ctx, studentRepo, cfg, studentIDs)
		if err != nil {
			return err
		}

		for _, studentID := range targets {
			sp, err := payment.NewStudentPayment(studentID, cfg, dueDate)
			if err != nil {
				return err
			}
			if err := paymentRepo.Create(ctx, sp); err != nil {
				return err
			}
			created = append(created, sp)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Assigned student payments", "config_id", configID, "count", len(created))
	return created, nil
}

// resolveTargets determines which students receive an obligation: the
// explicit list when given (each student must exist), otherwise the active
// students matched by the config's scope.
func (s *PaymentServiceImpl) resolveTargets(ctx context.Context, studentRepo student.Repository, cfg *payment.Config, studentIDs []int64) ([]int64, error) {
	if len(studentIDs) > 0 {
		for _, id := range studentIDs {
			if _, err := studentRepo.GetByID(ctx, id); err != nil {
				return nil, err
			}
		}
		return studentIDs, nil
	}

	if cfg.StudentID != nil {
		if _, err := studentRepo.GetByID(ctx, *cfg.StudentID); err != nil {
			return nil, err
		}
		return []int64{*cfg.StudentID}, nil
	}

	filter := student.Filter{Status: student.StatusActive}
	if cfg.Grade != nil {
		filter.Grade = *cfg.Grade
	}
	if cfg.ClassName != nil {
		filter.ClassName = *cfg.ClassName
	}

	students, err := studentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	targets := make([]int64, 0, len(students))
	for _, st := range students {
		targets = append(targets, st.ID)
	}
	return targets, nil
}

// GetStudentPayments lists obligations matching the filter
func (s *PaymentServiceImpl) GetStudentPayments(ctx context.Context, filter payment.Filter) ([]*payment.StudentPayment, error) {
	return s.studentPaymentRepo.List(ctx, filter)
}
