package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/school-finance-ledger/internal/domain/payment"
	"github.com/school-finance-ledger/internal/platform/persistence"
)

// StudentPaymentRepository implements payment.StudentPaymentRepository for PostgreSQL
type StudentPaymentRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewStudentPaymentRepository creates a new PostgreSQL student payment repository
func NewStudentPaymentRepository(logger *slog.Logger, db *persistence.PostgresDB) payment.StudentPaymentRepository {
	return &StudentPaymentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *StudentPaymentRepository) WithTx(tx pgx.Tx) payment.StudentPaymentRepository {
	return &StudentPaymentRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new obligation
func (r *StudentPaymentRepository) Create(ctx context.Context, sp *payment.StudentPayment) error {
	query := `
		INSERT INTO student_payments (student_id, payment_config_id, amount_due, amount_paid, amount_remaining, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		sp.StudentID,
		sp.PaymentConfigID,
		sp.AmountDue,
		sp.AmountPaid,
		sp.AmountRemaining,
		sp.DueDate,
		sp.Status,
		sp.CreatedAt,
		sp.UpdatedAt,
	).Scan(&sp.ID)
	if err != nil {
		r.logger.Error("Failed to create student payment", "student_id", sp.StudentID, "error", err)
		return fmt.Errorf("failed to create student payment: %w", err)
	}

	return nil
}

// GetByID retrieves an obligation by its ID
func (r *StudentPaymentRepository) GetByID(ctx context.Context, id int64) (*payment.StudentPayment, error) {
	query := `
		SELECT id, student_id, payment_config_id, amount_due, amount_paid, amount_remaining, due_date, status, created_at, updated_at
		FROM student_payments
		WHERE id = $1
	`

	var sp payment.StudentPayment
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&sp.ID,
		&sp.StudentID,
		&sp.PaymentConfigID,
		&sp.AmountDue,
		&sp.AmountPaid,
		&sp.AmountRemaining,
		&sp.DueDate,
		&sp.Status,
		&sp.CreatedAt,
		&sp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrStudentPaymentNotFound{StudentPaymentID: id}
		}
		r.logger.Error("Failed to get student payment", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get student payment: %w", err)
	}

	return &sp, nil
}

// List retrieves obligations matching the filter. Grade, class and payment
// type predicates join through students and payment_configs.
func (r *StudentPaymentRepository) List(ctx context.Context, filter payment.Filter) ([]*payment.StudentPayment, error) {
	query := `
		SELECT sp.id, sp.student_id, sp.payment_config_id, sp.amount_due, sp.amount_paid, sp.amount_remaining, sp.due_date, sp.status, sp.created_at, sp.updated_at
		FROM student_payments sp
		JOIN students s ON s.id = sp.student_id
		JOIN payment_configs pc ON pc.id = sp.payment_config_id
		WHERE 1=1
	`
	var args []interface{}

	if filter.StudentID != 0 {
		args = append(args, filter.StudentID)
		query += fmt.Sprintf(" AND sp.student_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND sp.status = $%d", len(args))
	}
	if filter.Grade != "" {
		args = append(args, filter.Grade)
		query += fmt.Sprintf(" AND s.grade = $%d", len(args))
	}
	if filter.ClassName != "" {
		args = append(args, filter.ClassName)
		query += fmt.Sprintf(" AND s.class_name = $%d", len(args))
	}
	if filter.PaymentType != "" {
		args = append(args, filter.PaymentType)
		query += fmt.Sprintf(" AND pc.payment_type = $%d", len(args))
	}

	query += " ORDER BY sp.id"

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list student payments", "error", err)
		return nil, fmt.Errorf("failed to list student payments: %w", err)
	}
	defer rows.Close()

	var payments []*payment.StudentPayment
	for rows.Next() {
		var sp payment.StudentPayment
		if err := rows.Scan(
			&sp.ID,
			&sp.StudentID,
			&sp.PaymentConfigID,
			&sp.AmountDue,
			&sp.AmountPaid,
			&sp.AmountRemaining,
			&sp.DueDate,
			&sp.Status,
			&sp.CreatedAt,
			&sp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student payment row: %w", err)
		}
		payments = append(payments, &sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate student payment rows: %w", err)
	}

	return payments, nil
}

// ListHistory returns a student's obligations joined with the config's
// payment type, newest first. Used by the barcode scan view.
func (r *StudentPaymentRepository) ListHistory(ctx context.Context, studentID int64) ([]*payment.HistoryEntry, error) {
	query := `
		SELECT sp.id, pc.payment_type, sp.amount_due, sp.amount_paid, sp.amount_remaining, sp.status, sp.due_date
		FROM student_payments sp
		JOIN payment_configs pc ON pc.id = sp.payment_config_id
		WHERE sp.student_id = $1
		ORDER BY sp.created_at DESC
	`

	rows, err := r.querier.Query(ctx, query, studentID)
	if err != nil {
		r.logger.Error("Failed to list student payment history", "student_id", studentID, "error", err)
		return nil, fmt.Errorf("failed to list student payment history: %w", err)
	}
	defer rows.Close()

	var entries []*payment.HistoryEntry
	for rows.Next() {
		var e payment.HistoryEntry
		if err := rows.Scan(
			&e.ID,
			&e.PaymentType,
			&e.AmountDue,
			&e.AmountPaid,
			&e.AmountRemaining,
			&e.Status,
			&e.DueDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment history row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment history rows: %w", err)
	}

	return entries, nil
}

// UpdateAmounts persists the paid/remaining/status triple. Must run inside
// the same transaction as the balance update and ledger insert.
func (r *StudentPaymentRepository) UpdateAmounts(ctx context.Context, sp *payment.StudentPayment) error {
	query := `
		UPDATE student_payments
		SET amount_paid = $1, amount_remaining = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		sp.AmountPaid,
		sp.AmountRemaining,
		sp.Status,
		sp.UpdatedAt,
		sp.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update student payment amounts", "id", sp.ID, "error", err)
		return fmt.Errorf("failed to update student payment amounts: %w", err)
	}

	if result.RowsAffected() == 0 {
		return payment.ErrStudentPaymentNotFound{StudentPaymentID: sp.ID}
	}

	return nil
}

// LockForUpdate obtains a pessimistic lock on the obligation so concurrent
// payments against it serialize.
func (r *StudentPaymentRepository) LockForUpdate(ctx context.Context, id int64) (*payment.StudentPayment, error) {
	query := `
		SELECT id, student_id, payment_config_id, amount_due, amount_paid, amount_remaining, due_date, status, created_at, updated_at
		FROM student_payments
		WHERE id = $1
		FOR UPDATE
	`

	var sp payment.StudentPayment
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&sp.ID,
		&sp.StudentID,
		&sp.PaymentConfigID,
		&sp.AmountDue,
		&sp.AmountPaid,
		&sp.AmountRemaining,
		&sp.DueDate,
		&sp.Status,
		&sp.CreatedAt,
		&sp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrStudentPaymentNotFound{StudentPaymentID: id}
		}
		r.logger.Error("Failed to lock student payment for update", "id", id, "error", err)
		return nil, fmt.Errorf("failed to lock student payment for update: %w", err)
	}

	return &sp, nil
}
