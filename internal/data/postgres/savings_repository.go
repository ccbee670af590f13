package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/school-finance-ledger/internal/domain/savings"
	"github.com/school-finance-ledger/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

// SavingsRepository implements the savings.Repository interface for PostgreSQL
type SavingsRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewSavingsRepository creates a new PostgreSQL savings repository
func NewSavingsRepository(logger *slog.Logger, db *persistence.PostgresDB) savings.Repository {
	return &SavingsRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *SavingsRepository) WithTx(tx pgx.Tx) savings.Repository {
	return &SavingsRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// GetByStudentID retrieves a student's savings, or nil, nil when the
// student has no savings row yet.
func (r *SavingsRepository) GetByStudentID(ctx context.Context, studentID int64) (*savings.Savings, error) {
	query := `
		SELECT id, student_id, balance, created_at, updated_at
		FROM savings
		WHERE student_id = $1
	`

	var s savings.Savings
	err := r.querier.QueryRow(ctx, query, studentID).Scan(
		&s.ID,
		&s.StudentID,
		&s.Balance,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No savings yet for this student
		}
		r.logger.Error("Failed to get savings", "student_id", studentID, "error", err)
		return nil, fmt.Errorf("failed to get savings: %w", err)
	}

	return &s, nil
}

// Create inserts a zero-balance savings row for the student. The insert is
// idempotent per student: when a row for the student already exists, no row
// is written and s.ID stays zero so the caller can re-read the winner's row.
func (r *SavingsRepository) Create(ctx context.Context, s *savings.Savings) error {
	query := `
		INSERT INTO savings (student_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id) DO NOTHING
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		s.StudentID,
		s.Balance,
		s.CreatedAt,
		s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil // another transaction created the row first
		}
		r.logger.Error("Failed to create savings", "student_id", s.StudentID, "error", err)
		return fmt.Errorf("failed to create savings: %w", err)
	}

	return nil
}

// LockByStudentID row-locks the student's savings so concurrent withdrawals
// serialize. Returns nil, nil when no row exists.
func (r *SavingsRepository) LockByStudentID(ctx context.Context, studentID int64) (*savings.Savings, error) {
	query := `
		SELECT id, student_id, balance, created_at, updated_at
		FROM savings
		WHERE student_id = $1
		FOR UPDATE
	`

	var s savings.Savings
	err := r.querier.QueryRow(ctx, query, studentID).Scan(
		&s.ID,
		&s.StudentID,
		&s.Balance,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No savings yet for this student
		}
		r.logger.Error("Failed to lock savings for update", "student_id", studentID, "error", err)
		return nil, fmt.Errorf("failed to lock savings for update: %w", err)
	}

	return &s, nil
}

// UpdateBalance sets the savings balance to the computed value
func (r *SavingsRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	query := `
		UPDATE savings
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, balance, id)
	if err != nil {
		r.logger.Error("Failed to update savings balance", "id", id, "error", err)
		return fmt.Errorf("failed to update savings balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("savings not found: %d", id)
	}

	return nil
}

// InsertTransaction appends a row to the savings ledger
func (r *SavingsRepository) InsertTransaction(ctx context.Context, t *savings.Transaction) error {
	query := `
		INSERT INTO savings_transactions (savings_id, type, amount, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		t.SavingsID,
		t.Type,
		t.Amount,
		t.Description,
		t.CreatedBy,
		t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		r.logger.Error("Failed to insert savings transaction", "savings_id", t.SavingsID, "error", err)
		return fmt.Errorf("failed to insert savings transaction: %w", err)
	}

	return nil
}

// ListTransactions retrieves a savings ledger, newest first
func (r *SavingsRepository) ListTransactions(ctx context.Context, savingsID int64) ([]*savings.Transaction, error) {
	query := `
		SELECT id, savings_id, type, amount, description, created_by, created_at
		FROM savings_transactions
		WHERE savings_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.querier.Query(ctx, query, savingsID)
	if err != nil {
		r.logger.Error("Failed to list savings transactions", "savings_id", savingsID, "error", err)
		return nil, fmt.Errorf("failed to list savings transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*savings.Transaction
	for rows.Next() {
		var t savings.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.SavingsID,
			&t.Type,
			&t.Amount,
			&t.Description,
			&t.CreatedBy,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan savings transaction row: %w", err)
		}
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate savings transaction rows: %w", err)
	}

	return transactions, nil
}
