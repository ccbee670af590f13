package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/school-finance-ledger/internal/domain/ledger"
	"github.com/school-finance-ledger/internal/platform/persistence"
)

// TransactionRepository implements ledger.Repository for PostgreSQL. The
// transactions table is append-only; this repository deliberately has no
// update or delete operations.
type TransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *TransactionRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Insert appends a row to the transaction log
func (r *TransactionRepository) Insert(ctx context.Context, t *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (type, amount, description, reference_number, account_id, fund_position_id, student_payment_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		t.Type,
		t.Amount,
		t.Description,
		t.ReferenceNumber,
		t.AccountID,
		t.FundPositionID,
		t.StudentPaymentID,
		t.CreatedBy,
		t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		r.logger.Error("Failed to insert transaction", "type", t.Type, "error", err)
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction log row by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*ledger.Transaction, error) {
	query := `
		SELECT id, type, amount, description, reference_number, account_id, fund_position_id, student_payment_id, created_by, created_at
		FROM transactions
		WHERE id = $1
	`

	var t ledger.Transaction
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Type,
		&t.Amount,
		&t.Description,
		&t.ReferenceNumber,
		&t.AccountID,
		&t.FundPositionID,
		&t.StudentPaymentID,
		&t.CreatedBy,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &t, nil
}

// List retrieves transactions matching the filter, newest first. Date
// bounds are inclusive on both ends.
func (r *TransactionRepository) List(ctx context.Context, filter ledger.Filter, page ledger.Page) ([]*ledger.Transaction, error) {
	page = page.Normalize()

	query := `
		SELECT id, type, amount, description, reference_number, account_id, fund_position_id, student_payment_id, created_by, created_at
		FROM transactions
		WHERE 1=1
	`
	var args []interface{}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.AccountID != 0 {
		args = append(args, filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if !filter.DateFrom.IsZero() {
		args = append(args, filter.DateFrom)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filter.DateTo.IsZero() {
		args = append(args, filter.DateTo)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	args = append(args, page.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, page.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*ledger.Transaction
	for rows.Next() {
		var t ledger.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.Type,
			&t.Amount,
			&t.Description,
			&t.ReferenceNumber,
			&t.AccountID,
			&t.FundPositionID,
			&t.StudentPaymentID,
			&t.CreatedBy,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	return transactions, nil
}
