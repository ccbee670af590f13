package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/school-finance-ledger/internal/domain/account"
	"github.com/school-finance-ledger/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls.
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (name, type, bank_name, account_number, balance, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		acc.Name,
		acc.Type,
		acc.BankName,
		acc.AccountNumber,
		acc.Balance,
		acc.IsActive,
		acc.CreatedAt,
		acc.UpdatedAt,
	).Scan(&acc.ID)
	if err != nil {
		r.logger.Error("Failed to create account", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	query := `
		SELECT id, name, type, bank_name, account_number, balance, is_active, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.Name,
		&acc.Type,
		&acc.BankName,
		&acc.AccountNumber,
		&acc.Balance,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// List retrieves accounts, optionally restricted to active ones
func (r *AccountRepository) List(ctx context.Context, activeOnly bool) ([]*account.Account, error) {
	query := `
		SELECT id, name, type, bank_name, account_number, balance, is_active, created_at, updated_at
		FROM accounts
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY id"

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		if err := rows.Scan(
			&acc.ID,
			&acc.Name,
			&acc.Type,
			&acc.BankName,
			&acc.AccountNumber,
			&acc.Balance,
			&acc.IsActive,
			&acc.CreatedAt,
			&acc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, &acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}

	return accounts, nil
}

// ApplyBalanceDelta adds the signed delta to the cached balance. Callers
// must hold a row lock obtained via LockForUpdate in the same transaction.
func (r *AccountRepository) ApplyBalanceDelta(ctx context.Context, id int64, delta decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, delta, id)
	if err != nil {
		r.logger.Error("Failed to update account balance", "id", id, "error", err)
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}

// LockForUpdate obtains a pessimistic lock on the account and returns its current state.
// This should be used within a transaction when strong consistency is required.
func (r *AccountRepository) LockForUpdate(ctx context.Context, id int64) (*account.Account, error) {
	query := `
		SELECT id, name, type, bank_name, account_number, balance, is_active, created_at, updated_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.Name,
		&acc.Type,
		&acc.BankName,
		&acc.AccountNumber,
		&acc.Balance,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to lock account for update", "id", id, "error", err)
		return nil, fmt.Errorf("failed to lock account for update: %w", err)
	}

	return &acc, nil
}
