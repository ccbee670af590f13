package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/school-finance-ledger/internal/domain/fund"
	"github.com/school-finance-ledger/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

// FundRepository implements the fund.Repository interface for PostgreSQL
type FundRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewFundRepository creates a new PostgreSQL fund position repository
func NewFundRepository(logger *slog.Logger, db *persistence.PostgresDB) fund.Repository {
	return &FundRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *FundRepository) WithTx(tx pgx.Tx) fund.Repository {
	return &FundRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new fund position
func (r *FundRepository) Create(ctx context.Context, p *fund.Position) error {
	query := `
		INSERT INTO fund_positions (name, description, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		p.Name,
		p.Description,
		p.Balance,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		r.logger.Error("Failed to create fund position", "error", err)
		return fmt.Errorf("failed to create fund position: %w", err)
	}

	return nil
}

// GetByID retrieves a fund position by its ID
func (r *FundRepository) GetByID(ctx context.Context, id int64) (*fund.Position, error) {
	query := `
		SELECT id, name, description, balance, created_at, updated_at
		FROM fund_positions
		WHERE id = $1
	`

	var p fund.Position
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Balance,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fund.ErrPositionNotFound{PositionID: id}
		}
		r.logger.Error("Failed to get fund position", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get fund position: %w", err)
	}

	return &p, nil
}

// List retrieves all fund positions ordered by id
func (r *FundRepository) List(ctx context.Context) ([]*fund.Position, error) {
	query := `
		SELECT id, name, description, balance, created_at, updated_at
		FROM fund_positions
		ORDER BY id
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list fund positions", "error", err)
		return nil, fmt.Errorf("failed to list fund positions: %w", err)
	}
	defer rows.Close()

	var positions []*fund.Position
	for rows.Next() {
		var p fund.Position
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Balance,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fund position row: %w", err)
		}
		positions = append(positions, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fund position rows: %w", err)
	}

	return positions, nil
}

// ApplyBalanceDelta adds the signed delta to the cached balance
func (r *FundRepository) ApplyBalanceDelta(ctx context.Context, id int64, delta decimal.Decimal) error {
	query := `
		UPDATE fund_positions
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, delta, id)
	if err != nil {
		r.logger.Error("Failed to update fund position balance", "id", id, "error", err)
		return fmt.Errorf("failed to update fund position balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fund.ErrPositionNotFound{PositionID: id}
	}

	return nil
}

// LockForUpdate obtains a pessimistic lock on the fund position
func (r *FundRepository) LockForUpdate(ctx context.Context, id int64) (*fund.Position, error) {
	query := `
		SELECT id, name, description, balance, created_at, updated_at
		FROM fund_positions
		WHERE id = $1
		FOR UPDATE
	`

	var p fund.Position
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Balance,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fund.ErrPositionNotFound{PositionID: id}
		}
		r.logger.Error("Failed to lock fund position for update", "id", id, "error", err)
		return nil, fmt.Errorf("failed to lock fund position for update: %w", err)
	}

	return &p, nil
}
