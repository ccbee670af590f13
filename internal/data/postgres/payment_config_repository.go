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

// PaymentConfigRepository implements payment.ConfigRepository for PostgreSQL
type PaymentConfigRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewPaymentConfigRepository creates a new PostgreSQL payment config repository
func NewPaymentConfigRepository(logger *slog.Logger, db *persistence.PostgresDB) payment.ConfigRepository {
	return &PaymentConfigRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *PaymentConfigRepository) WithTx(tx pgx.Tx) payment.ConfigRepository {
	return &PaymentConfigRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new billing configuration
func (r *PaymentConfigRepository) Create(ctx context.Context, cfg *payment.Config) error {
	query := `
		INSERT INTO payment_configs (payment_type, name, description, amount, grade, class_name, student_id, is_active, can_installment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		cfg.PaymentType,
		cfg.Name,
		cfg.Description,
		cfg.Amount,
		cfg.Grade,
		cfg.ClassName,
		cfg.StudentID,
		cfg.IsActive,
		cfg.CanInstallment,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	).Scan(&cfg.ID)
	if err != nil {
		r.logger.Error("Failed to create payment config", "error", err)
		return fmt.Errorf("failed to create payment config: %w", err)
	}

	return nil
}

// GetByID retrieves a billing configuration by its ID
func (r *PaymentConfigRepository) GetByID(ctx context.Context, id int64) (*payment.Config, error) {
	query := `
		SELECT id, payment_type, name, description, amount, grade, class_name, student_id, is_active, can_installment, created_at, updated_at
		FROM payment_configs
		WHERE id = $1
	`

	var cfg payment.Config
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&cfg.ID,
		&cfg.PaymentType,
		&cfg.Name,
		&cfg.Description,
		&cfg.Amount,
		&cfg.Grade,
		&cfg.ClassName,
		&cfg.StudentID,
		&cfg.IsActive,
		&cfg.CanInstallment,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrConfigNotFound{ConfigID: id}
		}
		r.logger.Error("Failed to get payment config", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get payment config: %w", err)
	}

	return &cfg, nil
}

// List retrieves billing configurations, optionally restricted to active ones
func (r *PaymentConfigRepository) List(ctx context.Context, activeOnly bool) ([]*payment.Config, error) {
	query := `
		SELECT id, payment_type, name, description, amount, grade, class_name, student_id, is_active, can_installment, created_at, updated_at
		FROM payment_configs
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY id"

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list payment configs", "error", err)
		return nil, fmt.Errorf("failed to list payment configs: %w", err)
	}
	defer rows.Close()

	var configs []*payment.Config
	for rows.Next() {
		var cfg payment.Config
		if err := rows.Scan(
			&cfg.ID,
			&cfg.PaymentType,
			&cfg.Name,
			&cfg.Description,
			&cfg.Amount,
			&cfg.Grade,
			&cfg.ClassName,
			&cfg.StudentID,
			&cfg.IsActive,
			&cfg.CanInstallment,
			&cfg.CreatedAt,
			&cfg.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment config row: %w", err)
		}
		configs = append(configs, &cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment config rows: %w", err)
	}

	return configs, nil
}
