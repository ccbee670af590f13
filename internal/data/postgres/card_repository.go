package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/school-finance-ledger/internal/domain/card"
	"github.com/school-finance-ledger/internal/platform/persistence"
)

// CardRepository implements the card.Repository interface for PostgreSQL
type CardRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewCardRepository creates a new PostgreSQL SPP card repository
func NewCardRepository(logger *slog.Logger, db *persistence.PostgresDB) card.Repository {
	return &CardRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *CardRepository) WithTx(tx pgx.Tx) card.Repository {
	return &CardRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// DeactivateForStudent bulk-deactivates every active card of the student.
// Zero affected rows is fine: first issuance has nothing to deactivate.
func (r *CardRepository) DeactivateForStudent(ctx context.Context, studentID int64) error {
	query := `
		UPDATE spp_cards
		SET is_active = FALSE, updated_at = NOW()
		WHERE student_id = $1 AND is_active = TRUE
	`

	_, err := r.querier.Exec(ctx, query, studentID)
	if err != nil {
		r.logger.Error("Failed to deactivate spp cards", "student_id", studentID, "error", err)
		return fmt.Errorf("failed to deactivate spp cards: %w", err)
	}

	return nil
}

// Insert stores a new card. A barcode uniqueness violation is translated
// to card.ErrBarcodeCollision.
func (r *CardRepository) Insert(ctx context.Context, c *card.SppCard) error {
	query := `
		INSERT INTO spp_cards (student_id, barcode, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		c.StudentID,
		c.Barcode,
		c.IsActive,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return card.ErrBarcodeCollision{Barcode: c.Barcode}
		}
		r.logger.Error("Failed to insert spp card", "student_id", c.StudentID, "error", err)
		return fmt.Errorf("failed to insert spp card: %w", err)
	}

	return nil
}

// GetActiveByBarcode retrieves the active card for a barcode, or nil, nil
// when the barcode is unknown or the card is inactive.
func (r *CardRepository) GetActiveByBarcode(ctx context.Context, barcode string) (*card.SppCard, error) {
	query := `
		SELECT id, student_id, barcode, is_active, created_at, updated_at
		FROM spp_cards
		WHERE barcode = $1 AND is_active = TRUE
	`

	var c card.SppCard
	err := r.querier.QueryRow(ctx, query, barcode).Scan(
		&c.ID,
		&c.StudentID,
		&c.Barcode,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Unknown or inactive barcode
		}
		r.logger.Error("Failed to get spp card by barcode", "barcode", barcode, "error", err)
		return nil, fmt.Errorf("failed to get spp card by barcode: %w", err)
	}

	return &c, nil
}
