package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/school-finance-ledger/internal/domain/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardRepository_DeactivateForStudent(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CardRepository{querier: mock, logger: logger}

	query := `
		UPDATE spp_cards
		SET is_active = FALSE, updated_at = NOW\(\)
		WHERE student_id = \$1 AND is_active = TRUE
	`

	t.Run("deactivates existing cards", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(int64(42)).WillReturnResult(pgxmock.NewResult("UPDATE", 2))

		err := repo.DeactivateForStudent(ctx, 42)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no active cards is fine", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(int64(42)).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.DeactivateForStudent(ctx, 42)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCardRepository_Insert(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CardRepository{querier: mock, logger: logger}

	now := time.Now()
	c := &card.SppCard{
		StudentID: 42,
		Barcode:   card.Barcode(42, now),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO spp_cards \(student_id, barcode, is_active, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5\)
		RETURNING id
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(c.StudentID, c.Barcode, c.IsActive, c.CreatedAt, c.UpdatedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))

		err := repo.Insert(ctx, c)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), c.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("barcode collision", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(c.StudentID, c.Barcode, c.IsActive, c.CreatedAt, c.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Insert(ctx, c)
		var collisionErr card.ErrBarcodeCollision
		require.ErrorAs(t, err, &collisionErr)
		assert.Equal(t, c.Barcode, collisionErr.Barcode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCardRepository_GetActiveByBarcode(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CardRepository{querier: mock, logger: logger}
	now := time.Now()
	barcode := card.Barcode(42, now)

	query := `
		SELECT id, student_id, barcode, is_active, created_at, updated_at
		FROM spp_cards
		WHERE barcode = \$1 AND is_active = TRUE
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "student_id", "barcode", "is_active", "created_at", "updated_at"}).
			AddRow(int64(5), int64(42), barcode, true, now, now)
		mock.ExpectQuery(query).WithArgs(barcode).WillReturnRows(rows)

		c, err := repo.GetActiveByBarcode(ctx, barcode)
		require.NoError(t, err)
		assert.Equal(t, int64(42), c.StudentID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown barcode returns nil without error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("SPP999999000").WillReturnError(pgx.ErrNoRows)

		c, err := repo.GetActiveByBarcode(ctx, "SPP999999000")
		assert.NoError(t, err)
		assert.Nil(t, c)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(barcode).WillReturnError(dbErr)

		c, err := repo.GetActiveByBarcode(ctx, barcode)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
