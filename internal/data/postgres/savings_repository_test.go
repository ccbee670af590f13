package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/school-finance-ledger/internal/domain/savings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavingsRepository_GetByStudentID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &SavingsRepository{querier: mock, logger: logger}
	now := time.Now()

	query := `
		SELECT id, student_id, balance, created_at, updated_at
		FROM savings
		WHERE student_id = \$1
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "student_id", "balance", "created_at", "updated_at"}).
			AddRow(int64(5), int64(42), decimal.NewFromInt(75000), now, now)
		mock.ExpectQuery(query).WithArgs(int64(42)).WillReturnRows(rows)

		s, err := repo.GetByStudentID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(5), s.ID)
		assert.True(t, s.Balance.Equal(decimal.NewFromInt(75000)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no savings yet returns nil without error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(int64(43)).WillReturnError(pgx.ErrNoRows)

		s, err := repo.GetByStudentID(ctx, 43)
		assert.NoError(t, err)
		assert.Nil(t, s)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(int64(42)).WillReturnError(dbErr)

		s, err := repo.GetByStudentID(ctx, 42)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSavingsRepository_LockByStudentID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &SavingsRepository{querier: mock, logger: logger}
	now := time.Now()

	query := `
		SELECT id, student_id, balance, created_at, updated_at
		FROM savings
		WHERE student_id = \$1
		FOR UPDATE
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "student_id", "balance", "created_at", "updated_at"}).
			AddRow(int64(5), int64(42), decimal.NewFromInt(75000), now, now)
		mock.ExpectQuery(query).WithArgs(int64(42)).WillReturnRows(rows)

		s, err := repo.LockByStudentID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(5), s.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row returns nil without error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(int64(43)).WillReturnError(pgx.ErrNoRows)

		s, err := repo.LockByStudentID(ctx, 43)
		assert.NoError(t, err)
		assert.Nil(t, s)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSavingsRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &SavingsRepository{querier: mock, logger: logger}
	now := time.Now()

	query := `
		INSERT INTO savings \(student_id, balance, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4\)
		ON CONFLICT \(student_id\) DO NOTHING
		RETURNING id
	`

	t.Run("success", func(t *testing.T) {
		s := &savings.Savings{StudentID: 42, Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now}
		mock.ExpectQuery(query).
			WithArgs(s.StudentID, s.Balance, s.CreatedAt, s.UpdatedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))

		err := repo.Create(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, int64(5), s.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing row leaves the id zero without error", func(t *testing.T) {
		s := &savings.Savings{StudentID: 42, Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now}
		mock.ExpectQuery(query).
			WithArgs(s.StudentID, s.Balance, s.CreatedAt, s.UpdatedAt).
			WillReturnError(pgx.ErrNoRows)

		err := repo.Create(ctx, s)
		require.NoError(t, err)
		assert.Zero(t, s.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		s := &savings.Savings{StudentID: 42, Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now}
		dbErr := errors.New("insert failed")
		mock.ExpectQuery(query).
			WithArgs(s.StudentID, s.Balance, s.CreatedAt, s.UpdatedAt).
			WillReturnError(dbErr)

		err := repo.Create(ctx, s)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSavingsRepository_UpdateBalance(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &SavingsRepository{querier: mock, logger: logger}
	balance := decimal.NewFromInt(90000)

	query := `
		UPDATE savings
		SET balance = \$1, updated_at = NOW\(\)
		WHERE id = \$2
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(balance, int64(5)).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateBalance(ctx, 5, balance)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(balance, int64(99)).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateBalance(ctx, 99, balance)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "savings not found")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSavingsRepository_InsertTransaction(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &SavingsRepository{querier: mock, logger: logger}

	now := time.Now()
	tx := &savings.Transaction{
		SavingsID: 5,
		Type:      savings.TypeDeposit,
		Amount:    decimal.NewFromInt(15000),
		CreatedBy: "admin",
		CreatedAt: now,
	}

	query := `
		INSERT INTO savings_transactions \(savings_id, type, amount, description, created_by, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)
		RETURNING id
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(tx.SavingsID, tx.Type, tx.Amount, tx.Description, tx.CreatedBy, tx.CreatedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))

		err := repo.InsertTransaction(ctx, tx)
		assert.NoError(t, err)
		assert.Equal(t, int64(21), tx.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("insert failed")
		mock.ExpectQuery(query).
			WithArgs(tx.SavingsID, tx.Type, tx.Amount, tx.Description, tx.CreatedBy, tx.CreatedAt).
			WillReturnError(dbErr)

		err := repo.InsertTransaction(ctx, tx)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSavingsRepository_ListTransactions(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &SavingsRepository{querier: mock, logger: logger}
	now := time.Now()

	query := `
		SELECT id, savings_id, type, amount, description, created_by, created_at
		FROM savings_transactions
		WHERE savings_id = \$1
		ORDER BY created_at DESC
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "savings_id", "type", "amount", "description", "created_by", "created_at"}).
			AddRow(int64(22), int64(5), savings.TypeWithdrawal, decimal.NewFromInt(5000), (*string)(nil), "admin", now).
			AddRow(int64(21), int64(5), savings.TypeDeposit, decimal.NewFromInt(15000), (*string)(nil), "admin", now.Add(-time.Hour))
		mock.ExpectQuery(query).WithArgs(int64(5)).WillReturnRows(rows)

		txs, err := repo.ListTransactions(ctx, 5)
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, savings.TypeWithdrawal, txs[0].Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
