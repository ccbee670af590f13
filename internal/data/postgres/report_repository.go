package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/school-finance-ledger/internal/domain/report"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/school-finance-ledger/internal/platform/persistence"
)

// ReportRepository implements the report.Repository aggregation queries.
// All queries are read-only and tolerate empty result sets.
type ReportRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(logger *slog.Logger, db *persistence.PostgresDB) report.Repository {
	return &ReportRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// SumByTypeInRange aggregates transactions in [from, to) by transaction
// type and, for income rows linked to an obligation, the config's payment
// type. Rows without a linked config carry an empty payment type.
func (r *ReportRepository) SumByTypeInRange(ctx context.Context, from, to time.Time) ([]report.TypeTotal, error) {
	query := `
		SELECT t.type, COALESCE(pc.payment_type::text, ''), COALESCE(SUM(t.amount), 0), COUNT(*)
		FROM transactions t
		LEFT JOIN student_payments sp ON sp.id = t.student_payment_id
		LEFT JOIN payment_configs pc ON pc.id = sp.payment_config_id
		WHERE t.created_at >= $1 AND t.created_at < $2
		GROUP BY t.type, pc.payment_type
	`

	rows, err := r.querier.Query(ctx, query, from, to)
	if err != nil {
		r.logger.Error("Failed to aggregate transactions", "error", err)
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}
	defer rows.Close()

	var totals []report.TypeTotal
	for rows.Next() {
		var t report.TypeTotal
		if err := rows.Scan(&t.TransactionType, &t.PaymentType, &t.Total, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan aggregation row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregation rows: %w", err)
	}

	return totals, nil
}

// ListOutstanding returns non-PAID obligations joined with student and
// config data, ordered by student so the service can group rows per student.
func (r *ReportRepository) ListOutstanding(ctx context.Context, grade student.Grade, className string) ([]report.OutstandingRow, error) {
	query := `
		SELECT s.id, s.name, s.nis, s.grade, s.class_name,
		       pc.payment_type, sp.amount_due, sp.amount_paid, sp.amount_remaining, sp.due_date
		FROM student_payments sp
		JOIN students s ON s.id = sp.student_id
		JOIN payment_configs pc ON pc.id = sp.payment_config_id
		WHERE sp.status != 'PAID'
	`
	var args []interface{}

	if grade != "" {
		args = append(args, grade)
		query += fmt.Sprintf(" AND s.grade = $%d", len(args))
	}
	if className != "" {
		args = append(args, className)
		query += fmt.Sprintf(" AND s.class_name = $%d", len(args))
	}

	query += " ORDER BY s.name, sp.id"

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list outstanding payments", "error", err)
		return nil, fmt.Errorf("failed to list outstanding payments: %w", err)
	}
	defer rows.Close()

	var result []report.OutstandingRow
	for rows.Next() {
		var row report.OutstandingRow
		if err := rows.Scan(
			&row.StudentID,
			&row.StudentName,
			&row.NIS,
			&row.Grade,
			&row.ClassName,
			&row.Item.PaymentType,
			&row.Item.AmountDue,
			&row.Item.AmountPaid,
			&row.Item.AmountRemaining,
			&row.Item.DueDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outstanding row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outstanding rows: %w", err)
	}

	return result, nil
}

// CashPositions returns active account balances and all fund position balances
func (r *ReportRepository) CashPositions(ctx context.Context) ([]report.AccountPosition, []report.FundPositionLine, error) {
	accountQuery := `
		SELECT name, type, balance
		FROM accounts
		WHERE is_active = TRUE
		ORDER BY id
	`

	rows, err := r.querier.Query(ctx, accountQuery)
	if err != nil {
		r.logger.Error("Failed to query account positions", "error", err)
		return nil, nil, fmt.Errorf("failed to query account positions: %w", err)
	}

	var accounts []report.AccountPosition
	for rows.Next() {
		var a report.AccountPosition
		if err := rows.Scan(&a.AccountName, &a.AccountType, &a.Balance); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("failed to scan account position row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, fmt.Errorf("failed to iterate account position rows: %w", err)
	}
	rows.Close()

	fundQuery := `
		SELECT name, balance
		FROM fund_positions
		ORDER BY id
	`

	fundRows, err := r.querier.Query(ctx, fundQuery)
	if err != nil {
		r.logger.Error("Failed to query fund positions", "error", err)
		return nil, nil, fmt.Errorf("failed to query fund positions: %w", err)
	}
	defer fundRows.Close()

	var funds []report.FundPositionLine
	for fundRows.Next() {
		var f report.FundPositionLine
		if err := fundRows.Scan(&f.FundName, &f.Balance); err != nil {
			return nil, nil, fmt.Errorf("failed to scan fund position row: %w", err)
		}
		funds = append(funds, f)
	}
	if err := fundRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate fund position rows: %w", err)
	}

	return accounts, funds, nil
}
