package service

import (
	"context"
	"time"

	"github.com/school-finance-ledger/internal/domain/ledger"
	"github.com/school-finance-ledger/internal/domain/payment"
	"github.com/school-finance-ledger/internal/domain/report"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/shopspring/decimal"
)

// ReportServiceImpl implements the ReportService interface. Reports are
// read-only aggregations over committed state; every report tolerates an
// empty result set and renders zeros.
type ReportServiceImpl struct {
	reportRepo report.Repository
}

// NewReportService creates a new report service
func NewReportService(reportRepo report.Repository) ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
	}
}

// GetDailyReport sums cash movement for the calendar day of the given date.
// Day bounds are pinned to UTC, the same convention the monthly report uses.
func (s *ReportServiceImpl) GetDailyReport(ctx context.Context, date time.Time) (*report.DailyReport, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	totals, err := s.reportRepo.SumByTypeInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	income, expense, count := sumTotals(totals)
	return &report.DailyReport{
		Date:              from.Format("2006-01-02"),
		TotalIncome:       income,
		TotalExpense:      expense,
		NetCashflow:       income.Sub(expense),
		TransactionsCount: count,
	}, nil
}

// GetMonthlyReport sums cash movement for the month and groups income by
// the linked payment type
func (s *ReportServiceImpl) GetMonthlyReport(ctx context.Context, month time.Month, year int) (*report.MonthlyReport, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	totals, err := s.reportRepo.SumByTypeInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	income, expense, _ := sumTotals(totals)

	collections := make(map[payment.Type]decimal.Decimal)
	for _, t := range totals {
		if t.TransactionType == string(ledger.TypeIncome) && t.PaymentType != "" {
			current, ok := collections[t.PaymentType]
			if !ok {
				current = decimal.Zero
			}
			collections[t.PaymentType] = current.Add(t.Total)
		}
	}

	return &report.MonthlyReport{
		Month:              from.Format("January"),
		Year:               year,
		TotalIncome:        income,
		TotalExpense:       expense,
		NetCashflow:        income.Sub(expense),
		PaymentCollections: collections,
	}, nil
}

// GetOutstandingPayments groups non-PAID obligations per student with each
// student's total outstanding amount
func (s *ReportServiceImpl) GetOutstandingPayments(ctx context.Context, grade student.Grade, className string) ([]*report.OutstandingStudent, error) {
	rows, err := s.reportRepo.ListOutstanding(ctx, grade, className)
	if err != nil {
		return nil, err
	}

	var result []*report.OutstandingStudent
	byStudent := make(map[int64]*report.OutstandingStudent)
	for _, row := range rows {
		entry, ok := byStudent[row.StudentID]
		if !ok {
			entry = &report.OutstandingStudent{
				StudentID:        row.StudentID,
				StudentName:      row.StudentName,
				NIS:              row.NIS,
				Grade:            row.Grade,
				ClassName:        row.ClassName,
				TotalOutstanding: decimal.Zero,
			}
			byStudent[row.StudentID] = entry
			result = append(result, entry)
		}
		entry.OutstandingPayments = append(entry.OutstandingPayments, row.Item)
		entry.TotalOutstanding = entry.TotalOutstanding.Add(row.Item.AmountRemaining)
	}

	return result, nil
}

// GetCashPositionReport sums active account balances and all fund pools
func (s *ReportServiceImpl) GetCashPositionReport(ctx context.Context) (*report.CashPosition, error) {
	accounts, funds, err := s.reportRepo.CashPositions(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	for _, f := range funds {
		total = total.Add(f.Balance)
	}

	return &report.CashPosition{
		Accounts:          accounts,
		FundPositions:     funds,
		TotalCashPosition: total,
	}, nil
}

// sumTotals folds aggregation buckets into income, expense and row count.
// TRANSFER rows count toward the transaction count but neither total.
func sumTotals(totals []report.TypeTotal) (income, expense decimal.Decimal, count int) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range totals {
		switch t.TransactionType {
		case string(ledger.TypeIncome):
			income = income.Add(t.Total)
		case string(ledger.TypeExpense):
			expense = expense.Add(t.Total)
		}
		count += t.Count
	}
	return income, expense, count
}
