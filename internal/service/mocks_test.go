package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/school-finance-ledger/internal/domain/account"
	"github.com/school-finance-ledger/internal/domain/card"
	"github.com/school-finance-ledger/internal/domain/fund"
	"github.com/school-finance-ledger/internal/domain/ledger"
	"github.com/school-finance-ledger/internal/domain/notification"
	"github.com/school-finance-ledger/internal/domain/payment"
	"github.com/school-finance-ledger/internal/domain/receipt"
	"github.com/school-finance-ledger/internal/domain/report"
	"github.com/school-finance-ledger/internal/domain/savings"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/school-finance-ledger/internal/platform/messaging/producers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// fakeTxRunner runs the transactional closure directly; the repositories
// under test are mocks, so no real transaction is needed.
type fakeTxRunner struct{}

func (f *fakeTxRunner) ExecuteTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context, activeOnly bool) ([]*account.Account, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyBalanceDelta(ctx context.Context, id int64, delta decimal.Decimal) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockAccountRepository) LockForUpdate(ctx context.Context, id int64) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) WithTx(_ pgx.Tx) account.Repository {
	return m
}

type MockFundRepository struct {
	mock.Mock
}

func (m *MockFundRepository) Create(ctx context.Context, p *fund.Position) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockFundRepository) GetByID(ctx context.Context, id int64) (*fund.Position, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Position), args.Error(1)
}

func (m *MockFundRepository) List(ctx context.Context) ([]*fund.Position, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fund.Position), args.Error(1)
}

func (m *MockFundRepository) ApplyBalanceDelta(ctx context.Context, id int64, delta decimal.Decimal) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockFundRepository) LockForUpdate(ctx context.Context, id int64) (*fund.Position, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Position), args.Error(1)
}

func (m *MockFundRepository) WithTx(_ pgx.Tx) fund.Repository {
	return m
}

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, s *student.Student) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*student.Student), args.Error(1)
}

func (m *MockStudentRepository) List(ctx context.Context, filter student.Filter) ([]*student.Student, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*student.Student), args.Error(1)
}

func (m *MockStudentRepository) WithTx(_ pgx.Tx) student.Repository {
	return m
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Insert(ctx context.Context, t *ledger.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id int64) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter ledger.Filter, page ledger.Page) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) WithTx(_ pgx.Tx) ledger.Repository {
	return m
}

type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) Create(ctx context.Context, cfg *payment.Config) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockConfigRepository) GetByID(ctx context.Context, id int64) (*payment.Config, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Config), args.Error(1)
}

func (m *MockConfigRepository) List(ctx context.Context, activeOnly bool) ([]*payment.Config, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Config), args.Error(1)
}

func (m *MockConfigRepository) WithTx(_ pgx.Tx) payment.ConfigRepository {
	return m
}

type MockStudentPaymentRepository struct {
	mock.Mock
}

func (m *MockStudentPaymentRepository) Create(ctx context.Context, sp *payment.StudentPayment) error {
	args := m.Called(ctx, sp)
	return args.Error(0)
}

func (m *MockStudentPaymentRepository) GetByID(ctx context.Context, id int64) (*payment.StudentPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.StudentPayment), args.Error(1)
}

func (m *MockStudentPaymentRepository) List(ctx context.Context, filter payment.Filter) ([]*payment.StudentPayment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.StudentPayment), args.Error(1)
}

func (m *MockStudentPaymentRepository) ListHistory(ctx context.Context, studentID int64) ([]*payment.HistoryEntry, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.HistoryEntry), args.Error(1)
}

func (m *MockStudentPaymentRepository) UpdateAmounts(ctx context.Context, sp *payment.StudentPayment) error {
	args := m.Called(ctx, sp)
	return args.Error(0)
}

func (m *MockStudentPaymentRepository) LockForUpdate(ctx context.Context, id int64) (*payment.StudentPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.StudentPayment), args.Error(1)
}

func (m *MockStudentPaymentRepository) WithTx(_ pgx.Tx) payment.StudentPaymentRepository {
	return m
}

type MockSavingsRepository struct {
	mock.Mock
}

func (m *MockSavingsRepository) GetByStudentID(ctx context.Context, studentID int64) (*savings.Savings, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*savings.Savings), args.Error(1)
}

func (m *MockSavingsRepository) Create(ctx context.Context, s *savings.Savings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSavingsRepository) LockByStudentID(ctx context.Context, studentID int64) (*savings.Savings, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*savings.Savings), args.Error(1)
}

func (m *MockSavingsRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	args := m.Called(ctx, id, balance)
	return args.Error(0)
}

func (m *MockSavingsRepository) InsertTransaction(ctx context.Context, t *savings.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockSavingsRepository) ListTransactions(ctx context.Context, savingsID int64) ([]*savings.Transaction, error) {
	args := m.Called(ctx, savingsID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*savings.Transaction), args.Error(1)
}

func (m *MockSavingsRepository) WithTx(_ pgx.Tx) savings.Repository {
	return m
}

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) DeactivateForStudent(ctx context.Context, studentID int64) error {
	args := m.Called(ctx, studentID)
	return args.Error(0)
}

func (m *MockCardRepository) Insert(ctx context.Context, c *card.SppCard) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCardRepository) GetActiveByBarcode(ctx context.Context, barcode string) (*card.SppCard, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*card.SppCard), args.Error(1)
}

func (m *MockCardRepository) WithTx(_ pgx.Tx) card.Repository {
	return m
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.WhatsappNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkFailed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListPending(ctx context.Context, limit int) ([]*notification.WhatsappNotification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.WhatsappNotification), args.Error(1)
}

func (m *MockNotificationRepository) WithTx(_ pgx.Tx) notification.Repository {
	return m
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) SumByTypeInRange(ctx context.Context, from, to time.Time) ([]report.TypeTotal, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.TypeTotal), args.Error(1)
}

func (m *MockReportRepository) ListOutstanding(ctx context.Context, grade student.Grade, className string) ([]report.OutstandingRow, error) {
	args := m.Called(ctx, grade, className)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.OutstandingRow), args.Error(1)
}

func (m *MockReportRepository) CashPositions(ctx context.Context) ([]report.AccountPosition, []report.FundPositionLine, error) {
	args := m.Called(ctx)
	var accounts []report.AccountPosition
	var funds []report.FundPositionLine
	if args.Get(0) != nil {
		accounts = args.Get(0).([]report.AccountPosition)
	}
	if args.Get(1) != nil {
		funds = args.Get(1).([]report.FundPositionLine)
	}
	return accounts, funds, args.Error(2)
}

type MockReceiptArchive struct {
	mock.Mock
}

func (m *MockReceiptArchive) Save(ctx context.Context, r *receipt.Receipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReceiptArchive) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*receipt.Receipt, error) {
	args := m.Called(ctx, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.Receipt), args.Error(1)
}

type MockPrinter struct {
	mock.Mock
}

func (m *MockPrinter) Print(rec *receipt.Receipt, copies int) error {
	args := m.Called(rec, copies)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) CreateNotification(ctx context.Context, phone, message string, nType notification.Type) (*notification.WhatsappNotification, error) {
	args := m.Called(ctx, phone, message, nType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.WhatsappNotification), args.Error(1)
}

func (m *MockNotificationService) SendPaymentConfirmation(ctx context.Context, st *student.Student, amount decimal.Decimal) error {
	args := m.Called(ctx, st, amount)
	return args.Error(0)
}

var (
	_ account.Repository               = (*MockAccountRepository)(nil)
	_ fund.Repository                  = (*MockFundRepository)(nil)
	_ student.Repository               = (*MockStudentRepository)(nil)
	_ ledger.Repository                = (*MockTransactionRepository)(nil)
	_ payment.ConfigRepository         = (*MockConfigRepository)(nil)
	_ payment.StudentPaymentRepository = (*MockStudentPaymentRepository)(nil)
	_ savings.Repository               = (*MockSavingsRepository)(nil)
	_ card.Repository                  = (*MockCardRepository)(nil)
	_ notification.Repository          = (*MockNotificationRepository)(nil)
	_ report.Repository                = (*MockReportRepository)(nil)
	_ receipt.Archive                  = (*MockReceiptArchive)(nil)
	_ producers.MessagePublisher       = (*MockPublisher)(nil)
	_ Printer                          = (*MockPrinter)(nil)
	_ NotificationService              = (*MockNotificationService)(nil)
)
