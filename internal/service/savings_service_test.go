package service

import (
	"context"
	"testing"

	"github.com/school-finance-ledger/internal/domain/savings"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSavingsService_CreateSavingsTransaction(t *testing.T) {
	ctx := context.Background()
	st := &student.Student{ID: 42, NIS: "12345", Name: "Budi Santoso"}

	t.Run("first deposit creates the savings row lazily", func(t *testing.T) {
		mockSavings := new(MockSavingsRepository)
		mockStudents := new(MockStudentRepository)
		svc := NewSavingsService(&fakeTxRunner{}, mockSavings, mockStudents, newTestLogger())

		amount := decimal.NewFromInt(25000)
		mockStudents.On("GetByID", mock.Anything, int64(42)).Return(st, nil).Once()
		mockSavings.On("LockByStudentID", mock.Anything, int64(42)).Return(nil, nil).Once()
		mockSavings.On("Create", mock.Anything, mock.AnythingOfType("*savings.Savings")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*savings.Savings).ID = 5
			}).Return(nil).Once()
		mockSavings.On("UpdateBalance", mock.Anything, int64(5), amount).Return(nil).Once()
		mockSavings.On("InsertTransaction", mock.Anything, mock.AnythingOfType("*savings.Transaction")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*savings.Transaction).ID = 21
			}).Return(nil).Once()

		tx, err := svc.CreateSavingsTransaction(ctx, SavingsTransactionInput{
			StudentID: 42,
			Type:      savings.TypeDeposit,
			Amount:    amount,
			CreatedBy: "admin",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(21), tx.ID)
		assert.Equal(t, int64(5), tx.SavingsID)
		assert.Equal(t, savings.TypeDeposit, tx.Type)
		mockSavings.AssertExpectations(t)
		mockStudents.AssertExpectations(t)
	})

	t.Run("losing the first-deposit race applies to the winner's row", func(t *testing.T) {
		mockSavings := new(MockSavingsRepository)
		mockStudents := new(MockStudentRepository)
		svc := NewSavingsService(&fakeTxRunner{}, mockSavings, mockStudents, newTestLogger())

		amount := decimal.NewFromInt(25000)
		winner := &savings.Savings{ID: 9, StudentID: 42, Balance: decimal.NewFromInt(40000)}

		mockStudents.On("GetByID", mock.Anything, int64(42)).Return(st, nil).Once()
		// No row on the first lock, and the insert is a no-op because a
		// concurrent movement created the row in between.
		mockSavings.On("LockByStudentID", mock.Anything, int64(42)).Return(nil, nil).Once()
		mockSavings.On("Create", mock.Anything, mock.AnythingOfType("*savings.Savings")).Return(nil).Once()
		mockSavings.On("LockByStudentID", mock.Anything, int64(42)).Return(winner, nil).Once()
		mockSavings.On("UpdateBalance", mock.Anything, int64(9), decimal.NewFromInt(65000)).Return(nil).Once()
		mockSavings.On("InsertTransaction", mock.Anything, mock.AnythingOfType("*savings.Transaction")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*savings.Transaction).ID = 23
			}).Return(nil).Once()

		tx, err := svc.CreateSavingsTransaction(ctx, SavingsTransactionInput{
			StudentID: 42,
			Type:      savings.TypeDeposit,
			Amount:    amount,
			CreatedBy: "admin",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(9), tx.SavingsID)
		mockSavings.AssertExpectations(t)
	})

	t.Run("withdrawal within balance", func(t *testing.T) {
		mockSavings := new(MockSavingsRepository)
		mockStudents := new(MockStudentRepository)
		svc := NewSavingsService(&fakeTxRunner{}, mockSavings, mockStudents, newTestLogger())

		sv := &savings.Savings{ID: 5, StudentID: 42, Balance: decimal.NewFromInt(75000)}
		mockStudents.On("GetByID", mock.Anything, int64(42)).Return(st, nil).Once()
		mockSavings.On("LockByStudentID", mock.Anything, int64(42)).Return(sv, nil).Once()
		mockSavings.On("UpdateBalance", mock.Anything, int64(5), decimal.NewFromInt(50000)).Return(nil).Once()
		mockSavings.On("InsertTransaction", mock.Anything, mock.AnythingOfType("*savings.Transaction")).Return(nil).Once()

		tx, err := svc.CreateSavingsTransaction(ctx, SavingsTransactionInput{
			StudentID: 42,
			Type:      savings.TypeWithdrawal,
			Amount:    decimal.NewFromInt(25000),
			CreatedBy: "admin",
		})

		require.NoError(t, err)
		assert.Equal(t, savings.TypeWithdrawal, tx.Type)
		mockSavings.AssertExpectations(t)
	})

	t.Run("overdraw is rejected without writes", func(t *testing.T) {
		mockSavings := new(MockSavingsRepository)
		mockStudents := new(MockStudentRepository)
		svc := NewSavingsService(&fakeTxRunner{}, mockSavings, mockStudents, newTestLogger())

		sv := &savings.Savings{ID: 5, StudentID: 42, Balance: decimal.NewFromInt(10000)}
		mockStudents.On("GetByID", mock.Anything, int64(42)).Return(st, nil).Once()
		mockSavings.On("LockByStudentID", mock.Anything, int64(42)).Return(sv, nil).Once()

		tx, err := svc.CreateSavingsTransaction(ctx, SavingsTransactionInput{
			StudentID: 42,
			Type:      savings.TypeWithdrawal,
			Amount:    decimal.NewFromInt(25000),
			CreatedBy: "admin",
		})

		assert.Nil(t, tx)
		var insufficientErr savings.ErrInsufficientBalance
		require.ErrorAs(t, err, &insufficientErr)
		mockSavings.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
		mockSavings.AssertNotCalled(t, "InsertTransaction", mock.Anything, mock.Anything)
		mockSavings.AssertExpectations(t)
	})

	t.Run("unknown student fails", func(t *testing.T) {
		mockSavings := new(MockSavingsRepository)
		mockStudents := new(MockStudentRepository)
		svc := NewSavingsService(&fakeTxRunner{}, mockSavings, mockStudents, newTestLogger())

		notFound := student.ErrStudentNotFound{StudentID: 99}
		mockStudents.On("GetByID", mock.Anything, int64(99)).Return(nil, notFound).Once()

		tx, err := svc.CreateSavingsTransaction(ctx, SavingsTransactionInput{
			StudentID: 99,
			Type:      savings.TypeDeposit,
			Amount:    decimal.NewFromInt(25000),
			CreatedBy: "admin",
		})

		assert.Nil(t, tx)
		var notFoundErr student.ErrStudentNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		mockStudents.AssertExpectations(t)
	})

	t.Run("invalid transaction type is rejected up front", func(t *testing.T) {
		mockSavings := new(MockSavingsRepository)
		mockStudents := new(MockStudentRepository)
		svc := NewSavingsService(&fakeTxRunner{}, mockSavings, mockStudents, newTestLogger())

		tx, err := svc.CreateSavingsTransaction(ctx, SavingsTransactionInput{
			StudentID: 42,
			Type:      savings.TransactionType("TRANSFER"),
			Amount:    decimal.NewFromInt(25000),
			CreatedBy: "admin",
		})

		assert.Nil(t, tx)
		assert.ErrorIs(t, err, savings.ErrInvalidAmount)
		mockStudents.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestSavingsService_GetStudentSavings(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the row with its history", func(t *testing.T) {
		mockSavings := new(MockSavingsRepository)
		mockStudents := new(MockStudentRepository)
		svc := NewSavingsService(&fakeTxRunner{}, mockSavings, mockStudents, newTestLogger())

		sv := &savings.Savings{ID: 5, StudentID: 42, Balance: decimal.NewFromInt(75000)}
		history := []*savings.Transaction{
			{ID: 22, SavingsID: 5, Type: savings.TypeWithdrawal, Amount: decimal.NewFromInt(5000)},
			{ID: 21, SavingsID: 5, Type: savings.TypeDeposit, Amount: decimal.NewFromInt(80000)},
		}
		mockSavings.On("GetByStudentID", mock.Anything, int64(42)).Return(sv, nil).Once()
		mockSavings.On("ListTransactions", mock.Anything, int64(5)).Return(history, nil).Once()

		result, err := svc.GetStudentSavings(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, sv, result.Savings)
		assert.Len(t, result.Transactions, 2)
		mockSavings.AssertExpectations(t)
	})

	t.Run("no savings yet resolves to nil", func(t *testing.T) {
		mockSavings := new(MockSavingsRepository)
		mockStudents := new(MockStudentRepository)
		svc := NewSavingsService(&fakeTxRunner{}, mockSavings, mockStudents, newTestLogger())

		mockSavings.On("GetByStudentID", mock.Anything, int64(43)).Return(nil, nil).Once()

		result, err := svc.GetStudentSavings(ctx, 43)

		assert.NoError(t, err)
		assert.Nil(t, result)
		mockSavings.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything)
	})
}
