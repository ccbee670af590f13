package service

import (
	"context"
	"testing"

	"github.com/school-finance-ledger/internal/domain/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a bank account with bank details", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		svc := NewAccountService(mockRepo)

		bankName := "BCA"
		accountNumber := "1234567890"
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*account.Account")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*account.Account).ID = 4
			}).Return(nil).Once()

		acc, err := svc.CreateAccount(ctx, "Rekening Operasional", account.TypeBank, &bankName, &accountNumber, decimal.NewFromInt(1000000))

		require.NoError(t, err)
		assert.Equal(t, int64(4), acc.ID)
		assert.Equal(t, account.TypeBank, acc.Type)
		assert.Equal(t, &bankName, acc.BankName)
		assert.True(t, acc.IsActive)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(1000000)))
		mockRepo.AssertExpectations(t)
	})

	t.Run("negative opening balance is rejected", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		svc := NewAccountService(mockRepo)

		acc, err := svc.CreateAccount(ctx, "Kas", account.TypeCash, nil, nil, decimal.NewFromInt(-100))

		assert.Nil(t, acc)
		assert.ErrorIs(t, err, account.ErrNegativeBalance)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAccountService_GetAccountByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	svc := NewAccountService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, int64(99)).
		Return(nil, account.ErrAccountNotFound{AccountID: 99}).Once()

	acc, err := svc.GetAccountByID(ctx, 99)

	assert.Nil(t, acc)
	var notFoundErr account.ErrAccountNotFound
	assert.ErrorAs(t, err, &notFoundErr)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_GetAccounts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	svc := NewAccountService(mockRepo)

	accounts := []*account.Account{
		{ID: 3, Name: "Kas Utama", Type: account.TypeCash},
		{ID: 4, Name: "Rekening Operasional", Type: account.TypeBank},
	}
	mockRepo.On("List", mock.Anything, true).Return(accounts, nil).Once()

	got, err := svc.GetAccounts(ctx, true)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	mockRepo.AssertExpectations(t)
}
