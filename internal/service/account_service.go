package service

import (
	"context"

	"github.com/school-finance-ledger/internal/domain/account"
	"github.com/shopspring/decimal"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo account.Repository) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
	}
}

// CreateAccount creates a new cash or bank account with the given opening balance
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, name string, accType account.Type, bankName, accountNumber *string, openingBalance decimal.Decimal) (*account.Account, error) {
	acc, err := account.NewAccount(name, accType, openingBalance)
	if err != nil {
		return nil, err
	}
	acc.BankName = bankName
	acc.AccountNumber = accountNumber

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// GetAccountByID retrieves an account by its ID, returns ErrAccountNotFound if not found
func (s *AccountServiceImpl) GetAccountByID(ctx context.Context, id int64) (*account.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// GetAccounts lists accounts, optionally restricted to active ones
func (s *AccountServiceImpl) GetAccounts(ctx context.Context, activeOnly bool) ([]*account.Account, error) {
	return s.accountRepo.List(ctx, activeOnly)
}
