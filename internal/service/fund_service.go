package service

import (
	"context"

	"github.com/school-finance-ledger/internal/domain/fund"
)

// FundServiceImpl implements the FundService interface
type FundServiceImpl struct {
	fundRepo fund.Repository
}

// NewFundService creates a new fund position service
func NewFundService(fundRepo fund.Repository) FundService {
	return &FundServiceImpl{
		fundRepo: fundRepo,
	}
}

// CreateFundPosition creates a new earmarked fund pool with a zero balance
func (s *FundServiceImpl) CreateFundPosition(ctx context.Context, name string, description *string) (*fund.Position, error) {
	p, err := fund.NewPosition(name, description)
	if err != nil {
		return nil, err
	}

	if err := s.fundRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// GetFundPositions lists all fund positions
func (s *FundServiceImpl) GetFundPositions(ctx context.Context) ([]*fund.Position, error) {
	return s.fundRepo.List(ctx)
}
