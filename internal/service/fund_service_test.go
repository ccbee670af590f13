package service

import (
	"context"
	"testing"

	"github.com/school-finance-ledger/internal/domain/fund"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFundService_CreateFundPosition(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a zero balance pool", func(t *testing.T) {
		mockRepo := new(MockFundRepository)
		svc := NewFundService(mockRepo)

		description := "Dana bantuan operasional sekolah"
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*fund.Position")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*fund.Position).ID = 7
			}).Return(nil).Once()

		p, err := svc.CreateFundPosition(ctx, "Dana BOS", &description)

		require.NoError(t, err)
		assert.Equal(t, int64(7), p.ID)
		assert.True(t, p.Balance.IsZero())
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		mockRepo := new(MockFundRepository)
		svc := NewFundService(mockRepo)

		p, err := svc.CreateFundPosition(ctx, "", nil)

		assert.Nil(t, p)
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestFundService_GetFundPositions(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockFundRepository)
	svc := NewFundService(mockRepo)

	positions := []*fund.Position{
		{ID: 7, Name: "Dana BOS", Balance: decimal.NewFromInt(1000000)},
	}
	mockRepo.On("List", mock.Anything).Return(positions, nil).Once()

	got, err := svc.GetFundPositions(ctx)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	mockRepo.AssertExpectations(t)
}
