package account

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	t.Run("cash account", func(t *testing.T) {
		acc, err := NewAccount("Kas Sekolah", TypeCash, decimal.NewFromInt(500000))
		require.NoError(t, err)

		assert.Equal(t, "Kas Sekolah", acc.Name)
		assert.Equal(t, TypeCash, acc.Type)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(500000)))
		assert.True(t, acc.IsActive)
	})

	t.Run("zero opening balance", func(t *testing.T) {
		acc, err := NewAccount("BCA Operasional", TypeBank, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, acc.Balance.IsZero())
	})

	t.Run("empty name", func(t *testing.T) {
		acc, err := NewAccount("", TypeCash, decimal.Zero)
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("invalid type", func(t *testing.T) {
		acc, err := NewAccount("Kas", Type("WALLET"), decimal.Zero)
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("negative opening balance", func(t *testing.T) {
		acc, err := NewAccount("Kas", TypeCash, decimal.NewFromInt(-1))
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, ErrNegativeBalance)
	})
}

func TestAccount_CanWithdraw(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(100000)}

	assert.True(t, acc.CanWithdraw(decimal.NewFromInt(50000)))
	assert.True(t, acc.CanWithdraw(decimal.NewFromInt(100000)), "exact balance is withdrawable")
	assert.False(t, acc.CanWithdraw(decimal.NewFromInt(100001)))
}
